package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getadmin "cnc-ops/http-server/admin/get"
	removeadmin "cnc-ops/http-server/admin/remove"
	saveadmin "cnc-ops/http-server/admin/save"
	upadmin "cnc-ops/http-server/admin/update"
	"cnc-ops/http-server/auth/login"
	"cnc-ops/http-server/auth/logout"
	"cnc-ops/http-server/auth/me"
	getdashboard "cnc-ops/http-server/dashboard/get"
	submitdowntime "cnc-ops/http-server/downtime/submit"
	generate_excel "cnc-ops/http-server/generate-report/generate-excel"
	gethistory "cnc-ops/http-server/history/get"
	"cnc-ops/http-server/production/draft"
	submitproduction "cnc-ops/http-server/production/submit"
	upproduction "cnc-ops/http-server/production/update"
	"cnc-ops/internal/config"
	"cnc-ops/internal/middleware/auth"
	"cnc-ops/internal/service/directory"
	generate_excel2 "cnc-ops/internal/service/generate-excel"
	"cnc-ops/internal/service/history"
	"cnc-ops/internal/service/report"
)

type services struct {
	reports   *report.Engine
	directory *directory.Service
	history   *history.Service
	excel     *generate_excel2.GenerateExcelService
	gate      *auth.Gate
}

func routes(cfg config.Config, log *slog.Logger, svc services) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Post("/api/login", login.Login(log, svc.directory, svc.gate))
	router.Post("/api/logout", logout.Logout(log, svc.gate))

	router.Group(func(r chi.Router) {
		r.Use(svc.gate.RequireUser)

		r.Get("/api/me", me.Me(log))
		r.Get("/api/dashboard", getdashboard.Dashboard(log, svc.directory))
		r.Get("/api/options", getdashboard.GetOptions(log, svc.directory))

		r.Get("/api/production/draft", draft.GetDraft(log, svc.reports))
		r.Post("/api/production", submitproduction.SubmitProduction(log, svc.reports))
		r.Put("/api/production/{id}", upproduction.UpdateProduction(log, svc.reports))

		r.Post("/api/downtime", submitdowntime.SubmitDowntime(log, svc.reports))

		r.Get("/api/history", gethistory.GetHistory(log, svc.history))
		r.Get("/api/history/export.xlsx", generate_excel.GenerateHistoryExcel(log, svc.excel))

		adminRouter := chi.NewRouter()
		adminRouter.Use(svc.gate.RequireAdmin)

		adminRouter.Get("/users", getadmin.GetUsersAdmin(log, svc.directory))
		adminRouter.Post("/users", saveadmin.SaveUserAdmin(log, svc.directory))
		adminRouter.Put("/users/{id}", upadmin.UpdateUserAdmin(log, svc.directory))
		adminRouter.Delete("/users/{id}", removeadmin.DeleteUserAdmin(log, svc.directory))

		adminRouter.Get("/machines", getadmin.GetMachinesAdmin(log, svc.directory))
		adminRouter.Post("/machines", saveadmin.SaveMachineAdmin(log, svc.directory))
		adminRouter.Put("/machines/{id}", upadmin.UpdateMachineAdmin(log, svc.directory))
		adminRouter.Delete("/machines/{id}", removeadmin.DeleteMachineAdmin(log, svc.directory))

		r.Mount("/api/admin", adminRouter)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not found", http.StatusNotFound)
	})

	return router
}
