package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"

	"cnc-ops/internal/sheets"
	"cnc-ops/internal/storage"
	"cnc-ops/internal/validation"
)

var ErrInvalidReport = errors.New("invalid report")

type Records interface {
	Machines(ctx context.Context) ([]storage.Machine, error)
	ProductionReports(ctx context.Context) ([]storage.ProductionReport, error)
	SaveProductionReports(ctx context.Context, reports []storage.ProductionReport) error
	DowntimeReports(ctx context.Context) ([]storage.DowntimeReport, error)
	SaveDowntimeReports(ctx context.Context, reports []storage.DowntimeReport) error
}

type Syncer interface {
	Post(ctx context.Context, sheetName string, data map[string]any) sheets.Result
}

// Result is what a submit or update hands back to the caller. Message is
// shown to the user as is.
type Result struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	ID      string             `json:"id,omitempty"`
	Kind    sheets.FailureKind `json:"-"`
}

// Engine derives report fields and runs submissions: the row goes to the
// spreadsheet first and is stored locally only after the webhook accepted it.
type Engine struct {
	log      *slog.Logger
	records  Records
	sync     Syncer
	validate *validator.Validate
	now      func() time.Time
}

func NewEngine(log *slog.Logger, records Records, sync Syncer) *Engine {
	return &Engine{
		log:      log,
		records:  records,
		sync:     sync,
		validate: validation.New(),
		now:      time.Now,
	}
}

// Prepare recomputes the derived fields of r. Call it after any change to
// projectCode, startTime, endTime or actualQty.
func (e *Engine) Prepare(r *storage.ProductionReport) {
	r.CustomerCode = DeriveCustomerCode(r.ProjectCode)
	r.EstimatedTimePerPiece = DeriveTimePerPiece(r.StartTime, r.EndTime, r.ActualQty)

	if r.SurfaceProcess == "" {
		r.SurfaceProcess = storage.SurfaceProcessNone
	}
}

// NewProductionDraft is the blank form for user: today's date, the user as
// operator and the user's default machine when it still exists.
func (e *Engine) NewProductionDraft(ctx context.Context, user storage.User) (storage.ProductionReport, error) {
	const op = "service.report.NewProductionDraft"

	draft := storage.ProductionReport{
		DeploymentDate: e.now().Format(dateLayout),
		SurfaceProcess: storage.SurfaceProcessNone,
		Operator:       user.FullName,
	}

	if user.DefaultMachineID == "" {
		return draft, nil
	}

	machines, err := e.records.Machines(ctx)
	if err != nil {
		return storage.ProductionReport{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, m := range machines {
		if m.ID == user.DefaultMachineID {
			draft.MachineName = m.Name
			break
		}
	}

	return draft, nil
}

// prepareEdit recomputes only the derived fields whose inputs differ from
// prev. Values typed into the edit form survive otherwise.
func (e *Engine) prepareEdit(r *storage.ProductionReport, prev storage.ProductionReport) {
	if r.ProjectCode != prev.ProjectCode {
		r.CustomerCode = DeriveCustomerCode(r.ProjectCode)
	}
	if r.StartTime != prev.StartTime || r.EndTime != prev.EndTime || r.ActualQty != prev.ActualQty {
		r.EstimatedTimePerPiece = DeriveTimePerPiece(r.StartTime, r.EndTime, r.ActualQty)
	}

	if r.SurfaceProcess == "" {
		r.SurfaceProcess = storage.SurfaceProcessNone
	}
}

func (e *Engine) SubmitProduction(ctx context.Context, r storage.ProductionReport) (Result, error) {
	const op = "service.report.SubmitProduction"

	r.ID = ""
	e.Prepare(&r)

	if err := e.validate.Struct(r); err != nil {
		return invalid(op, err)
	}

	sent := e.sync.Post(ctx, sheets.SheetProduction, productionPayload(r))
	if !sent.Success {
		e.log.Warn("production report not sent", slog.String("op", op), slog.String("kind", string(sent.Kind)))
		return fromSync(sent), nil
	}

	reports, err := e.records.ProductionReports(ctx)
	if err != nil {
		return notStored(), fmt.Errorf("%s: %w", op, err)
	}

	r.ID = e.newID("prod")
	reports = append(reports, r)

	if err := e.records.SaveProductionReports(ctx, reports); err != nil {
		return notStored(), fmt.Errorf("%s: %w", op, err)
	}

	e.log.Info("production report stored", slog.String("id", r.ID), slog.String("operator", r.Operator))

	return Result{Success: true, Message: sent.Message, ID: r.ID}, nil
}

// UpdateProduction re-sends an edited report and replaces the stored record
// with the same id. Customer code and time per piece are kept as submitted
// unless the fields they derive from changed. An id that is not stored leaves
// the collection unchanged.
func (e *Engine) UpdateProduction(ctx context.Context, r storage.ProductionReport) (Result, error) {
	const op = "service.report.UpdateProduction"

	if r.ID == "" {
		return Result{Message: "report id is required"}, fmt.Errorf("%s: %w: missing id", op, ErrInvalidReport)
	}

	current, err := e.records.ProductionReports(ctx)
	if err != nil {
		return Result{Message: "Could not load the stored report."}, fmt.Errorf("%s: %w", op, err)
	}

	if i := slices.IndexFunc(current, func(p storage.ProductionReport) bool { return p.ID == r.ID }); i >= 0 {
		e.prepareEdit(&r, current[i])
	} else {
		e.Prepare(&r)
	}

	if err := e.validate.Struct(r); err != nil {
		return invalid(op, err)
	}

	sent := e.sync.Post(ctx, sheets.SheetProduction, productionPayload(r))
	if !sent.Success {
		e.log.Warn("production report update not sent", slog.String("op", op), slog.String("id", r.ID))
		return fromSync(sent), nil
	}

	reports, err := e.records.ProductionReports(ctx)
	if err != nil {
		return notStored(), fmt.Errorf("%s: %w", op, err)
	}

	replaced := false
	for i := range reports {
		if reports[i].ID == r.ID {
			reports[i] = r
			replaced = true
		}
	}

	if replaced {
		if err := e.records.SaveProductionReports(ctx, reports); err != nil {
			return notStored(), fmt.Errorf("%s: %w", op, err)
		}
	} else {
		e.log.Warn("updated report is not stored locally", slog.String("op", op), slog.String("id", r.ID))
	}

	return Result{Success: true, Message: "The report was updated successfully!", ID: r.ID}, nil
}

func (e *Engine) SubmitDowntime(ctx context.Context, r storage.DowntimeReport) (Result, error) {
	const op = "service.report.SubmitDowntime"

	r.ID = ""

	if err := e.validate.Struct(r); err != nil {
		return invalid(op, err)
	}

	sent := e.sync.Post(ctx, sheets.SheetDowntime, downtimePayload(r))
	if !sent.Success {
		e.log.Warn("downtime report not sent", slog.String("op", op), slog.String("kind", string(sent.Kind)))
		return fromSync(sent), nil
	}

	reports, err := e.records.DowntimeReports(ctx)
	if err != nil {
		return notStored(), fmt.Errorf("%s: %w", op, err)
	}

	r.ID = e.newID("down")
	reports = append(reports, r)

	if err := e.records.SaveDowntimeReports(ctx, reports); err != nil {
		return notStored(), fmt.Errorf("%s: %w", op, err)
	}

	e.log.Info("downtime report stored", slog.String("id", r.ID), slog.String("machine", r.MachineName))

	return Result{Success: true, Message: sent.Message, ID: r.ID}, nil
}

func (e *Engine) newID(kind string) string {
	return fmt.Sprintf("%s-%d", kind, e.now().UnixMilli())
}

func invalid(op string, err error) (Result, error) {
	msg := validation.Describe(err)
	return Result{Message: msg}, fmt.Errorf("%s: %w: %s", op, ErrInvalidReport, msg)
}

func fromSync(sent sheets.Result) Result {
	return Result{Success: false, Message: sent.Message, Kind: sent.Kind}
}

// notStored covers the gap between a webhook ack and a failed local write:
// the spreadsheet has the row, the local history does not.
func notStored() Result {
	return Result{Message: "The report reached the spreadsheet but could not be saved locally."}
}
