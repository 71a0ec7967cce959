package history

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"cnc-ops/internal/storage"
)

type Records interface {
	ProductionReports(ctx context.Context) ([]storage.ProductionReport, error)
	DowntimeReports(ctx context.Context) ([]storage.DowntimeReport, error)
}

// Page is one rendering of the history view.
type Page struct {
	Production []storage.ProductionReport `json:"production"`
	Downtime   []storage.DowntimeReport   `json:"downtime"`
}

type Service struct {
	records Records
}

func NewService(records Records) *Service {
	return &Service{records: records}
}

func (s *Service) Load(ctx context.Context, v Viewer, q Query) (Page, error) {
	const op = "service.history.Load"

	var (
		production []storage.ProductionReport
		downtime   []storage.DowntimeReport
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		production, err = s.records.ProductionReports(ctx)
		return err
	})

	g.Go(func() error {
		var err error
		downtime, err = s.records.DowntimeReports(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return Page{}, fmt.Errorf("%s: %w", op, err)
	}

	return Page{
		Production: FilterProduction(production, v, q),
		Downtime:   FilterDowntime(downtime, q),
	}, nil
}
