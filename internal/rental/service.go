package rental

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/bike-sharing-dashboard/internal/common"
)

// Service orchestrates loading the dataset and answering dashboard requests.
type Service struct {
	store  Store
	source Source
	log    *zap.Logger
}

// NewService creates a new Service.
func NewService(store Store, source Source, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:  store,
		source: source,
		log:    log,
	}
}

// Reload reads the dataset from the source and makes it the current table.
// On failure the previously loaded table, if any, stays current.
func (s *Service) Reload(ctx context.Context) error {
	if s.source == nil {
		return fmt.Errorf("no dataset source configured")
	}

	started := time.Now()
	t, err := s.source.Load(ctx)
	if err != nil {
		s.log.Error("dataset load failed",
			zap.String("source", s.source.Name()),
			zap.Error(err),
		)
		return fmt.Errorf("load %s: %w", s.source.Name(), err)
	}

	s.store.SaveTable(t)

	bounds, _ := t.Bounds()
	s.log.Info("dataset loaded",
		zap.String("source", s.source.Name()),
		zap.Int("rows", t.Len()),
		zap.Time("minDate", bounds.Start),
		zap.Time("maxDate", bounds.End),
		zap.Duration("took", time.Since(started)),
	)
	return nil
}

// History returns the loaded dataset versions still retained by the store, oldest first.
func (s *Service) History() []Snapshot {
	return s.store.History()
}

// Dataset returns the current table.
func (s *Service) Dataset() (*Table, error) {
	return s.store.Current()
}

// Dashboard runs the pipeline against the current table. A zero start or end
// falls back to the first or last date of the dataset.
func (s *Service) Dashboard(start, end time.Time) (Dashboard, error) {
	t, err := s.store.Current()
	if err != nil {
		return Dashboard{}, err
	}

	r := DefaultRange(t)
	if !start.IsZero() {
		r.Start = start
	}
	if !end.IsZero() {
		r.End = end
	}

	d := BuildDashboard(t, r)
	s.log.Debug("dashboard built",
		zap.String("start", common.FormatDay(d.Range.Start)),
		zap.String("end", common.FormatDay(d.Range.End)),
		zap.Int("rows", d.Rows),
	)
	return d, nil
}
