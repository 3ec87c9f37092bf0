// Package syncer drives a capability sync run: read the store, reconcile against a
// desired source, then either report the diff or write the changed records.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikemajara/ai-chatbot/internal/metrics"
	"github.com/mikemajara/ai-chatbot/internal/model"
	"github.com/mikemajara/ai-chatbot/internal/reconcile"
	"github.com/mikemajara/ai-chatbot/internal/utils/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
)

const (
	SourceStatic = "static"
	SourceScrape = "scrape"
)

var (
	ErrStoreUnavailable = errors.New("model store unavailable")
	ErrUnknownMode      = errors.New("unknown sync mode")
)

// Store is the durable model store a sync run reads from and writes to.
type Store interface {
	CurrentModels(ctx context.Context) ([]model.CapabilityRecord, error)
	// BulkUpsertCapabilities writes each record independently and reports per-record outcomes.
	// A returned error means the batch could not be attempted at all.
	BulkUpsertCapabilities(ctx context.Context, records []model.CapabilityRecord) (model.BulkResult, error)
}

type Option func(*Syncer)

func WithSourceName(name string) Option {
	return func(s *Syncer) { s.sourceName = name }
}

func WithClock(now func() time.Time) Option {
	return func(s *Syncer) { s.now = now }
}

// Syncer holds no state between runs; every report is built fresh.
type Syncer struct {
	store      Store
	source     reconcile.Source
	sourceName string
	now        func() time.Time
}

func New(store Store, source reconcile.Source, opts ...Option) *Syncer {
	s := &Syncer{
		store:      store,
		source:     source,
		sourceName: SourceStatic,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Syncer) Preview(ctx context.Context) (*model.SyncReport, error) {
	return s.Run(ctx, model.SyncModePreview)
}

func (s *Syncer) Apply(ctx context.Context) (*model.SyncReport, error) {
	return s.Run(ctx, model.SyncModeApply)
}

func (s *Syncer) Run(ctx context.Context, mode model.SyncMode) (*model.SyncReport, error) {
	if mode != model.SyncModePreview && mode != model.SyncModeApply {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	log.Debugf("capability sync (%s, %s) started", mode, s.sourceName)
	startTime := time.Now()
	timer := prometheus.NewTimer(metrics.SyncDuration.WithLabelValues(string(mode)))
	defer func() {
		timer.ObserveDuration()
		log.Debugf("capability sync (%s, %s) finished, took %s", mode, s.sourceName, time.Since(startTime))
	}()

	report, err := s.run(ctx, mode)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.SyncRuns.WithLabelValues(string(mode), s.sourceName, status).Inc()
	if err != nil {
		log.Errorf("capability sync (%s) failed: %v", mode, err)
		return nil, err
	}
	log.Infof("capability sync (%s): %d models, %d updated, %d unchanged, %d not in %s source, %d failed",
		mode, report.TotalModels, report.UpdatedCount, report.UnchangedCount, report.NotInSourceCount, s.sourceName, report.FailedCount)
	return report, nil
}

func (s *Syncer) run(ctx context.Context, mode model.SyncMode) (*model.SyncReport, error) {
	current, err := s.store.CurrentModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	res := reconcile.Reconcile(current, s.source)
	changed := res.DesiredRecords()

	report := &model.SyncReport{
		Mode:             mode,
		Source:           s.sourceName,
		TotalModels:      res.Summary.Total,
		InSource:         res.Summary.InSource,
		UnchangedCount:   res.Summary.Unchanged,
		NotInSourceCount: res.Summary.NotInSource,
		UpdatedModels:    []model.CapabilityRecord{},
		Errors:           []string{},
		Timestamp:        s.now().UTC(),
	}

	if mode == model.SyncModePreview {
		report.UpdatedModels = changed
		report.UpdatedCount = len(changed)
		return report, nil
	}

	if len(changed) == 0 {
		return report, nil
	}

	bulk, err := s.store.BulkUpsertCapabilities(ctx, changed)
	if err != nil {
		return nil, fmt.Errorf("failed to write %d capability records: %w", len(changed), err)
	}

	failed := lo.SliceToMap(bulk.Errors, func(e model.RecordError) (string, struct{}) {
		return e.ID, struct{}{}
	})
	report.UpdatedModels = lo.Filter(changed, func(r model.CapabilityRecord, _ int) bool {
		_, ok := failed[r.ID]
		return !ok
	})
	report.UpdatedCount = bulk.Successful
	report.FailedCount = bulk.Failed
	report.Errors = lo.Map(bulk.Errors, func(e model.RecordError, _ int) string {
		log.Warnf("capability write failed for %s: %s", e.ID, e.Reason)
		return e.String()
	})
	if len(report.UpdatedModels) != bulk.Successful {
		log.Warnf("store reported %d successful writes but %d records were not marked failed", bulk.Successful, len(report.UpdatedModels))
	}

	metrics.RecordsUpdated.Add(float64(bulk.Successful))
	metrics.RecordsFailed.Add(float64(bulk.Failed))
	return report, nil
}
