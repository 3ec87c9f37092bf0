package task

import (
	"context"
	"time"

	"github.com/mikemajara/ai-chatbot/internal/metrics"
	"github.com/mikemajara/ai-chatbot/internal/reconcile"
	"github.com/mikemajara/ai-chatbot/internal/syncer"
	"github.com/mikemajara/ai-chatbot/internal/utils/log"
)

// CapabilitySyncTask applies the source to the store. Reports are logged only.
func CapabilitySyncTask(store syncer.Store, source reconcile.Source) func(ctx context.Context) {
	s := syncer.New(store, source)
	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
		defer cancel()
		report, err := s.Apply(ctx)
		if err != nil {
			log.Errorf("scheduled capability sync failed: %v", err)
			return
		}
		for _, e := range report.Errors {
			log.Warnf("scheduled capability sync: %s", e)
		}
		metrics.LastScheduledSync.SetToCurrentTime()
	}
}
