package task

import (
	"sync"
	"time"

	"github.com/mikemajara/ai-chatbot/internal/reconcile"
	"github.com/mikemajara/ai-chatbot/internal/syncer"
)

const TaskCapabilitySync = "capability_sync"

// Init registers the scheduled capability apply. A zero interval disables it.
func Init(store syncer.Store, source reconcile.Source, interval time.Duration) {
	Register(TaskCapabilitySync, interval, true, CapabilitySyncTask(store, source))
}

// IntervalWatcher returns a callback that forwards interval changes to the named task.
// Repeated values are ignored; a zero interval removes the task.
func IntervalWatcher(name string, current time.Duration) func(time.Duration) {
	var mu sync.Mutex
	return func(interval time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		if interval == current {
			return
		}
		current = interval
		Update(name, interval)
	}
}
