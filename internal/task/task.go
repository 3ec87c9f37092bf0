package task

import (
	"context"
	"sync"
	"time"

	"github.com/mikemajara/ai-chatbot/internal/utils/log"
)

type taskEntry struct {
	name       string
	interval   time.Duration
	fn         func(ctx context.Context)
	runOnStart bool
	stopCh     chan struct{}
	updateCh   chan time.Duration
}

var (
	tasks   = make(map[string]*taskEntry)
	tasksMu sync.RWMutex
)

// Register adds a periodic task. runOnStart runs it once as soon as Run starts.
// A non-positive interval leaves the task unregistered.
func Register(name string, interval time.Duration, runOnStart bool, fn func(ctx context.Context)) {
	if interval <= 0 {
		log.Debugf("task %s not registered: interval is 0", name)
		return
	}

	tasksMu.Lock()
	defer tasksMu.Unlock()

	if _, exists := tasks[name]; exists {
		log.Warnf("task %s already registered, skipping", name)
		return
	}

	tasks[name] = &taskEntry{
		name:       name,
		interval:   interval,
		fn:         fn,
		runOnStart: runOnStart,
		stopCh:     make(chan struct{}),
		updateCh:   make(chan time.Duration, 1),
	}
	log.Debugf("task %s registered with interval %v, runOnStart: %v", name, interval, runOnStart)
}

// Update changes a task's interval; a non-positive interval removes the task.
func Update(name string, interval time.Duration) {
	tasksMu.Lock()
	entry, exists := tasks[name]
	if !exists {
		tasksMu.Unlock()
		log.Warnf("task %s not found", name)
		return
	}

	if interval <= 0 {
		delete(tasks, name)
		tasksMu.Unlock()
		close(entry.stopCh)
		log.Infof("task %s removed: interval is 0", name)
		return
	}
	tasksMu.Unlock()

	select {
	case entry.updateCh <- interval:
		log.Infof("task %s interval updated to %v", name, interval)
	default:
		log.Warnf("task %s update pending, skipping", name)
	}
}

// Run starts every registered task and blocks until ctx is done and all of them returned.
func Run(ctx context.Context) {
	var wg sync.WaitGroup
	tasksMu.RLock()
	for _, entry := range tasks {
		wg.Add(1)
		go func(e *taskEntry) {
			defer wg.Done()
			runTask(ctx, e)
		}(entry)
	}
	tasksMu.RUnlock()
	wg.Wait()
}

// runTask runs fn inline, so a slow run delays the next tick instead of overlapping it.
func runTask(ctx context.Context, entry *taskEntry) {
	if entry.runOnStart {
		entry.fn(ctx)
	}

	ticker := time.NewTicker(entry.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			entry.fn(ctx)
		case newInterval := <-entry.updateCh:
			entry.interval = newInterval
			ticker.Reset(newInterval)
		case <-entry.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}
