package shutdown

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

type logger interface {
	Infof(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Debugf(template string, args ...interface{})
}

type hook struct {
	name string
	fn   func() error
}

var (
	ilog  logger
	mu    sync.Mutex
	hooks []hook
)

func Init(log logger) {
	mu.Lock()
	defer mu.Unlock()
	ilog = log
	hooks = make([]hook, 0)
}

// Register adds a close function; hooks run in reverse registration order.
func Register(name string, fn func() error) {
	mu.Lock()
	defer mu.Unlock()
	hooks = append(hooks, hook{name: name, fn: fn})
}

// Listen blocks until SIGINT, SIGTERM or SIGHUP, then runs the hooks.
func Listen() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(quit)
	ilog.Infof("Program started, press Ctrl+C to exit")
	sig := <-quit
	ilog.Warnf("Received exit signal: %v", sig)
	Shutdown()
}

// Shutdown runs and clears the registered hooks.
func Shutdown() {
	mu.Lock()
	pending := hooks
	hooks = nil
	mu.Unlock()

	for i := len(pending) - 1; i >= 0; i-- {
		if err := pending[i].fn(); err != nil {
			ilog.Errorf("Closing %s failed: %v", pending[i].name, err)
		}
	}
	ilog.Infof("Shutdown completed successfully")
}
