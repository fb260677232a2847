package rpc

import (
	"sync"
	"time"
)

// Lifecycle tracks the service uptime and its shutdown signal.
type Lifecycle struct {
	startTime    time.Time
	shutdownChan chan struct{}
	shutdownOnce sync.Once
}

// NewLifecycle creates a lifecycle that starts now.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{
		startTime:    time.Now(),
		shutdownChan: make(chan struct{}),
	}
}

// Uptime returns how long the service has been running.
func (l *Lifecycle) Uptime() time.Duration {
	return time.Since(l.startTime)
}

// ShutdownChan returns a channel that closes when shutdown is triggered.
func (l *Lifecycle) ShutdownChan() <-chan struct{} {
	return l.shutdownChan
}

// Shutdown triggers shutdown (idempotent).
func (l *Lifecycle) Shutdown() {
	l.shutdownOnce.Do(func() {
		close(l.shutdownChan)
	})
}
