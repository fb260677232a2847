// Package publisher rate-limits outbound transformation publications.
package publisher

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"go.trai.ch/frameconv/internal/core/domain"
	"go.trai.ch/frameconv/internal/core/ports"
	"go.trai.ch/zerr"
)

// Throttle buffers the latest transformation per topic and publishes the buffer
// at most once per interval.
type Throttle struct {
	publisher ports.Publisher
	interval  time.Duration
	idle      time.Duration

	mu       sync.Mutex
	buffer   map[string]domain.Transformation
	deadline time.Time
}

// NewThrottle creates a Throttle. Non-positive durations select the defaults.
func NewThrottle(publisher ports.Publisher, interval, idle time.Duration) *Throttle {
	if interval <= 0 {
		interval = domain.DefaultThrottleInterval
	}
	if idle <= 0 {
		idle = domain.DefaultIdleDeadline
	}
	return &Throttle{
		publisher: publisher,
		interval:  interval,
		idle:      idle,
		buffer:    make(map[string]domain.Transformation),
	}
}

// Add buffers tf for the topic of path, replacing any value not yet published.
func (t *Throttle) Add(path domain.Path, tf domain.Transformation) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buffer[path.Topic()] = tf
}

// Len returns the number of buffered topics.
func (t *Throttle) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.buffer)
}

// NextDeadline returns when Flush should run next.
func (t *Throttle) NextDeadline(now time.Time) time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.buffer) == 0 {
		return now.Add(t.idle)
	}
	return t.deadline
}

// Flush publishes the buffer when now has reached the deadline and returns the
// number of publications. The buffer is cleared even when some publications fail.
func (t *Throttle) Flush(ctx context.Context, now time.Time) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.buffer) == 0 || now.Before(t.deadline) {
		return 0, nil
	}
	return t.flushLocked(ctx, now)
}

// flushLocked must be called with mu held.
func (t *Throttle) flushLocked(ctx context.Context, now time.Time) (int, error) {
	var errs []error
	topics := slices.Sorted(maps.Keys(t.buffer))
	for _, topic := range topics {
		if err := t.publisher.Publish(ctx, topic, t.buffer[topic]); err != nil {
			errs = append(errs, zerr.With(err, "topic", topic))
		}
	}

	clear(t.buffer)
	t.deadline = now.Add(t.interval)
	return len(topics), errors.Join(errs...)
}
