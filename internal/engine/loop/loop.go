// Package loop runs the single goroutine that owns the frame graph and the
// dependency tracker. Every query and mutation is an event processed to
// completion before the next one is received.
package loop

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.trai.ch/frameconv/internal/core/domain"
	"go.trai.ch/frameconv/internal/core/ports"
	"go.trai.ch/frameconv/internal/engine/graph"
	"go.trai.ch/frameconv/internal/engine/tracker"
	"go.trai.ch/zerr"
)

var _ ports.FrameService = (*Loop)(nil)

// Outbox buffers changed transformations until the next flush.
type Outbox interface {
	Add(path domain.Path, tf domain.Transformation)
	Len() int
	NextDeadline(now time.Time) time.Time
	Flush(ctx context.Context, now time.Time) (int, error)
}

// Config holds the collaborators of a Loop.
type Config struct {
	Logger ports.Logger
	Tracer ports.Tracer
	// Outbox receives every changed path.
	Outbox Outbox
	// Publisher delivers the first value to a consumer that just attached.
	Publisher ports.Publisher
	// Calibrations seed the graph and are re-read on Reload. Optional.
	Calibrations  ports.CalibrationStore
	DynamicSource domain.DynamicSource
	// Subscribers reports the number of bound consumers. Optional.
	Subscribers func() int
}

// Loop serialises all access to the graph engine and the tracker.
type Loop struct {
	cfg     Config
	graph   *graph.Engine
	tracker *tracker.Tracker

	events chan event
	done   chan struct{}

	// Liveness changes arrive from callbacks that must not block, so they are
	// queued without bound and the loop is woken up.
	mu       sync.Mutex
	liveness []livenessEvent
	wake     chan struct{}
}

// New creates a loop with an empty graph.
func New(cfg Config) *Loop {
	g := graph.New()
	return &Loop{
		cfg:     cfg,
		graph:   g,
		tracker: tracker.New(g, cfg.Logger),
		events:  make(chan event),
		done:    make(chan struct{}),
		wake:    make(chan struct{}, 1),
	}
}

// Run seeds the graph from the calibrations and processes events until ctx is
// cancelled. It returns a non-nil error only when the graph or the tracker
// reported an internal consistency violation.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	l.seed()

	timer := time.NewTimer(time.Until(l.cfg.Outbox.NextDeadline(time.Now())))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			l.cfg.Logger.Info("event=Loop.Stopped")
			return nil
		case ev := <-l.events:
			if err := l.handle(ctx, ev); err != nil {
				return err
			}
		case <-l.wake:
			if err := l.drainLiveness(ctx); err != nil {
				return err
			}
		case <-timer.C:
		}

		now := time.Now()
		l.flush(ctx, now)
		timer.Reset(l.cfg.Outbox.NextDeadline(now).Sub(now))
	}
}

// Lookup implements ports.FrameService.
func (l *Loop) Lookup(ctx context.Context, path domain.Path) (*ports.Lookup, error) {
	reply := make(chan result[*ports.Lookup], 1)
	return request(ctx, l, lookupEvent{path: path.Clone(), reply: reply}, reply)
}

// Publish implements ports.FrameService. An empty batch from the dynamic source
// topic removes the volatile edges of that source.
func (l *Loop) Publish(ctx context.Context, topic string, tfs []domain.Transformation) (int, error) {
	reply := make(chan result[int], 1)
	return request(ctx, l, publishEvent{topic: topic, tfs: tfs, reply: reply}, reply)
}

// Status implements ports.FrameService.
func (l *Loop) Status(ctx context.Context) (*domain.Status, error) {
	reply := make(chan result[*domain.Status], 1)
	return request(ctx, l, statusEvent{reply: reply}, reply)
}

// Reload re-reads the calibration directory and applies the changed extrinsics.
// It returns the number of calibrations that changed.
func (l *Loop) Reload(ctx context.Context) (int, error) {
	reply := make(chan result[int], 1)
	return request(ctx, l, reloadEvent{reply: reply}, reply)
}

// PathBecameLive starts tracking path for consumer. It never blocks.
func (l *Loop) PathBecameLive(path domain.Path, consumer string) {
	l.enqueue(livenessEvent{path: path.Clone(), consumer: consumer, live: true})
}

// PathBecameDead stops tracking path. It never blocks.
func (l *Loop) PathBecameDead(path domain.Path) {
	l.enqueue(livenessEvent{path: path.Clone()})
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func request[T any](ctx context.Context, l *Loop, ev event, reply <-chan result[T]) (T, error) {
	var zero T
	select {
	case l.events <- ev:
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-l.done:
		return zero, zerr.Wrap(domain.ErrLoopStopped, "request rejected")
	}

	select {
	case r := <-reply:
		return r.value, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-l.done:
		// The loop may have answered right before it stopped.
		select {
		case r := <-reply:
			return r.value, r.err
		default:
			return zero, zerr.Wrap(domain.ErrLoopStopped, "request dropped")
		}
	}
}

func (l *Loop) enqueue(ev livenessEvent) {
	l.mu.Lock()
	l.liveness = append(l.liveness, ev)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) seed() {
	if l.cfg.Calibrations == nil {
		return
	}
	calibrations := l.cfg.Calibrations.All()
	for _, c := range calibrations {
		for _, tf := range c.Extrinsics {
			if ok := l.graph.UpdateTransformation(tf); !ok {
				l.cfg.Logger.Warn(fmt.Sprintf("event=Graph.SingularTransformation edge=%s calibration=%d", tf.Edge(), c.ID))
			}
		}
	}
	l.cfg.Logger.Info(fmt.Sprintf("event=Loop.Seeded calibrations=%d frames=%d edges=%d",
		len(calibrations), len(l.graph.Frames()), l.graph.EdgeCount()))
}

// handle processes one event. The returned error is fatal.
func (l *Loop) handle(ctx context.Context, ev event) error {
	switch ev := ev.(type) {
	case lookupEvent:
		lookup, err := l.lookup(ev.path)
		ev.reply <- result[*ports.Lookup]{value: lookup, err: err}
		return fatal(err)

	case publishEvent:
		applied, err := l.applyBatch(ctx, ev.topic, ev.tfs)
		ev.reply <- result[int]{value: applied, err: err}
		return fatal(err)

	case reloadEvent:
		changed, err := l.reload(ctx)
		ev.reply <- result[int]{value: changed, err: err}
		return fatal(err)

	case statusEvent:
		ev.reply <- result[*domain.Status]{value: l.status()}
		return nil

	case livenessEvent:
		return l.applyLiveness(ctx, ev)
	}
	return nil
}

// fatal keeps only internal consistency violations. Everything else is an
// answer to the caller.
func fatal(err error) error {
	if errors.Is(err, domain.ErrInternalConsistency) {
		return err
	}
	return nil
}

func (l *Loop) lookup(path domain.Path) (*ports.Lookup, error) {
	route, err := l.graph.FindRoute(path)
	if err != nil {
		return nil, err
	}
	m, err := l.graph.ComposePath(route)
	if err != nil {
		return nil, zerr.With(err, "path", path.String())
	}
	return &ports.Lookup{
		Route:          route,
		Transformation: domain.Transformation{From: path[0], To: path[len(path)-1], Matrix: m},
	}, nil
}

func (l *Loop) applyBatch(ctx context.Context, topic string, tfs []domain.Transformation) (int, error) {
	ctx, span := l.cfg.Tracer.Start(ctx, "UpdateTFs")
	defer span.End()
	span.SetAttribute("topic", topic)
	span.SetAttribute("count", len(tfs))

	if len(tfs) == 0 {
		if source, ok := l.dynamicSource(topic); ok {
			if err := l.dropDynamicEdges(source); err != nil {
				span.RecordError(err)
				return 0, err
			}
		}
		return 0, nil
	}

	for i, tf := range tfs {
		if err := l.tracker.Update(tf, l.onUpdate(ctx)); err != nil {
			span.RecordError(err)
			return i, err
		}
	}
	return len(tfs), nil
}

func (l *Loop) onUpdate(ctx context.Context) tracker.UpdateFunc {
	return func(path domain.Path, tf domain.Transformation) {
		_, span := l.cfg.Tracer.Start(ctx, "NewTF")
		span.SetAttribute("topic", path.Topic())
		l.cfg.Outbox.Add(path, tf)
		span.End()
	}
}

// dynamicSource extracts the source id of a "<Prefix>.<id>.FrameTransformations" topic.
func (l *Loop) dynamicSource(topic string) (int64, bool) {
	parts := strings.Split(topic, ".")
	if len(parts) != 3 || parts[0] != l.cfg.DynamicSource.Prefix || parts[2] != domain.UpdateTopicSuffix {
		return 0, false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// dropDynamicEdges removes every edge from source into the dynamic range.
// Dependent paths become unresolved and are retried on the next update.
func (l *Loop) dropDynamicEdges(source int64) error {
	var edges []domain.Edge
	for edge := range l.graph.Transformations() {
		if edge.From == source && l.cfg.DynamicSource.Contains(edge.To) {
			edges = append(edges, edge)
		}
	}
	for _, edge := range edges {
		if err := l.tracker.InvalidateEdge(edge); err != nil {
			return err
		}
		l.graph.RemoveTransformation(edge)
	}
	l.cfg.Logger.Info(fmt.Sprintf("event=DynamicSource.Failed source=%d removed=%d", source, len(edges)))
	return nil
}

func (l *Loop) reload(ctx context.Context) (int, error) {
	if l.cfg.Calibrations == nil {
		return 0, nil
	}
	changed, err := l.cfg.Calibrations.Reload()
	if err != nil {
		return 0, err
	}
	for _, c := range changed {
		if _, err := l.applyBatch(ctx, "calibration."+strconv.FormatInt(c.ID, 10), c.Extrinsics); err != nil {
			return 0, err
		}
	}
	l.cfg.Logger.Info(fmt.Sprintf("event=Calibration.Reloaded changed=%d", len(changed)))
	return len(changed), nil
}

func (l *Loop) drainLiveness(ctx context.Context) error {
	l.mu.Lock()
	pending := l.liveness
	l.liveness = nil
	l.mu.Unlock()

	for _, ev := range pending {
		if err := l.applyLiveness(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loop) applyLiveness(ctx context.Context, ev livenessEvent) error {
	if !ev.live {
		return l.tracker.RemoveDependency(ev.path)
	}
	tf, ok, err := l.tracker.UpdateDependency(ev.path)
	if err != nil || !ok {
		return err
	}
	if err := l.cfg.Publisher.SendTo(ctx, ev.consumer, tf); err != nil {
		l.cfg.Logger.Warn(fmt.Sprintf("event=Consumer.SendFailed path=%s consumer=%s error=%q",
			ev.path, ev.consumer, err.Error()))
	}
	return nil
}

func (l *Loop) status() *domain.Status {
	st := &domain.Status{
		Frames:   len(l.graph.Frames()),
		Edges:    l.graph.EdgeCount(),
		Tracked:  l.tracker.Tracked(),
		Buffered: l.cfg.Outbox.Len(),
	}
	if l.cfg.Subscribers != nil {
		st.Subscribers = l.cfg.Subscribers()
	}
	return st
}

func (l *Loop) flush(ctx context.Context, now time.Time) {
	if _, err := l.cfg.Outbox.Flush(ctx, now); err != nil {
		l.cfg.Logger.Error(err)
	}
}
