package loop_test

import (
	"context"
	"math"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/frameconv/internal/adapters/broker"
	"go.trai.ch/frameconv/internal/adapters/publisher"
	"go.trai.ch/frameconv/internal/adapters/telemetry"
	"go.trai.ch/frameconv/internal/core/domain"
	"go.trai.ch/frameconv/internal/core/ports"
	"go.trai.ch/frameconv/internal/core/ports/mocks"
	"go.trai.ch/frameconv/internal/engine/loop"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func pose(angle, tx, ty, tz float64) domain.Matrix {
	c, s := math.Cos(angle), math.Sin(angle)
	return domain.Matrix{
		c, -s, 0, tx,
		s, c, 0, ty,
		0, 0, 1, tz,
		0, 0, 0, 1,
	}
}

var (
	m1 = pose(0.1, 1, 0, 0)
	m2 = pose(-0.7, 0, 2, 0)
	m3 = pose(1.2, 0, 0, 3)
)

func inverse(t *testing.T, m domain.Matrix) domain.Matrix {
	t.Helper()
	inv, ok := m.Inverse()
	require.True(t, ok)
	return inv
}

func assertMatrix(t *testing.T, want, got domain.Matrix) {
	t.Helper()
	assert.True(t, want.ApproxEqual(got, 1e-9), "want\n%s\ngot\n%s", want, got)
}

type harness struct {
	loop   *loop.Loop
	hub    *broker.Hub
	cancel context.CancelFunc
	errc   chan error
}

func start(t *testing.T, calibrations ports.CalibrationStore) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	hub := broker.NewHub(log)
	l := loop.New(loop.Config{
		Logger:        log,
		Tracer:        telemetry.NewNoOpTracer(),
		Outbox:        publisher.NewThrottle(hub, 0, 0),
		Publisher:     hub,
		Calibrations:  calibrations,
		DynamicSource: domain.DefaultOptions().DynamicSource,
		Subscribers:   hub.Subscribers,
	})
	hub.Observe(broker.NewConsumerWatcher(log, l.PathBecameLive, l.PathBecameDead))

	ctx, cancel := context.WithCancel(t.Context())
	h := &harness{loop: l, hub: hub, cancel: cancel, errc: make(chan error, 1)}
	go func() { h.errc <- l.Run(ctx) }()
	return h
}

func (h *harness) stop(t *testing.T) {
	t.Helper()
	h.cancel()
	require.NoError(t, <-h.errc)
}

func (h *harness) publish(t *testing.T, topic string, tfs ...domain.Transformation) {
	t.Helper()
	applied, err := h.loop.Publish(t.Context(), topic, tfs)
	require.NoError(t, err)
	require.Equal(t, len(tfs), applied)
}

func receive(t *testing.T, sub *broker.Subscription) domain.Transformation {
	t.Helper()
	synctest.Wait()
	select {
	case tf := <-sub.C:
		return tf
	default:
		require.FailNow(t, "no transformation delivered")
		return domain.Transformation{}
	}
}

func assertNothing(t *testing.T, sub *broker.Subscription) {
	t.Helper()
	synctest.Wait()
	assert.Empty(t, sub.C)
}

func TestLoop_Lookup(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := start(t, nil)
		defer h.stop(t)

		h.publish(t, "Camera.1.FrameTransformations",
			domain.Transformation{From: 1000, To: 1, Matrix: m1},
			domain.Transformation{From: 1001, To: 1, Matrix: m2},
		)

		got, err := h.loop.Lookup(t.Context(), domain.Path{1001, 1000})
		require.NoError(t, err)
		assert.Equal(t, domain.Path{1001, 1, 1000}, got.Route)
		assert.Equal(t, int64(1001), got.Transformation.From)
		assert.Equal(t, int64(1000), got.Transformation.To)
		assertMatrix(t, inverse(t, m1).Mul(m2), got.Transformation.Matrix)

		_, err = h.loop.Lookup(t.Context(), domain.Path{3000, 1000})
		require.ErrorIs(t, err, domain.ErrUnknownFrame)
		assert.EqualError(t, err, `Invalid frame "3000"`)

		_, err = h.loop.Lookup(t.Context(), domain.Path{1000})
		assert.ErrorIs(t, err, domain.ErrMalformedPath)
	})
}

func TestLoop_SubscriberFollowsUpdates(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := start(t, nil)
		defer h.stop(t)

		sub := h.hub.Subscribe("FrameTransformation.1000.1001")
		synctest.Wait()

		st, err := h.loop.Status(t.Context())
		require.NoError(t, err)
		require.Len(t, st.Tracked, 1)
		assert.False(t, st.Tracked[0].Resolved)
		assert.Equal(t, 1, st.Subscribers)

		h.publish(t, "Camera.1.FrameTransformations", domain.Transformation{From: 1000, To: 1, Matrix: m1})
		assertNothing(t, sub)

		// The first connecting edge resolves the path and the first flush is immediate.
		h.publish(t, "Camera.2.FrameTransformations", domain.Transformation{From: 1001, To: 1, Matrix: m2})
		got := receive(t, sub)
		assert.Equal(t, domain.Edge{From: 1000, To: 1001}, got.Edge())
		assertMatrix(t, inverse(t, m2).Mul(m1), got.Matrix)

		// Later updates wait for the throttle interval.
		h.publish(t, "Camera.1.FrameTransformations", domain.Transformation{From: 1000, To: 1, Matrix: m3})
		assertNothing(t, sub)
		st, err = h.loop.Status(t.Context())
		require.NoError(t, err)
		assert.Equal(t, 1, st.Buffered)

		time.Sleep(domain.DefaultThrottleInterval)
		got = receive(t, sub)
		assertMatrix(t, inverse(t, m2).Mul(m3), got.Matrix)

		sub.Close()
		synctest.Wait()
		st, err = h.loop.Status(t.Context())
		require.NoError(t, err)
		assert.Empty(t, st.Tracked)
		assert.Zero(t, st.Subscribers)
	})
}

func TestLoop_UnrelatedEdgeDoesNotPublish(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := start(t, nil)
		defer h.stop(t)

		h.publish(t, "Camera.1.FrameTransformations",
			domain.Transformation{From: 1, To: 2, Matrix: m1},
			domain.Transformation{From: 3, To: 4, Matrix: m2},
		)
		sub := h.hub.Subscribe("FrameTransformation.1.2")
		receive(t, sub)

		time.Sleep(domain.DefaultThrottleInterval)
		h.publish(t, "Camera.3.FrameTransformations", domain.Transformation{From: 3, To: 4, Matrix: m3})
		time.Sleep(domain.DefaultThrottleInterval)
		assertNothing(t, sub)
		sub.Close()
	})
}

func TestLoop_InitialValueOnAttach(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := start(t, nil)
		defer h.stop(t)

		h.publish(t, "Camera.1.FrameTransformations", domain.Transformation{From: 1, To: 2, Matrix: m1})

		sub := h.hub.Subscribe("FrameTransformation.1.2")
		got := receive(t, sub)
		assert.Equal(t, domain.Edge{From: 1, To: 2}, got.Edge())
		assertMatrix(t, m1, got.Matrix)

		// A second consumer of the same topic does not re-trigger liveness.
		other := h.hub.Subscribe("FrameTransformation.1.2")
		assertNothing(t, other)

		other.Close()
		sub.Close()
	})
}

func TestLoop_DynamicSourceFailure(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockCalibrationStore(ctrl)
		store.EXPECT().All().Return([]domain.Calibration{{
			ID:         1,
			Extrinsics: []domain.Transformation{{From: 1, To: 1000, Matrix: m1}},
		}})

		h := start(t, store)
		defer h.stop(t)

		h.publish(t, "ArUco.1.FrameTransformations",
			domain.Transformation{From: 1, To: 120, Matrix: m2},
			domain.Transformation{From: 1, To: 200, Matrix: m3},
		)
		sub := h.hub.Subscribe("FrameTransformation.1000.120")
		receive(t, sub)

		// An empty batch from another source changes nothing.
		h.publish(t, "Camera.1.FrameTransformations")
		_, err := h.loop.Lookup(t.Context(), domain.Path{1000, 120})
		require.NoError(t, err)

		h.publish(t, "ArUco.1.FrameTransformations")

		st, err := h.loop.Status(t.Context())
		require.NoError(t, err)
		assert.Equal(t, 2, st.Edges, "only the edge into the dynamic range is removed")
		assert.Equal(t, 4, st.Frames, "frames outlive their edges")
		require.Len(t, st.Tracked, 1)
		assert.False(t, st.Tracked[0].Resolved)

		_, err = h.loop.Lookup(t.Context(), domain.Path{1000, 120})
		require.ErrorIs(t, err, domain.ErrUnreachable)

		// The marker reappears and the waiting consumer is served again.
		time.Sleep(domain.DefaultThrottleInterval)
		h.publish(t, "ArUco.1.FrameTransformations", domain.Transformation{From: 1, To: 120, Matrix: m2})
		got := receive(t, sub)
		assertMatrix(t, m2.Mul(inverse(t, m1)), got.Matrix)
		sub.Close()
	})
}

func TestLoop_Reload(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockCalibrationStore(ctrl)
		store.EXPECT().All().Return([]domain.Calibration{{
			ID:         1,
			Extrinsics: []domain.Transformation{{From: 1, To: 2, Matrix: m1}},
		}})
		gomock.InOrder(
			store.EXPECT().Reload().Return([]domain.Calibration{{
				ID:         1,
				Extrinsics: []domain.Transformation{{From: 1, To: 2, Matrix: m2}},
			}}, nil),
			store.EXPECT().Reload().Return(nil, domain.ErrCalibrationLoadFailed),
		)

		h := start(t, store)
		defer h.stop(t)

		got, err := h.loop.Lookup(t.Context(), domain.Path{1, 2})
		require.NoError(t, err)
		assertMatrix(t, m1, got.Transformation.Matrix)

		changed, err := h.loop.Reload(t.Context())
		require.NoError(t, err)
		assert.Equal(t, 1, changed)

		got, err = h.loop.Lookup(t.Context(), domain.Path{1, 2})
		require.NoError(t, err)
		assertMatrix(t, m2, got.Transformation.Matrix)

		_, err = h.loop.Reload(t.Context())
		require.ErrorIs(t, err, domain.ErrCalibrationLoadFailed)

		_, err = h.loop.Status(t.Context())
		assert.NoError(t, err, "a failed reload keeps the loop running")
	})
}

func TestLoop_Stopped(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := start(t, nil)
		h.stop(t)

		<-h.loop.Done()
		_, err := h.loop.Lookup(t.Context(), domain.Path{1, 2})
		require.ErrorIs(t, err, domain.ErrLoopStopped)

		// Liveness never blocks, even without a running loop.
		h.loop.PathBecameLive(domain.Path{1, 2}, "consumer")
		h.loop.PathBecameDead(domain.Path{1, 2})
	})
}
