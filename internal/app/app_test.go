package app_test

import (
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/frameconv/internal/adapters/broker"
	"go.trai.ch/frameconv/internal/adapters/calibration"
	"go.trai.ch/frameconv/internal/adapters/rpc"
	"go.trai.ch/frameconv/internal/adapters/telemetry"
	"go.trai.ch/frameconv/internal/app"
	"go.trai.ch/frameconv/internal/core/domain"
	"go.trai.ch/frameconv/internal/core/ports"
	"go.trai.ch/frameconv/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	app       *app.App
	loader    *mocks.MockConfigLoader
	watcher   *mocks.MockWatcher
	connector *mocks.MockServiceConnector
	client    *mocks.MockServiceClient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	f := &fixture{
		loader:    mocks.NewMockConfigLoader(ctrl),
		watcher:   mocks.NewMockWatcher(ctrl),
		connector: mocks.NewMockServiceConnector(ctrl),
		client:    mocks.NewMockServiceClient(ctrl),
	}
	f.app = app.New(
		f.loader,
		calibration.NewStore(log),
		broker.NewHub(log),
		telemetry.NewProvider(log),
		f.watcher,
		f.connector,
		log,
	)
	return f
}

func (f *fixture) expectClient(socket string) {
	f.connector.EXPECT().Connect(gomock.Any(), socket).Return(f.client, nil)
	f.client.EXPECT().Close().Return(nil)
}

func translation(x, y, z float64) domain.Matrix {
	return domain.Matrix{
		1, 0, 0, x,
		0, 1, 0, y,
		0, 0, 1, z,
		0, 0, 0, 1,
	}
}

func writeCalibrations(t *testing.T, dir string) {
	t.Helper()
	files := map[string]string{
		"cam1.yaml": "id: 1\nextrinsic:\n  - from: 1\n    to: 1000\n" +
			"    tf: [1, 0, 0, 1, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1]\n",
		"cam2.yml": "id: 2\nextrinsic:\n  - from: 1\n    to: 1001\n" +
			"    tf: [1, 0, 0, 0, 0, 1, 0, 2, 0, 0, 1, 0, 0, 0, 0, 1]\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), domain.FilePerm))
	}
}

func TestApp_Options(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load("custom.yaml").Return(domain.DefaultOptions(), nil)

	cfg, err := f.app.Options(app.ServeOptions{
		ConfigPath:       "custom.yaml",
		Listen:           "/tmp/fc.sock",
		CalibrationsPath: "cams",
		Throttle:         time.Second,
		NoWatch:          true,
	})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/fc.sock", cfg.Listen)
	assert.Equal(t, "cams", cfg.CalibrationsPath)
	assert.Equal(t, time.Second, cfg.ThrottleInterval)
	assert.False(t, cfg.WatchCalibrations)
	assert.Equal(t, domain.DefaultIdleDeadline, cfg.IdleDeadline)
}

func TestApp_OptionsDefaults(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(domain.ConfigFileName).Return(domain.DefaultOptions(), nil)

	cfg, err := f.app.Options(app.ServeOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultOptions(), cfg)
}

func TestApp_ServeConfigError(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(domain.ConfigFileName).
		Return(domain.Options{}, zerr.Wrap(domain.ErrConfigParseFailed, "bad yaml"))

	err := f.app.Serve(context.Background(), app.ServeOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigParseFailed)
}

func TestApp_Serve(t *testing.T) {
	f := newFixture(t)

	calibrations := t.TempDir()
	writeCalibrations(t, calibrations)

	// Unix socket paths are limited in length, so t.TempDir is too long here.
	runtimeDir, err := os.MkdirTemp("", "fc")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(runtimeDir) })
	socket := filepath.Join(runtimeDir, "fc.sock")

	f.loader.EXPECT().Load(domain.ConfigFileName).Return(domain.DefaultOptions(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- f.app.Serve(ctx, app.ServeOptions{
			Listen:           socket,
			CalibrationsPath: calibrations,
			NoWatch:          true,
		})
	}()

	client, err := rpc.Dial(socket)
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	var lookup *ports.Lookup
	require.Eventually(t, func() bool {
		lookup, err = client.Lookup(ctx, domain.Path{1000, 1001})
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, domain.Path{1000, 1, 1001}, lookup.Route)
	assert.True(t, lookup.Transformation.Matrix.ApproxEqual(translation(-1, 2, 0), 1e-9))

	status, err := client.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, status.Frames)
	assert.Equal(t, 2, status.Edges)
	assert.Equal(t, os.Getpid(), status.PID)

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}

	_, err = os.Stat(socket)
	assert.True(t, os.IsNotExist(err))
}

func TestApp_Resolve(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	writeCalibrations(t, dir)

	lookup, err := f.app.Resolve(dir, domain.Path{1000, 1001})
	require.NoError(t, err)
	assert.Equal(t, domain.Path{1000, 1, 1001}, lookup.Route)
	assert.Equal(t, int64(1000), lookup.Transformation.From)
	assert.Equal(t, int64(1001), lookup.Transformation.To)
	assert.True(t, lookup.Transformation.Matrix.ApproxEqual(translation(-1, 2, 0), 1e-9))

	_, err = f.app.Resolve(dir, domain.Path{1000, 3000})
	require.Error(t, err)
	assert.EqualError(t, err, `Invalid frame "3000"`)
}

func TestApp_Lookup(t *testing.T) {
	f := newFixture(t)
	f.expectClient("fc.sock")

	want := &ports.Lookup{
		Route:          domain.Path{1, 2},
		Transformation: domain.Transformation{From: 1, To: 2, Matrix: domain.Identity()},
	}
	f.client.EXPECT().Lookup(gomock.Any(), domain.Path{1, 2}).Return(want, nil)

	got, err := f.app.Lookup(context.Background(), "fc.sock", domain.Path{1, 2})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestApp_DefaultSocket(t *testing.T) {
	f := newFixture(t)
	f.expectClient(domain.DefaultSocketPath())
	f.client.EXPECT().Status(gomock.Any()).Return(&domain.Status{Frames: 2}, nil)

	status, err := f.app.Status(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, status.Frames)
}

func TestApp_ConnectFailure(t *testing.T) {
	f := newFixture(t)
	f.connector.EXPECT().Connect(gomock.Any(), "fc.sock").
		Return(nil, zerr.With(zerr.Wrap(domain.ErrServiceUnavailable, "connection refused"), "socket", "fc.sock"))

	_, err := f.app.Status(context.Background(), "fc.sock")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
}

func TestApp_PublishFailure(t *testing.T) {
	f := newFixture(t)
	f.expectClient("fc.sock")
	f.client.EXPECT().Publish(gomock.Any(), "ArUco.7.FrameTransformations", gomock.Nil()).Return(0, nil)

	err := f.app.PublishFailure(context.Background(), "fc.sock", domain.DefaultOptions().DynamicSource, 7)
	require.NoError(t, err)
}

func TestApp_Watch(t *testing.T) {
	f := newFixture(t)
	f.expectClient("fc.sock")

	updates := []domain.Transformation{
		{From: 1, To: 2, Matrix: translation(1, 0, 0)},
		{From: 1, To: 2, Matrix: translation(2, 0, 0)},
	}
	f.client.EXPECT().Subscribe(gomock.Any(), domain.Path{1, 2}).Return(
		iter.Seq2[domain.Transformation, error](func(yield func(domain.Transformation, error) bool) {
			for _, tf := range updates {
				if !yield(tf, nil) {
					return
				}
			}
		}), nil)

	var got []domain.Transformation
	err := f.app.Watch(context.Background(), "fc.sock", domain.Path{1, 2}, func(tf domain.Transformation) error {
		got = append(got, tf)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, updates, got)
}

func TestApp_WatchStreamError(t *testing.T) {
	f := newFixture(t)
	f.expectClient("fc.sock")

	streamErr := errors.New("stream broken")
	f.client.EXPECT().Subscribe(gomock.Any(), domain.Path{1, 2}).Return(
		iter.Seq2[domain.Transformation, error](func(yield func(domain.Transformation, error) bool) {
			yield(domain.Transformation{}, streamErr)
		}), nil)

	err := f.app.Watch(context.Background(), "fc.sock", domain.Path{1, 2}, func(domain.Transformation) error {
		t.Fatal("emit must not be called")
		return nil
	})
	require.ErrorIs(t, err, streamErr)
}

func TestApp_Calibrations(t *testing.T) {
	f := newFixture(t)
	f.expectClient("fc.sock")

	want := []domain.Calibration{{ID: 2}, {ID: 1}}
	f.client.EXPECT().Calibrations(gomock.Any(), []int64{2, 1}).Return(want, nil)

	got, err := f.app.Calibrations(context.Background(), "fc.sock", []int64{2, 1})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
