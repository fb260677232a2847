package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/frameconv/internal/adapters/config"
	"go.trai.ch/frameconv/internal/core/domain"
	"go.trai.ch/frameconv/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newLoader(t *testing.T, files fstest.MapFS) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	loader := config.NewLoader(log)
	if files != nil {
		loader.FS = config.MapFSAdapter{FS: files}
	}
	return loader
}

func TestLoader_MissingFileYieldsDefaults(t *testing.T) {
	loader := newLoader(t, fstest.MapFS{})

	opts, err := loader.Load(domain.ConfigFileName)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultOptions(), opts)
}

func TestLoader_Overrides(t *testing.T) {
	loader := newLoader(t, fstest.MapFS{
		domain.ConfigFileName: {Data: []byte(`
listen: /run/frameconv.sock
calibrations_path: /etc/frameconv/calibrations
throttle_interval: 50ms
idle_deadline: 5s
watch_calibrations: false
dynamic_source:
  prefix: AprilTag
  min_id: 200
  max_id: 210
tracing:
  enabled: true
`)},
	})

	opts, err := loader.Load(domain.ConfigFileName)
	require.NoError(t, err)

	assert.Equal(t, "/run/frameconv.sock", opts.Listen)
	assert.Equal(t, "/etc/frameconv/calibrations", opts.CalibrationsPath)
	assert.Equal(t, 50*time.Millisecond, opts.ThrottleInterval)
	assert.Equal(t, 5*time.Second, opts.IdleDeadline)
	assert.False(t, opts.WatchCalibrations)
	assert.Equal(t, domain.DynamicSource{Prefix: "AprilTag", MinID: 200, MaxID: 210}, opts.DynamicSource)
	assert.True(t, opts.Tracing.Enabled)
	assert.Equal(t, domain.DefaultServiceName, opts.Tracing.ServiceName)
}

func TestLoader_PartialDynamicSourceKeepsDefaults(t *testing.T) {
	loader := newLoader(t, fstest.MapFS{
		domain.ConfigFileName: {Data: []byte("dynamic_source:\n  max_id: 120\n")},
	})

	opts, err := loader.Load(domain.ConfigFileName)
	require.NoError(t, err)
	assert.Equal(t, domain.DynamicSource{Prefix: "ArUco", MinID: 100, MaxID: 120}, opts.DynamicSource)
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{name: "bad yaml", content: "listen: [", want: domain.ErrConfigParseFailed},
		{name: "bad duration", content: "throttle_interval: soon", want: domain.ErrInvalidConfig},
		{name: "zero throttle", content: "throttle_interval: 0s", want: domain.ErrInvalidConfig},
		{name: "idle shorter than throttle", content: "throttle_interval: 1s\nidle_deadline: 10ms", want: domain.ErrInvalidConfig},
		{name: "inverted range", content: "dynamic_source:\n  min_id: 10\n  max_id: 1", want: domain.ErrInvalidConfig},
		{name: "dotted prefix", content: "dynamic_source:\n  prefix: a.b", want: domain.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := newLoader(t, fstest.MapFS{
				domain.ConfigFileName: {Data: []byte(tt.content)},
			})

			_, err := loader.Load(domain.ConfigFileName)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestLoader_ReadFailure(t *testing.T) {
	// A directory cannot be read as a file.
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, domain.ConfigFileName), domain.DirPerm))

	loader := newLoader(t, nil)
	_, err := loader.Load(filepath.Join(dir, domain.ConfigFileName))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigReadFailed)
}

func TestLoader_OSFS(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, domain.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("listen: x.sock\n"), domain.FilePerm))

	opts, err := newLoader(t, nil).Load(path)
	require.NoError(t, err)
	assert.Equal(t, "x.sock", opts.Listen)
}
