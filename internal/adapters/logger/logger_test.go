package logger_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/frameconv/internal/adapters/logger"
	"go.trai.ch/frameconv/internal/core/domain"
	"go.trai.ch/zerr"
)

// newTestLogger returns a logger writing uncolored output into a buffer.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_InfoAndWarn(t *testing.T) {
	tests := []struct {
		name       string
		log        func(*logger.Logger)
		goldenName string
	}{
		{
			name:       "resolved event",
			log:        func(l *logger.Logger) { l.Info("event=Dependency.Resolved path=[1001 1000] route=[1001 1 1000]") },
			goldenName: "info_event",
		},
		{
			name:       "multiline info",
			log:        func(l *logger.Logger) { l.Info("line1\nline2") },
			goldenName: "info_multiline",
		},
		{
			name:       "singular warning",
			log:        func(l *logger.Logger) { l.Warn("event=Graph.SingularTransformation edge=1->2") },
			goldenName: "warn_singular",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			tt.log(lg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name:       "typed error",
			err:        &domain.UnreachableError{From: 2, To: 1004},
			goldenName: "error_unreachable",
		},
		{
			name:       "multiline error",
			err:        errors.New("yaml: unmarshal errors:\n  line 3: cannot unmarshal"),
			goldenName: "error_multiline",
		},
		{
			name: "zerr chain",
			err: zerr.Wrap(
				zerr.Wrap(errors.New("connection refused"), "failed to dial service"),
				"failed to lookup transformation",
			),
			goldenName: "error_chain",
		},
		{
			name: "metadata on every link",
			err: func() error {
				inner := zerr.With(zerr.Wrap(domain.ErrMalformedTopic, "failed to parse topic"), "topic", "FrameTransformation.1")
				outer := zerr.Wrap(inner, "failed to subscribe")
				return zerr.With(outer, "consumer", "c-1")
			}(),
			goldenName: "error_metadata",
		},
		{
			name:       "metadata on plain error",
			err:        zerr.With(errors.New("permission denied"), "path", "etc/calibrations"),
			goldenName: "error_plain_metadata",
		},
		{
			name:       "stdlib chain",
			err:        fmt.Errorf("failed to start: %w", errors.New("address in use")),
			goldenName: "error_stdlib",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)
	lg.Error(zerr.With(zerr.Wrap(errors.New("boom"), "failed to flush"), "count", 3))

	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, "failed to flush")
	assert.NotContains(t, out, "✗")

	buf.Reset()
	lg.SetJSON(false)
	lg.Error(errors.New("back to pretty"))
	assert.Equal(t, "✗ Error: back to pretty\n", buf.String())
}

func TestLogger_SetOutputNil(t *testing.T) {
	require.NotPanics(t, func() {
		lg := logger.New().(*logger.Logger)
		lg.SetOutput(nil)
	})
}

func TestLogger_Concurrent(t *testing.T) {
	lg, _ := newTestLogger(t)

	done := make(chan struct{}, 5)
	for _, fn := range []func(){
		func() { lg.Info("info") },
		func() { lg.Warn("warn") },
		func() { lg.Error(errors.New("err")) },
		func() { lg.SetJSON(true) },
		func() { lg.SetOutput(&bytes.Buffer{}) },
	} {
		go func() {
			fn()
			done <- struct{}{}
		}()
	}
	for range 5 {
		<-done
	}
}
