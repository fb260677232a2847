package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrUnknownFrame is returned when a query names a frame that was never added.
	ErrUnknownFrame = zerr.New("unknown frame")

	// ErrUnreachable is returned when two known frames are not connected.
	ErrUnreachable = zerr.New("frames are not connected")

	// ErrMalformedPath is returned when a requested path has fewer than two frames or a bad id.
	ErrMalformedPath = zerr.New("malformed path")

	// ErrMalformedTopic is returned when a topic cannot be turned into a path.
	ErrMalformedTopic = zerr.New("malformed topic")

	// ErrMalformedTransformation is returned when a transformation payload is not a 4x4 matrix.
	ErrMalformedTransformation = zerr.New("transformation must hold 16 values")

	// ErrInternalConsistency is returned when the graph or the dependency index broke an invariant.
	ErrInternalConsistency = zerr.New("internal consistency violation")

	// ErrCalibrationNotFound is returned when a requested calibration id is not loaded.
	ErrCalibrationNotFound = zerr.New("calibration not found")

	// ErrCalibrationLoadFailed is returned when a calibration file cannot be read or parsed.
	ErrCalibrationLoadFailed = zerr.New("failed to load calibration")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a config value is out of range.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrServiceUnavailable is returned when the service socket cannot be reached.
	ErrServiceUnavailable = zerr.New("frameconv service unavailable")

	// ErrLoopStopped is returned when an event is submitted after the event loop exited.
	ErrLoopStopped = zerr.New("event loop stopped")
)

// UnknownFrameError reports a frame id that is not a vertex of the graph.
type UnknownFrameError struct {
	Frame int64
}

func (e *UnknownFrameError) Error() string {
	return fmt.Sprintf("Invalid frame %q", fmt.Sprint(e.Frame))
}

// Unwrap lets errors.Is match ErrUnknownFrame.
func (e *UnknownFrameError) Unwrap() error {
	return ErrUnknownFrame
}

// UnreachableError reports two known frames without a connecting route.
type UnreachableError struct {
	From int64
	To   int64
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("Frames %q and %q are not connected", fmt.Sprint(e.From), fmt.Sprint(e.To))
}

// Unwrap lets errors.Is match ErrUnreachable.
func (e *UnreachableError) Unwrap() error {
	return ErrUnreachable
}

// CalibrationNotFoundError reports a calibration id that is not loaded.
type CalibrationNotFoundError struct {
	ID int64
}

func (e *CalibrationNotFoundError) Error() string {
	return fmt.Sprintf("CameraCalibration with id %q not found", fmt.Sprint(e.ID))
}

// Unwrap lets errors.Is match ErrCalibrationNotFound.
func (e *CalibrationNotFoundError) Unwrap() error {
	return ErrCalibrationNotFound
}
