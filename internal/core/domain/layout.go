package domain

import (
	"path/filepath"
	"time"
)

const (
	// FrameconvDirName is the name of the service runtime directory.
	FrameconvDirName = ".frameconv"

	// SocketFileName is the name of the service Unix domain socket.
	SocketFileName = "frameconv.sock"

	// PIDFileName is the name of the file holding the service pid.
	PIDFileName = "frameconv.pid"

	// ConfigFileName is the name of the service configuration file.
	ConfigFileName = "frameconv.yaml"

	// DefaultCalibrationsDir is the calibration directory used when none is configured.
	DefaultCalibrationsDir = "etc/calibrations"

	// TopicPrefix is the first segment of every published transformation topic.
	TopicPrefix = "FrameTransformation"

	// UpdateTopicSuffix is the last segment of topics that carry transformation batches.
	UpdateTopicSuffix = "FrameTransformations"

	// DefaultDynamicSourcePrefix names the detector whose empty batches mean a failed detection.
	DefaultDynamicSourcePrefix = "ArUco"

	// DefaultDynamicMinID is the first frame id of the dynamic range.
	DefaultDynamicMinID = 100

	// DefaultDynamicMaxID is the last frame id of the dynamic range.
	DefaultDynamicMaxID = 150

	// DefaultThrottleInterval is the interval between two publication flushes.
	DefaultThrottleInterval = 100 * time.Millisecond

	// DefaultIdleDeadline bounds the event loop receive when nothing is buffered.
	DefaultIdleDeadline = 10 * time.Second

	// DefaultReloadWindow is the debounce window of calibration file changes.
	DefaultReloadWindow = 200 * time.Millisecond

	// DefaultServiceName is the tracing service name.
	DefaultServiceName = "frameconv"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600

	// SocketPerm is the permission of the service socket (rw-------).
	SocketPerm = 0o600
)

// DefaultSocketPath returns the default path of the service socket.
// It joins .frameconv and frameconv.sock.
func DefaultSocketPath() string {
	return filepath.Join(FrameconvDirName, SocketFileName)
}

// DefaultPIDPath returns the default path of the pid file.
// It joins .frameconv and frameconv.pid.
func DefaultPIDPath() string {
	return filepath.Join(FrameconvDirName, PIDFileName)
}

// PIDPathFor returns the pid file that sits next to the given socket.
func PIDPathFor(socketPath string) string {
	return filepath.Join(filepath.Dir(socketPath), PIDFileName)
}
