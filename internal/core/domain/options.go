package domain

import (
	"strconv"
	"time"
)

// DynamicSource describes the detector whose frames are volatile.
// An empty update batch from "<Prefix>.<id>.FrameTransformations" removes every
// edge from <id> into [MinID, MaxID].
type DynamicSource struct {
	Prefix string
	MinID  int64
	MaxID  int64
}

// Contains reports whether id lies in the dynamic range.
func (d DynamicSource) Contains(id int64) bool {
	return id >= d.MinID && id <= d.MaxID
}

// Topic returns the update topic of the detector instance id.
func (d DynamicSource) Topic(id int64) string {
	return d.Prefix + "." + strconv.FormatInt(id, 10) + "." + UpdateTopicSuffix
}

// Tracing configures span export.
type Tracing struct {
	Enabled     bool
	ServiceName string
}

// Options is the resolved service configuration.
type Options struct {
	Listen            string
	CalibrationsPath  string
	ThrottleInterval  time.Duration
	IdleDeadline      time.Duration
	WatchCalibrations bool
	DynamicSource     DynamicSource
	Tracing           Tracing
}

// DefaultOptions returns the options used when no config file is present.
func DefaultOptions() Options {
	return Options{
		Listen:            DefaultSocketPath(),
		CalibrationsPath:  DefaultCalibrationsDir,
		ThrottleInterval:  DefaultThrottleInterval,
		IdleDeadline:      DefaultIdleDeadline,
		WatchCalibrations: true,
		DynamicSource: DynamicSource{
			Prefix: DefaultDynamicSourcePrefix,
			MinID:  DefaultDynamicMinID,
			MaxID:  DefaultDynamicMaxID,
		},
		Tracing: Tracing{
			ServiceName: DefaultServiceName,
		},
	}
}
