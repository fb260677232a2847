package config

// File represents the structure of the frameconv.yaml configuration file.
// Unset fields keep their default value.
type File struct {
	Listen            string            `yaml:"listen"`
	CalibrationsPath  string            `yaml:"calibrations_path"`
	ThrottleInterval  string            `yaml:"throttle_interval"`
	IdleDeadline      string            `yaml:"idle_deadline"`
	WatchCalibrations *bool             `yaml:"watch_calibrations"`
	DynamicSource     *DynamicSourceDTO `yaml:"dynamic_source"`
	Tracing           *TracingDTO       `yaml:"tracing"`
}

// DynamicSourceDTO configures the detector whose frames are volatile.
type DynamicSourceDTO struct {
	Prefix string `yaml:"prefix"`
	MinID  *int64 `yaml:"min_id"`
	MaxID  *int64 `yaml:"max_id"`
}

// TracingDTO configures span export.
type TracingDTO struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}
