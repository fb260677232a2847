// Package config loads the frameconv.yaml service configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"go.trai.ch/frameconv/internal/core/domain"
	"go.trai.ch/frameconv/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a Loader reading from the OS filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, FS: OSFS{}}
}

// Load reads the configuration at path on top of domain.DefaultOptions.
// A missing file yields the defaults.
func (l *Loader) Load(path string) (domain.Options, error) {
	opts := domain.DefaultOptions()

	raw, err := l.FS.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		l.Logger.Info(fmt.Sprintf("event=Config.Defaults path=%s", path))
		return opts, nil
	}
	if err != nil {
		return opts, zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "path", path)
	}

	var file File
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return opts, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "path", path)
	}

	if err := apply(&opts, &file); err != nil {
		return opts, zerr.With(err, "path", path)
	}
	if err := Validate(opts); err != nil {
		return opts, zerr.With(err, "path", path)
	}
	return opts, nil
}

// Validate checks option combinations that cannot work.
func Validate(opts domain.Options) error {
	switch {
	case strings.TrimSpace(opts.Listen) == "":
		return invalid("listen", "must not be empty")
	case opts.ThrottleInterval <= 0:
		return zerr.With(invalid("throttle_interval", "must be positive"), "value", opts.ThrottleInterval.String())
	case opts.IdleDeadline < opts.ThrottleInterval:
		return zerr.With(invalid("idle_deadline", "must not be shorter than throttle_interval"), "value", opts.IdleDeadline.String())
	case opts.DynamicSource.Prefix == "" || strings.Contains(opts.DynamicSource.Prefix, "."):
		return zerr.With(invalid("dynamic_source.prefix", "must be a single topic segment"), "value", opts.DynamicSource.Prefix)
	case opts.DynamicSource.MinID > opts.DynamicSource.MaxID:
		err := invalid("dynamic_source", "min_id is greater than max_id")
		err = zerr.With(err, "min_id", opts.DynamicSource.MinID)
		return zerr.With(err, "max_id", opts.DynamicSource.MaxID)
	}
	return nil
}

func apply(opts *domain.Options, file *File) error {
	if file.Listen != "" {
		opts.Listen = file.Listen
	}
	if file.CalibrationsPath != "" {
		opts.CalibrationsPath = file.CalibrationsPath
	}
	if file.WatchCalibrations != nil {
		opts.WatchCalibrations = *file.WatchCalibrations
	}

	var err error
	if opts.ThrottleInterval, err = duration("throttle_interval", file.ThrottleInterval, opts.ThrottleInterval); err != nil {
		return err
	}
	if opts.IdleDeadline, err = duration("idle_deadline", file.IdleDeadline, opts.IdleDeadline); err != nil {
		return err
	}

	if src := file.DynamicSource; src != nil {
		if src.Prefix != "" {
			opts.DynamicSource.Prefix = src.Prefix
		}
		if src.MinID != nil {
			opts.DynamicSource.MinID = *src.MinID
		}
		if src.MaxID != nil {
			opts.DynamicSource.MaxID = *src.MaxID
		}
	}

	if tr := file.Tracing; tr != nil {
		opts.Tracing.Enabled = tr.Enabled
		if tr.ServiceName != "" {
			opts.Tracing.ServiceName = tr.ServiceName
		}
	}
	return nil
}

func duration(field, raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback, zerr.With(invalid(field, "is not a duration"), "value", raw)
	}
	return d, nil
}

func invalid(field, reason string) error {
	return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, field+" "+reason), "field", field)
}
