// Package app implements the application layer for frameconv.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.trai.ch/frameconv/internal/adapters/broker"
	"go.trai.ch/frameconv/internal/adapters/detector"
	"go.trai.ch/frameconv/internal/adapters/publisher"
	"go.trai.ch/frameconv/internal/adapters/rpc"
	"go.trai.ch/frameconv/internal/adapters/telemetry"
	"go.trai.ch/frameconv/internal/adapters/tui"
	"go.trai.ch/frameconv/internal/adapters/watcher"
	"go.trai.ch/frameconv/internal/core/domain"
	"go.trai.ch/frameconv/internal/core/ports"
	"go.trai.ch/frameconv/internal/engine/graph"
	"go.trai.ch/frameconv/internal/engine/loop"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	calibrations ports.CalibrationStore
	hub          *broker.Hub
	provider     *telemetry.Provider
	watcher      ports.Watcher
	connector    ports.ServiceConnector
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	calibrations ports.CalibrationStore,
	hub *broker.Hub,
	provider *telemetry.Provider,
	fileWatcher ports.Watcher,
	connector ports.ServiceConnector,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		calibrations: calibrations,
		hub:          hub,
		provider:     provider,
		watcher:      fileWatcher,
		connector:    connector,
		logger:       log,
	}
}

// ServeOptions holds the serve flags. Zero values keep the configured value.
type ServeOptions struct {
	ConfigPath       string
	Listen           string
	CalibrationsPath string
	Throttle         time.Duration
	NoWatch          bool
}

// SetLogFormat switches the logger between pretty and JSON lines.
// flag is one of "auto", "pretty" or "json".
func (a *App) SetLogFormat(flag string) {
	setter, ok := a.logger.(interface{ SetJSON(enable bool) })
	if !ok {
		return
	}
	format := detector.ResolveFormat(detector.DetectEnvironment(), flag)
	setter.SetJSON(format == detector.FormatJSON)
}

// Options loads the configuration file and applies the serve flags on top.
func (a *App) Options(opts ServeOptions) (domain.Options, error) {
	path := opts.ConfigPath
	if path == "" {
		path = domain.ConfigFileName
	}
	cfg, err := a.configLoader.Load(path)
	if err != nil {
		return cfg, zerr.Wrap(err, "failed to load configuration")
	}

	if opts.Listen != "" {
		cfg.Listen = opts.Listen
	}
	if opts.CalibrationsPath != "" {
		cfg.CalibrationsPath = opts.CalibrationsPath
	}
	if opts.Throttle > 0 {
		cfg.ThrottleInterval = opts.Throttle
	}
	if opts.NoWatch {
		cfg.WatchCalibrations = false
	}
	return cfg, nil
}

// Serve runs the frame conversion service until ctx is cancelled.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	// 1. Resolve the configuration
	cfg, err := a.Options(opts)
	if err != nil {
		return err
	}

	// 2. Load the calibrations that seed the graph
	if _, err := a.calibrations.Load(cfg.CalibrationsPath); err != nil {
		return zerr.Wrap(err, "failed to load calibrations")
	}

	// 3. Initialize tracing
	tracer := a.provider.Tracer(cfg.Tracing)
	defer func() {
		_ = tracer.Shutdown(context.WithoutCancel(ctx))
	}()

	// 4. Assemble the event loop, the broker and the RPC server
	frames := loop.New(loop.Config{
		Logger:        a.logger,
		Tracer:        tracer,
		Outbox:        publisher.NewThrottle(a.hub, cfg.ThrottleInterval, cfg.IdleDeadline),
		Publisher:     a.hub,
		Calibrations:  a.calibrations,
		DynamicSource: cfg.DynamicSource,
		Subscribers:   a.hub.Subscribers,
	})
	a.hub.Observe(broker.NewConsumerWatcher(a.logger, frames.PathBecameLive, frames.PathBecameDead))
	server := rpc.NewServer(rpc.NewLifecycle(), frames, a.hub, a.calibrations, a.logger)

	// 5. Run everything until the first failure or cancellation
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return frames.Run(ctx)
	})

	g.Go(func() error {
		return server.Serve(ctx, cfg.Listen)
	})

	if cfg.WatchCalibrations {
		g.Go(func() error {
			a.watchCalibrations(ctx, cfg.CalibrationsPath, frames)
			return nil
		})
	}

	return g.Wait()
}

// watchCalibrations reloads the calibrations after each burst of file changes.
// A directory that cannot be watched only disables hot reload.
func (a *App) watchCalibrations(ctx context.Context, dir string, frames *loop.Loop) {
	if err := a.watcher.Start(ctx, dir); err != nil {
		a.logger.Warn(fmt.Sprintf("event=Calibration.WatchDisabled dir=%s reason=%q", dir, err.Error()))
		return
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	debouncer := watcher.NewDebouncer(domain.DefaultReloadWindow, func(paths []string) {
		changed, err := frames.Reload(ctx)
		if err != nil {
			if ctx.Err() == nil {
				a.logger.Error(zerr.Wrap(err, "failed to reload calibrations"))
			}
			return
		}
		a.logger.Info(fmt.Sprintf("event=Calibration.FilesChanged files=%d changed=%d", len(paths), changed))
	})

	for event := range a.watcher.Events() {
		debouncer.Add(event.Path)
	}
}

// Resolve answers a lookup offline from the calibrations found in dir.
func (a *App) Resolve(dir string, path domain.Path) (*ports.Lookup, error) {
	calibrations, err := a.calibrations.Load(dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load calibrations")
	}

	g := graph.New()
	for _, calibration := range calibrations {
		for _, tf := range calibration.Extrinsics {
			if !g.UpdateTransformation(tf) {
				a.logger.Warn(fmt.Sprintf("event=Graph.SingularTransformation edge=%s calibration=%d", tf.Edge(), calibration.ID))
			}
		}
	}

	route, err := g.FindRoute(path)
	if err != nil {
		return nil, err
	}
	m, err := g.ComposePath(route)
	if err != nil {
		return nil, err
	}
	return &ports.Lookup{
		Route:          route,
		Transformation: domain.Transformation{From: path[0], To: path[len(path)-1], Matrix: m},
	}, nil
}

// Lookup asks the service at socket for the transformation along path.
func (a *App) Lookup(ctx context.Context, socket string, path domain.Path) (*ports.Lookup, error) {
	var lookup *ports.Lookup
	err := a.withClient(ctx, socket, func(client ports.ServiceClient) error {
		var err error
		lookup, err = client.Lookup(ctx, path)
		return err
	})
	return lookup, err
}

// Publish sends tfs to the service as a batch received on topic.
func (a *App) Publish(ctx context.Context, socket, topic string, tfs []domain.Transformation) (int, error) {
	var applied int
	err := a.withClient(ctx, socket, func(client ports.ServiceClient) error {
		var err error
		applied, err = client.Publish(ctx, topic, tfs)
		return err
	})
	return applied, err
}

// PublishFailure reports a failed detection of the dynamic source id, which
// drops every edge from id into the dynamic range.
func (a *App) PublishFailure(ctx context.Context, socket string, source domain.DynamicSource, id int64) error {
	_, err := a.Publish(ctx, socket, source.Topic(id), nil)
	return err
}

// Watch subscribes to path and calls emit for every update until ctx is done.
func (a *App) Watch(
	ctx context.Context,
	socket string,
	path domain.Path,
	emit func(domain.Transformation) error,
) error {
	return a.withClient(ctx, socket, func(client ports.ServiceClient) error {
		updates, err := client.Subscribe(ctx, path)
		if err != nil {
			return err
		}
		for tf, err := range updates {
			if err != nil {
				return err
			}
			if err := emit(tf); err != nil {
				return err
			}
		}
		return nil
	})
}

// Calibrations fetches the calibrations with the given ids from the service.
func (a *App) Calibrations(ctx context.Context, socket string, ids []int64) ([]domain.Calibration, error) {
	var calibrations []domain.Calibration
	err := a.withClient(ctx, socket, func(client ports.ServiceClient) error {
		var err error
		calibrations, err = client.Calibrations(ctx, ids)
		return err
	})
	return calibrations, err
}

// Status fetches the service status.
func (a *App) Status(ctx context.Context, socket string) (*domain.Status, error) {
	var status *domain.Status
	err := a.withClient(ctx, socket, func(client ports.ServiceClient) error {
		var err error
		status, err = client.Status(ctx)
		return err
	})
	return status, err
}

// Top runs the live dashboard against the service until the user quits.
func (a *App) Top(ctx context.Context, socket string, in io.Reader, out io.Writer) error {
	return a.withClient(ctx, socket, func(client ports.ServiceClient) error {
		model := tui.NewModel(client, tui.NewStatusView(tui.NewRenderer(out)), tui.DefaultRefresh)
		return tui.Run(ctx, model, in, out)
	})
}

func (a *App) withClient(ctx context.Context, socket string, fn func(ports.ServiceClient) error) error {
	if socket == "" {
		socket = domain.DefaultSocketPath()
	}
	client, err := a.connector.Connect(ctx, socket)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	return fn(client)
}
