package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/content"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/dispatch"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/lifecycle"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/infrastructure/bus"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/providers/discovery"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/providers/metadata"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/providers/search"
)

// Bus is the connection an App runs on. *dbus.Conn implements it.
type Bus interface {
	bus.Exporter
	bus.NameOwner
	bus.ObjectSource
}

// App is an assembled search provider service
type App struct {
	cfg      *config.Config
	logger   *zap.Logger
	metrics  *monitoring.Metrics
	store    *content.Store
	router   *dispatch.Router
	service  *lifecycle.Service
	conn     *bus.Conn
	breakers *resilience.Group
}

// Option configures an App
type Option func(*App)

// WithLogger sets the logger handed to every component
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithMetrics sets the collector handed to every component
func WithMetrics(metrics *monitoring.Metrics) Option {
	return func(a *App) {
		a.metrics = metrics
	}
}

// New assembles an App on b. ctx bounds every bus call the App serves.
func New(ctx context.Context, cfg *config.Config, b Bus, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}

	a.store = content.NewStore(cfg.Content.Dir).WithLogger(a.logger)

	settings := resilience.DefaultSettings()
	settings.FailureThreshold = cfg.Launch.FailureThreshold
	settings.Cooldown = cfg.Launch.Cooldown
	settings.IsFailure = bus.LaunchFailure
	settings.OnStateChange = func(appID string, from, to resilience.State) {
		a.logger.Warn("Launch breaker changed state",
			zap.String("app_id", appID),
			zap.Stringer("from", from),
			zap.Stringer("to", to))
	}
	a.breakers = resilience.NewGroup(settings)
	launcher := bus.NewLauncher(b).WithBreakers(a.breakers).WithTimeout(cfg.Launch.Timeout)

	searchFactory := search.NewFactory(a.store, launcher, search.Options{
		ResultsLimit:   cfg.Content.ResultsLimit,
		MaxDescription: cfg.Content.MaxDescription,
	}).WithLogger(a.logger)
	metadataFactory := metadata.NewFactory(a.store).WithLogger(a.logger)
	discoveryFactory := discovery.NewFactory(a.store).WithLogger(a.logger)

	a.router = dispatch.NewRouter(
		dispatch.NewDispatcher(searchFactory.Family()).WithLogger(a.logger).WithMetrics(a.metrics),
		dispatch.NewDispatcher(metadataFactory.Family()).WithLogger(a.logger).WithMetrics(a.metrics),
		dispatch.NewDispatcher(discoveryFactory.Family()).WithLogger(a.logger).WithMetrics(a.metrics),
	)

	ifaces := append(search.BusInterfaces(), metadata.BusInterface())
	catalog := bus.NewCatalog(append(ifaces, discovery.BusInterfaces()...)...)
	a.conn = bus.NewConn(ctx, b, catalog).WithLogger(a.logger)

	switch cfg.Bus.Mode {
	case config.ModeSingle:
		p, err := searchFactory.Create(ctx, cfg.Bus.SingleAppID)
		if err != nil {
			return nil, fmt.Errorf("single provider: %w", err)
		}
		a.service = lifecycle.NewSingleService(p)
	default:
		a.service = lifecycle.NewSubtreeService(a.router)
	}

	hooks := bus.NewNameHooks(b, cfg.Bus.Name).WithLogger(a.logger)
	a.service = a.service.
		WithHooks(hooks).
		WithLogger(a.logger).
		WithMetrics(a.metrics)

	return a, nil
}

// Start registers the service at the configured object path
func (a *App) Start(ctx context.Context) error {
	a.logger.Info("Registering search provider",
		zap.String("name", a.cfg.Bus.Name),
		zap.String("path", a.cfg.Bus.ObjectPath),
		zap.String("mode", a.cfg.Bus.Mode),
		zap.String("content_dir", a.store.Root()))
	return a.service.Register(ctx, a.conn, a.cfg.Bus.ObjectPath)
}

// Stop unregisters the service. It is safe to call more than once.
func (a *App) Stop() {
	a.service.Unregister()
}

// Router returns the dispatch router, whether or not it is exported
func (a *App) Router() *dispatch.Router {
	return a.router
}

// Services returns the lifecycle services owned by the App
func (a *App) Services() []*lifecycle.Service {
	return []*lifecycle.Service{a.service}
}

// Breakers returns the per-app launch breakers
func (a *App) Breakers() *resilience.Group {
	return a.breakers
}
