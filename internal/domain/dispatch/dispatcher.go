package dispatch

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/provider"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/shared/buslabel"
)

// Dispatcher serves one provider family under a subtree.
type Dispatcher struct {
	family   provider.Family
	registry *Registry
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// NewDispatcher creates a dispatcher with an empty registry
func NewDispatcher(family provider.Family) *Dispatcher {
	d := &Dispatcher{
		family: family,
		logger: zap.NewNop(),
	}
	d.registry = NewRegistry().OnInsert(func(size int) {
		d.metrics.SetProvidersActive(d.family.Name, size)
	})
	return d
}

// WithLogger sets the logger used for dispatch events
func (d *Dispatcher) WithLogger(logger *zap.Logger) *Dispatcher {
	if logger != nil {
		d.logger = logger.With(zap.String("family", d.family.Name))
	}
	return d
}

// WithMetrics adds metrics tracking to the dispatcher
func (d *Dispatcher) WithMetrics(metrics *monitoring.Metrics) *Dispatcher {
	d.metrics = metrics
	return d
}

// Family returns the provider family served by the dispatcher
func (d *Dispatcher) Family() provider.Family {
	return d.family
}

// Dispatch returns the skeleton to export for segment.
func (d *Dispatcher) Dispatch(ctx context.Context, segment string) (provider.Skeleton, error) {
	p, err := d.Provider(ctx, segment)
	if err != nil {
		return nil, err
	}
	return p.Skeleton(), nil
}

// Provider returns the provider for segment, building it on first use.
// Segments are cached by their canonical encoding, so every spelling of one
// identifier shares a provider.
func (d *Dispatcher) Provider(ctx context.Context, segment string) (provider.Provider, error) {
	appID, err := buslabel.Decode(segment)
	if err != nil {
		d.metrics.RecordDispatch(d.family.Name, monitoring.ResultError)
		d.logger.Warn("Rejected undecodable segment", zap.String("segment", segment), zap.Error(err))
		return nil, fmt.Errorf("dispatch %s: %w", d.family.Name, err)
	}

	canonical := buslabel.Encode(appID)
	p, created, err := d.registry.GetOrCreate(ctx, canonical, func(ctx context.Context) (provider.Provider, error) {
		return d.create(ctx, canonical, appID)
	})
	if err != nil {
		d.metrics.RecordDispatch(d.family.Name, monitoring.ResultError)
		return nil, err
	}

	if created {
		d.metrics.RecordDispatch(d.family.Name, monitoring.ResultCreated)
	} else {
		d.metrics.RecordDispatch(d.family.Name, monitoring.ResultHit)
		d.logger.Debug("Dispatched cached provider", zap.String("segment", canonical))
	}
	return p, nil
}

// create runs inside the registry's single flight for segment.
func (d *Dispatcher) create(ctx context.Context, segment, appID string) (provider.Provider, error) {
	timer := monitoring.NewTimer(d.metrics, d.family.Name)
	p, err := d.family.Factory.Create(ctx, appID)
	if err == nil && p == nil {
		err = ErrNilProvider
	}
	if err != nil {
		var ce *provider.CreationError
		if !errors.As(err, &ce) {
			ce = provider.NewCreationError(appID, err)
		}
		timer.Failed(ce.Code.String())
		d.logger.Warn("Failed to create provider",
			zap.String("segment", segment),
			zap.String("app_id", appID),
			zap.Error(err),
		)
		return nil, ce
	}

	timer.Created()
	d.logger.Info("Created provider",
		zap.String("segment", segment),
		zap.String("app_id", appID),
	)
	return p, nil
}

// Providers returns the cached providers ordered by segment
func (d *Dispatcher) Providers() []Entry {
	return d.registry.Entries()
}

// Len returns the number of cached providers
func (d *Dispatcher) Len() int {
	return d.registry.Len()
}
