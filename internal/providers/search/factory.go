package search

import (
	"context"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/content"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/provider"
	"go.uber.org/zap"
)

// Factory builds search providers from app content.
type Factory struct {
	opener   content.Opener
	launcher Launcher
	opts     Options
	logger   *zap.Logger
}

// NewFactory creates a factory
func NewFactory(opener content.Opener, launcher Launcher, opts Options) *Factory {
	return &Factory{
		opener:   opener,
		launcher: launcher,
		opts:     opts,
		logger:   zap.NewNop(),
	}
}

// WithLogger sets the logger
func (f *Factory) WithLogger(logger *zap.Logger) *Factory {
	if logger != nil {
		f.logger = logger
	}
	return f
}

// Create opens the content of appID and wraps it in a provider.
func (f *Factory) Create(ctx context.Context, appID string) (provider.Provider, error) {
	domain, err := f.opener.Open(ctx, appID)
	if err != nil {
		return nil, provider.NewCreationError(appID, err)
	}
	return New(domain, f.launcher, f.opts).WithLogger(f.logger), nil
}

// Family returns the search family served by f
func (f *Factory) Family() provider.Family {
	return provider.Family{
		Name:       FamilyName,
		Interfaces: []string{Interface, InterfaceV1},
		Factory:    f,
	}
}
