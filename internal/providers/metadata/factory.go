package metadata

import (
	"context"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/content"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/provider"
	"go.uber.org/zap"
)

// Factory builds metadata providers from app content.
type Factory struct {
	opener content.Opener
	logger *zap.Logger
}

// NewFactory creates a factory
func NewFactory(opener content.Opener) *Factory {
	return &Factory{opener: opener, logger: zap.NewNop()}
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
	return New(domain).WithLogger(f.logger), nil
}

// Family returns the metadata family served by f
func (f *Factory) Family() provider.Family {
	return provider.Family{
		Name:       FamilyName,
		Interfaces: []string{Interface},
		Factory:    f,
	}
}
