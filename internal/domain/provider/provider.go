package provider

import "context"

// Skeleton is the object placed on the bus for a provider.
type Skeleton interface {
	// Interface returns the D-Bus interface the skeleton implements.
	Interface() string
}

// Provider is a stateful backend bound to a single application id.
type Provider interface {
	AppID() string
	Skeleton() Skeleton
}

// Factory builds a provider for an application id.
type Factory interface {
	Create(ctx context.Context, appID string) (Provider, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(ctx context.Context, appID string) (Provider, error)

// Create calls f.
func (f FactoryFunc) Create(ctx context.Context, appID string) (Provider, error) {
	return f(ctx, appID)
}

// Family groups the interfaces served by one kind of provider.
type Family struct {
	Name       string
	Interfaces []string
	Factory    Factory
}
