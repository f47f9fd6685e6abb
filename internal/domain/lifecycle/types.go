package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/provider"
)

// ErrNotRegistered is returned for dispatches reaching an unbound service.
var ErrNotRegistered = errors.New("service is not registered")

// Registration is a live export on a connection.
type Registration interface {
	Unregister() error
}

// Connection is the bus connection services export objects on.
type Connection interface {
	// ExportSubtree serves every child of path through handler.
	ExportSubtree(path string, handler SubtreeHandler) (Registration, error)
	// Export places skeleton at path.
	Export(path string, skeleton provider.Skeleton) (Registration, error)
}

// SubtreeHandler resolves the object served at a child node of a subtree.
type SubtreeHandler interface {
	// Interfaces lists the interfaces every child node implements.
	Interfaces() []string
	// Dispatch returns the skeleton for iface at node, an undecoded segment.
	Dispatch(ctx context.Context, node, iface string) (provider.Skeleton, error)
}

// Hooks is the platform's own registration behaviour, run before the
// service's export on Register and after it is removed on Unregister.
type Hooks interface {
	Register(ctx context.Context, conn Connection, path string) error
	Unregister(conn Connection, path string)
}

// NopHooks does nothing.
type NopHooks struct{}

func (NopHooks) Register(context.Context, Connection, string) error { return nil }
func (NopHooks) Unregister(Connection, string)                      {}

// State represents the registration state of a service
type State int

const (
	StateUnregistered State = iota
	StateRegistered
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateUnregistered:
		return "unregistered"
	case StateRegistered:
		return "registered"
	default:
		return "unknown"
	}
}

// Binding describes an active registration.
type Binding struct {
	ID           string
	Path         string
	Conn         Connection
	RegisteredAt time.Time
}
