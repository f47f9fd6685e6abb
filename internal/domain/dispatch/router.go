package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/provider"
)

// ErrUnknownInterface is returned for calls on an interface no family serves.
var ErrUnknownInterface = errors.New("no provider family for interface")

// Router routes subtree calls to the dispatcher serving the called interface.
type Router struct {
	dispatchers []*Dispatcher
	byInterface map[string]*Dispatcher
	interfaces  []string
}

// NewRouter creates a router over dispatchers. An interface claimed by more
// than one dispatcher is served by the first.
func NewRouter(dispatchers ...*Dispatcher) *Router {
	r := &Router{byInterface: make(map[string]*Dispatcher)}
	for _, d := range dispatchers {
		r.dispatchers = append(r.dispatchers, d)
		for _, iface := range d.Family().Interfaces {
			if _, ok := r.byInterface[iface]; ok {
				continue
			}
			r.byInterface[iface] = d
			r.interfaces = append(r.interfaces, iface)
		}
	}
	return r
}

// Interfaces returns every interface served under the subtree, in
// registration order.
func (r *Router) Interfaces() []string {
	out := make([]string, len(r.interfaces))
	copy(out, r.interfaces)
	return out
}

// Dispatch returns the skeleton exported at node for iface.
func (r *Router) Dispatch(ctx context.Context, node, iface string) (provider.Skeleton, error) {
	d, ok := r.byInterface[iface]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownInterface, iface)
	}
	return d.Dispatch(ctx, node)
}

// Dispatchers returns the dispatchers in registration order
func (r *Router) Dispatchers() []*Dispatcher {
	out := make([]*Dispatcher, len(r.dispatchers))
	copy(out, r.dispatchers)
	return out
}
