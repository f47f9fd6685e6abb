package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/provider"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

// Resolver returns the skeleton serving the object a call was sent to.
type Resolver func(msg dbus.Message) (provider.Skeleton, *dbus.Error)

// Interface describes how one D-Bus interface is served.
type Interface struct {
	Name    string
	Methods []introspect.Method
	Signals []introspect.Signal
	// Table builds the method table. Every method takes dbus.Message as its
	// first argument and hands it to resolve to find its skeleton.
	Table func(ctx context.Context, resolve Resolver) map[string]interface{}
}

func (i Interface) introspection() introspect.Interface {
	return introspect.Interface{Name: i.Name, Methods: i.Methods, Signals: i.Signals}
}

// Resolve resolves the skeleton for msg as a T.
func Resolve[T provider.Skeleton](resolve Resolver, msg dbus.Message) (T, *dbus.Error) {
	var zero T
	sk, derr := resolve(msg)
	if derr != nil {
		return zero, derr
	}
	t, ok := sk.(T)
	if !ok {
		return zero, dbus.NewError(ErrNameFailed, []interface{}{
			fmt.Sprintf("object does not serve %s", sk.Interface()),
		})
	}
	return t, nil
}

// Catalog holds the interfaces a connection can export.
type Catalog struct {
	mu     sync.RWMutex
	ifaces map[string]Interface
	order  []string
}

// NewCatalog creates a catalog. It panics on duplicate names, which are a
// programming error at startup.
func NewCatalog(ifaces ...Interface) *Catalog {
	c := &Catalog{ifaces: make(map[string]Interface)}
	for _, iface := range ifaces {
		if err := c.Add(iface); err != nil {
			panic(err)
		}
	}
	return c
}

// Add adds iface to the catalog
func (c *Catalog) Add(iface Interface) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.ifaces[iface.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, iface.Name)
	}
	c.ifaces[iface.Name] = iface
	c.order = append(c.order, iface.Name)
	return nil
}

// Lookup returns the interface named name
func (c *Catalog) Lookup(name string) (Interface, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	iface, ok := c.ifaces[name]
	return iface, ok
}

// Names returns interface names in insertion order
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
