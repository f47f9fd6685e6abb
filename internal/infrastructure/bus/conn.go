package bus

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/lifecycle"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/provider"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/shared/buslabel"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"go.uber.org/zap"
)

// Exporter is the part of *dbus.Conn used to place method tables.
type Exporter interface {
	ExportMethodTable(methods map[string]interface{}, path dbus.ObjectPath, iface string) error
	ExportSubtreeMethodTable(methods map[string]interface{}, path dbus.ObjectPath, iface string) error
}

// Connect opens the bus named by busType.
func Connect(busType string) (*dbus.Conn, error) {
	switch busType {
	case config.BusSystem:
		return dbus.ConnectSystemBus()
	case config.BusSession, "":
		return dbus.ConnectSessionBus()
	}
	return nil, fmt.Errorf("unknown bus type %q", busType)
}

// Conn exports services on a bus connection.
type Conn struct {
	exp     Exporter
	catalog *Catalog
	ctx     context.Context
	logger  *zap.Logger
}

// NewConn creates a connection adapter. ctx bounds every call served.
func NewConn(ctx context.Context, exp Exporter, catalog *Catalog) *Conn {
	return &Conn{
		exp:     exp,
		catalog: catalog,
		ctx:     ctx,
		logger:  zap.NewNop(),
	}
}

// WithLogger sets the logger
func (c *Conn) WithLogger(logger *zap.Logger) *Conn {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// ExportSubtree serves every child of path through handler.
func (c *Conn) ExportSubtree(path string, handler lifecycle.SubtreeHandler) (lifecycle.Registration, error) {
	root := dbus.ObjectPath(path)
	if !root.IsValid() {
		return nil, fmt.Errorf("invalid object path %q", path)
	}

	ifaces := make([]Interface, 0, len(handler.Interfaces()))
	for _, name := range handler.Interfaces() {
		iface, ok := c.catalog.Lookup(name)
		if !ok {
			return nil, c.unknownInterface(name)
		}
		ifaces = append(ifaces, iface)
	}

	reg := &registration{exp: c.exp, path: root, subtree: true}
	for _, iface := range ifaces {
		name := iface.Name
		resolve := func(msg dbus.Message) (provider.Skeleton, *dbus.Error) {
			target, _ := msgPath(msg)
			node, ok := childNode(path, target)
			if !ok {
				return nil, unknownObject(target)
			}
			sk, err := handler.Dispatch(c.ctx, node, name)
			if err != nil {
				c.logger.Debug("Dispatch refused",
					zap.String("path", string(target)),
					zap.String("interface", name),
					zap.Error(err))
				return nil, ToError(err)
			}
			return sk, nil
		}
		if err := c.exp.ExportSubtreeMethodTable(iface.Table(c.ctx, resolve), root, name); err != nil {
			c.rollback(reg)
			return nil, fmt.Errorf("export %s at %s: %w", name, path, err)
		}
		reg.ifaces = append(reg.ifaces, name)
	}

	introspectTable := map[string]interface{}{
		"Introspect": func(msg dbus.Message) (string, *dbus.Error) {
			target, _ := msgPath(msg)
			if target == root {
				return introspectXML(nil), nil
			}
			if _, ok := childNode(path, target); ok {
				return introspectXML(ifaces), nil
			}
			return introspectXML(nil), nil
		},
	}
	if err := c.exp.ExportSubtreeMethodTable(introspectTable, root, introspect.IntrospectData.Name); err != nil {
		c.rollback(reg)
		return nil, fmt.Errorf("export introspection at %s: %w", path, err)
	}
	reg.ifaces = append(reg.ifaces, introspect.IntrospectData.Name)

	c.logger.Info("Exported subtree",
		zap.String("path", path),
		zap.Strings("interfaces", handler.Interfaces()))
	return reg, nil
}

// Export places skeleton at path.
func (c *Conn) Export(path string, skeleton provider.Skeleton) (lifecycle.Registration, error) {
	target := dbus.ObjectPath(path)
	if !target.IsValid() {
		return nil, fmt.Errorf("invalid object path %q", path)
	}

	iface, ok := c.catalog.Lookup(skeleton.Interface())
	if !ok {
		return nil, c.unknownInterface(skeleton.Interface())
	}

	resolve := func(dbus.Message) (provider.Skeleton, *dbus.Error) {
		return skeleton, nil
	}

	reg := &registration{exp: c.exp, path: target}
	if err := c.exp.ExportMethodTable(iface.Table(c.ctx, resolve), target, iface.Name); err != nil {
		return nil, fmt.Errorf("export %s at %s: %w", iface.Name, path, err)
	}
	reg.ifaces = append(reg.ifaces, iface.Name)

	introspectTable := map[string]interface{}{
		"Introspect": func(dbus.Message) (string, *dbus.Error) {
			return introspectXML([]Interface{iface}), nil
		},
	}
	if err := c.exp.ExportMethodTable(introspectTable, target, introspect.IntrospectData.Name); err != nil {
		c.rollback(reg)
		return nil, fmt.Errorf("export introspection at %s: %w", path, err)
	}
	reg.ifaces = append(reg.ifaces, introspect.IntrospectData.Name)

	c.logger.Info("Exported object",
		zap.String("path", path),
		zap.String("interface", iface.Name))
	return reg, nil
}

func (c *Conn) unknownInterface(name string) error {
	return fmt.Errorf("%w: %s (catalog has %s)", ErrUnknownInterface, name, strings.Join(c.catalog.Names(), ", "))
}

func (c *Conn) rollback(reg *registration) {
	if err := reg.Unregister(); err != nil {
		c.logger.Warn("Rollback of partial export failed",
			zap.String("path", string(reg.path)),
			zap.Error(err))
	}
}

// registration removes exported tables by exporting nil in their place.
type registration struct {
	exp     Exporter
	path    dbus.ObjectPath
	subtree bool
	ifaces  []string

	once sync.Once
	err  error
}

func (r *registration) Unregister() error {
	r.once.Do(func() {
		var errs []error
		for _, name := range r.ifaces {
			var err error
			if r.subtree {
				err = r.exp.ExportSubtreeMethodTable(nil, r.path, name)
			} else {
				err = r.exp.ExportMethodTable(nil, r.path, name)
			}
			if err != nil {
				errs = append(errs, fmt.Errorf("unexport %s: %w", name, err))
			}
		}
		r.err = errors.Join(errs...)
	})
	return r.err
}

func msgPath(msg dbus.Message) (dbus.ObjectPath, bool) {
	v, ok := msg.Headers[dbus.FieldPath]
	if !ok {
		return "", false
	}
	p, ok := v.Value().(dbus.ObjectPath)
	return p, ok
}

// childNode returns the segment of target when it is a direct child of root.
func childNode(root string, target dbus.ObjectPath) (string, bool) {
	node, ok := buslabel.Node(root, string(target))
	if !ok {
		return "", false
	}
	return node, strings.TrimSuffix(root, "/")+"/"+node == string(target)
}

func introspectXML(ifaces []Interface) string {
	node := introspect.Node{}
	for _, iface := range ifaces {
		node.Interfaces = append(node.Interfaces, iface.introspection())
	}
	node.Interfaces = append(node.Interfaces, introspect.IntrospectData)

	out, err := xml.MarshalIndent(node, "", "  ")
	if err != nil {
		return introspect.IntrospectDeclarationString + "<node/>"
	}
	return introspect.IntrospectDeclarationString + string(out)
}
