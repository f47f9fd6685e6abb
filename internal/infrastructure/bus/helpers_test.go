package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/provider"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

type tableKey struct {
	path    dbus.ObjectPath
	iface   string
	subtree bool
}

// fakeExporter records exported method tables.
type fakeExporter struct {
	mu     sync.Mutex
	tables map[tableKey]map[string]interface{}
	failOn string
}

func newFakeExporter() *fakeExporter {
	return &fakeExporter{tables: make(map[tableKey]map[string]interface{})}
}

func (f *fakeExporter) export(methods map[string]interface{}, path dbus.ObjectPath, iface string, subtree bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if iface == f.failOn && methods != nil {
		return fmt.Errorf("export refused")
	}
	key := tableKey{path: path, iface: iface, subtree: subtree}
	if methods == nil {
		delete(f.tables, key)
		return nil
	}
	f.tables[key] = methods
	return nil
}

func (f *fakeExporter) ExportMethodTable(methods map[string]interface{}, path dbus.ObjectPath, iface string) error {
	return f.export(methods, path, iface, false)
}

func (f *fakeExporter) ExportSubtreeMethodTable(methods map[string]interface{}, path dbus.ObjectPath, iface string) error {
	return f.export(methods, path, iface, true)
}

func (f *fakeExporter) table(path dbus.ObjectPath, iface string, subtree bool) map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tables[tableKey{path: path, iface: iface, subtree: subtree}]
}

func (f *fakeExporter) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tables)
}

const pingInterface = "org.example.Ping"

type pingSkeleton struct {
	appID string
}

func (s *pingSkeleton) Interface() string { return pingInterface }

type otherSkeleton struct{}

func (otherSkeleton) Interface() string { return "org.example.Other" }

func pingIface() Interface {
	return Interface{
		Name: pingInterface,
		Methods: []introspect.Method{
			{Name: "Ping", Args: []introspect.Arg{{Name: "app", Type: "s", Direction: "out"}}},
		},
		Table: func(ctx context.Context, resolve Resolver) map[string]interface{} {
			return map[string]interface{}{
				"Ping": func(msg dbus.Message) (string, *dbus.Error) {
					s, derr := Resolve[*pingSkeleton](resolve, msg)
					if derr != nil {
						return "", derr
					}
					return s.appID, nil
				},
			}
		},
	}
}

// fakeHandler serves a pingSkeleton per node.
type fakeHandler struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (h *fakeHandler) Interfaces() []string { return []string{pingInterface} }

func (h *fakeHandler) Dispatch(_ context.Context, node, iface string) (provider.Skeleton, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, node+"|"+iface)
	if h.err != nil {
		return nil, h.err
	}
	return &pingSkeleton{appID: node}, nil
}

func message(path string) dbus.Message {
	return dbus.Message{
		Headers: map[dbus.HeaderField]dbus.Variant{
			dbus.FieldPath: dbus.MakeVariant(dbus.ObjectPath(path)),
		},
	}
}

func ping(table map[string]interface{}, path string) (string, *dbus.Error) {
	return table["Ping"].(func(dbus.Message) (string, *dbus.Error))(message(path))
}

func introspectAt(table map[string]interface{}, path string) string {
	out, _ := table["Introspect"].(func(dbus.Message) (string, *dbus.Error))(message(path))
	return out
}
