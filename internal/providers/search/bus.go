package search

import (
	"context"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/infrastructure/bus"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

var methods = []introspect.Method{
	{Name: "GetInitialResultSet", Args: []introspect.Arg{
		{Name: "terms", Type: "as", Direction: "in"},
		{Name: "results", Type: "as", Direction: "out"},
	}},
	{Name: "GetSubsearchResultSet", Args: []introspect.Arg{
		{Name: "previous_results", Type: "as", Direction: "in"},
		{Name: "terms", Type: "as", Direction: "in"},
		{Name: "results", Type: "as", Direction: "out"},
	}},
	{Name: "GetResultMetas", Args: []introspect.Arg{
		{Name: "identifiers", Type: "as", Direction: "in"},
		{Name: "metas", Type: "aa{sv}", Direction: "out"},
	}},
	{Name: "ActivateResult", Args: []introspect.Arg{
		{Name: "identifier", Type: "s", Direction: "in"},
		{Name: "terms", Type: "as", Direction: "in"},
		{Name: "timestamp", Type: "u", Direction: "in"},
	}},
	{Name: "LaunchSearch", Args: []introspect.Arg{
		{Name: "terms", Type: "as", Direction: "in"},
		{Name: "timestamp", Type: "u", Direction: "in"},
	}},
}

// BusInterfaces describes the interfaces of the search family.
func BusInterfaces() []bus.Interface {
	return []bus.Interface{
		{Name: Interface, Methods: methods, Table: table},
		{Name: InterfaceV1, Methods: methods, Table: table},
	}
}

func table(ctx context.Context, resolve bus.Resolver) map[string]interface{} {
	providerFor := func(msg dbus.Message) (*Provider, *dbus.Error) {
		s, derr := bus.Resolve[*Skeleton](resolve, msg)
		if derr != nil {
			return nil, derr
		}
		return s.Provider(), nil
	}

	return map[string]interface{}{
		"GetInitialResultSet": func(msg dbus.Message, terms []string) ([]string, *dbus.Error) {
			p, derr := providerFor(msg)
			if derr != nil {
				return nil, derr
			}
			ids, err := p.Search(ctx, terms)
			return ids, bus.ToError(err)
		},
		"GetSubsearchResultSet": func(msg dbus.Message, _ []string, terms []string) ([]string, *dbus.Error) {
			p, derr := providerFor(msg)
			if derr != nil {
				return nil, derr
			}
			ids, err := p.Search(ctx, terms)
			return ids, bus.ToError(err)
		},
		"GetResultMetas": func(msg dbus.Message, ids []string) ([]map[string]dbus.Variant, *dbus.Error) {
			p, derr := providerFor(msg)
			if derr != nil {
				return nil, derr
			}
			metas := p.Metas(ids)
			out := make([]map[string]dbus.Variant, 0, len(metas))
			for _, m := range metas {
				entry := map[string]dbus.Variant{
					"id":   dbus.MakeVariant(m.ID),
					"name": dbus.MakeVariant(m.Name),
				}
				if m.Description != "" {
					entry["description"] = dbus.MakeVariant(m.Description)
				}
				out = append(out, entry)
			}
			return out, nil
		},
		"ActivateResult": func(msg dbus.Message, id string, terms []string, timestamp uint32) *dbus.Error {
			p, derr := providerFor(msg)
			if derr != nil {
				return derr
			}
			p.Activate(ctx, id, terms, timestamp)
			return nil
		},
		"LaunchSearch": func(msg dbus.Message, terms []string, timestamp uint32) *dbus.Error {
			p, derr := providerFor(msg)
			if derr != nil {
				return derr
			}
			p.Launch(ctx, terms, timestamp)
			return nil
		},
	}
}
