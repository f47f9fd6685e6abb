package metadata

import (
	"context"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/infrastructure/bus"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

// wireResult is the (a{sv}aa{sv}) struct of a query result.
type wireResult struct {
	Info   map[string]dbus.Variant
	Models []map[string]dbus.Variant
}

var methods = []introspect.Method{
	{Name: "Query", Args: []introspect.Arg{
		{Name: "queries", Type: "aa{sv}", Direction: "in"},
		{Name: "shards", Type: "as", Direction: "out"},
		{Name: "results", Type: "a(a{sv}aa{sv})", Direction: "out"},
	}},
	{Name: "Shards", Args: []introspect.Arg{
		{Name: "shards", Type: "as", Direction: "out"},
	}},
}

// BusInterface describes the ContentMetadata interface.
func BusInterface() bus.Interface {
	return bus.Interface{Name: Interface, Methods: methods, Table: table}
}

func table(ctx context.Context, resolve bus.Resolver) map[string]interface{} {
	return map[string]interface{}{
		"Query": func(msg dbus.Message, queries []map[string]dbus.Variant) ([]string, []wireResult, *dbus.Error) {
			s, derr := bus.Resolve[*Skeleton](resolve, msg)
			if derr != nil {
				return nil, nil, derr
			}

			params := make([]map[string]interface{}, 0, len(queries))
			for _, q := range queries {
				params = append(params, fromVariants(q))
			}

			shards, results, err := s.Provider().Query(ctx, params)
			if err != nil {
				return nil, nil, bus.ToError(err)
			}

			out := make([]wireResult, 0, len(results))
			for _, r := range results {
				wr := wireResult{Info: toVariants(r.Info), Models: make([]map[string]dbus.Variant, 0, len(r.Models))}
				for _, m := range r.Models {
					wr.Models = append(wr.Models, toVariants(m))
				}
				out = append(out, wr)
			}
			return shards, out, nil
		},
		"Shards": func(msg dbus.Message) ([]string, *dbus.Error) {
			s, derr := bus.Resolve[*Skeleton](resolve, msg)
			if derr != nil {
				return nil, derr
			}
			return s.Provider().Shards(), nil
		},
	}
}

func fromVariants(in map[string]dbus.Variant) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v.Value()
	}
	return out
}

func toVariants(in map[string]interface{}) map[string]dbus.Variant {
	out := make(map[string]dbus.Variant, len(in))
	for k, v := range in {
		out[k] = dbus.MakeVariant(v)
	}
	return out
}
