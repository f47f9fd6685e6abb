package discovery

import (
	"context"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/infrastructure/bus"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

// D-Bus interfaces served by the discovery family
const (
	ContentInterface = "com.endlessm.DiscoveryFeedContent"
	QuoteInterface   = "com.endlessm.DiscoveryFeedQuote"
	WordInterface    = "com.endlessm.DiscoveryFeedWord"
	NewsInterface    = "com.endlessm.DiscoveryFeedNews"
	VideoInterface   = "com.endlessm.DiscoveryFeedVideo"
	ArtworkInterface = "com.endlessm.DiscoveryFeedArtwork"
)

// Interfaces lists the discovery interfaces in the order they are exported.
func Interfaces() []string {
	out := make([]string, 0, len(Kinds))
	for _, k := range Kinds {
		out = append(out, k.Interface)
	}
	return out
}

// BusInterfaces describes the interfaces of the discovery family.
func BusInterfaces() []bus.Interface {
	out := make([]bus.Interface, 0, len(Kinds))
	for _, k := range Kinds {
		k := k
		resultType := "aa{ss}"
		if k.Daily {
			resultType = "a{ss}"
		}
		out = append(out, bus.Interface{
			Name: k.Interface,
			Methods: []introspect.Method{{Name: k.Method, Args: []introspect.Arg{
				{Name: "Shards", Type: "as", Direction: "out"},
				{Name: "Result", Type: resultType, Direction: "out"},
			}}},
			Table: func(ctx context.Context, resolve bus.Resolver) map[string]interface{} {
				return table(ctx, resolve, k)
			},
		})
	}
	return out
}

func table(ctx context.Context, resolve bus.Resolver, kind Kind) map[string]interface{} {
	cards := func(msg dbus.Message) ([]string, []map[string]string, *dbus.Error) {
		s, derr := bus.Resolve[*Skeleton](resolve, msg)
		if derr != nil {
			return nil, nil, derr
		}
		shards, cards, err := s.Provider().Cards(ctx, kind)
		if err != nil {
			return nil, nil, bus.ToError(err)
		}
		out := make([]map[string]string, 0, len(cards))
		for _, c := range cards {
			out = append(out, c)
		}
		return shards, out, nil
	}

	if kind.Daily {
		return map[string]interface{}{
			kind.Method: func(msg dbus.Message) ([]string, map[string]string, *dbus.Error) {
				shards, out, derr := cards(msg)
				if derr != nil {
					return nil, nil, derr
				}
				if len(out) == 0 {
					return shards, map[string]string{}, nil
				}
				return shards, out[0], nil
			},
		}
	}
	return map[string]interface{}{
		kind.Method: cards,
	}
}
