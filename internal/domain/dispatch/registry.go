package dispatch

import (
	"context"
	"errors"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/provider"
)

// ErrNilProvider is returned when a factory reports success without a provider.
var ErrNilProvider = errors.New("factory returned nil provider")

// CreateFunc builds the provider for a registry miss.
type CreateFunc func(ctx context.Context) (provider.Provider, error)

// Entry describes a cached provider.
type Entry struct {
	Segment string `json:"segment"`
	AppID   string `json:"app_id"`
}

// Registry caches providers by encoded path segment.
type Registry struct {
	mu       sync.RWMutex
	items    map[string]provider.Provider // Protected by mu
	group    singleflight.Group
	inserted func(size int)
}

type outcome struct {
	provider provider.Provider
	created  bool
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]provider.Provider)}
}

// OnInsert sets a callback run after every insert with the new size. It runs
// under the registry lock, so calls observe sizes in insertion order.
func (r *Registry) OnInsert(fn func(size int)) *Registry {
	r.inserted = fn
	return r
}

// Get returns the cached provider for segment.
func (r *Registry) Get(segment string) (provider.Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[segment]
	return p, ok
}

// GetOrCreate returns the provider cached for segment, running create on a
// miss. Concurrent misses for the same segment share one call to create. The
// construction itself is not cancelled with ctx; ctx only bounds the wait.
// created reports whether the provider was built during this call.
func (r *Registry) GetOrCreate(ctx context.Context, segment string, create CreateFunc) (p provider.Provider, created bool, err error) {
	if p, ok := r.Get(segment); ok {
		return p, false, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := r.group.DoChan(segment, func() (interface{}, error) {
		// Another flight may have finished between the fast path and here.
		if p, ok := r.Get(segment); ok {
			return outcome{provider: p}, nil
		}

		p, err := create(detached)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, ErrNilProvider
		}

		r.mu.Lock()
		r.items[segment] = p
		if r.inserted != nil {
			r.inserted(len(r.items))
		}
		r.mu.Unlock()
		return outcome{provider: p, created: true}, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		out := res.Val.(outcome)
		return out.provider, out.created, nil
	}
}

// Len returns the number of cached providers
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Entries returns the cached providers ordered by segment
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	entries := make([]Entry, 0, len(r.items))
	for segment, p := range r.items {
		entries = append(entries, Entry{Segment: segment, AppID: p.AppID()})
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Segment < entries[j].Segment
	})
	return entries
}
