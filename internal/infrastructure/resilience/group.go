package resilience

import (
	"sync"
	"time"
)

// Group keeps one breaker per target, created on first use
type Group struct {
	settings Settings
	now      func() time.Time

	mu       sync.Mutex
	breakers map[string]*Breaker
}

// NewGroup creates an empty group whose breakers share settings
func NewGroup(settings Settings) *Group {
	return &Group{
		settings: settings.withDefaults(),
		now:      time.Now,
		breakers: make(map[string]*Breaker),
	}
}

// Get returns the breaker for name
func (g *Group) Get(name string) *Breaker {
	g.mu.Lock()
	defer g.mu.Unlock()

	b, ok := g.breakers[name]
	if !ok {
		b = NewBreaker(name, g.settings)
		b.now = g.now
		g.breakers[name] = b
	}
	return b
}

// Do runs fn through the breaker for name
func (g *Group) Do(name string, fn func() error) error {
	return g.Get(name).Do(fn)
}

// States returns the state of every breaker, by name
func (g *Group) States() map[string]State {
	g.mu.Lock()
	breakers := make([]*Breaker, 0, len(g.breakers))
	for _, b := range g.breakers {
		breakers = append(breakers, b)
	}
	g.mu.Unlock()

	out := make(map[string]State, len(breakers))
	for _, b := range breakers {
		out[b.Name()] = b.State()
	}
	return out
}
