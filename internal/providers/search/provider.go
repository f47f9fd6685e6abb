package search

import (
	"context"
	"strings"
	"sync"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/content"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/provider"
	"go.uber.org/zap"
)

// D-Bus interfaces served by the search family
const (
	Interface   = "org.gnome.Shell.SearchProvider2"
	InterfaceV1 = "org.gnome.Shell.SearchProvider"
)

// FamilyName names the search family in logs and metrics.
const FamilyName = "search"

// Launcher opens items and queries in the knowledge app.
type Launcher interface {
	LoadItem(ctx context.Context, appID, id, query string, timestamp uint32) error
	LoadQuery(ctx context.Context, appID, query string, timestamp uint32) error
}

// Options tunes result sets.
type Options struct {
	ResultsLimit   int
	MaxDescription int
}

// DefaultOptions returns the shell's expected limits.
func DefaultOptions() Options {
	return Options{ResultsLimit: 5, MaxDescription: 200}
}

// Meta describes one result for display.
type Meta struct {
	ID          string
	Name        string
	Description string
}

// Provider serves searches for one app.
type Provider struct {
	appID    string
	domain   *content.Domain
	launcher Launcher
	opts     Options
	logger   *zap.Logger
	skeleton *Skeleton

	mu     sync.Mutex
	cancel context.CancelFunc       // Protected by mu
	seen   map[string]content.Model // Protected by mu; latest result set only
}

// New creates a provider for domain
func New(domain *content.Domain, launcher Launcher, opts Options) *Provider {
	p := &Provider{
		appID:    domain.AppID,
		domain:   domain,
		launcher: launcher,
		opts:     opts,
		logger:   zap.NewNop(),
		seen:     make(map[string]content.Model),
	}
	p.skeleton = &Skeleton{provider: p}
	return p
}

// WithLogger sets the logger
func (p *Provider) WithLogger(logger *zap.Logger) *Provider {
	if logger != nil {
		p.logger = logger.With(zap.String("app_id", p.appID))
	}
	return p
}

// AppID returns the app the provider serves
func (p *Provider) AppID() string {
	return p.appID
}

// Skeleton returns the exported object
func (p *Provider) Skeleton() provider.Skeleton {
	return p.skeleton
}

// Search runs terms against the app's articles, cancelling any search
// still running on this provider.
func (p *Provider) Search(ctx context.Context, terms []string) ([]string, error) {
	query := strings.TrimSpace(strings.Join(terms, " "))

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	if query == "" {
		p.seen = make(map[string]content.Model)
		p.mu.Unlock()
		return []string{}, nil
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()
	defer cancel()

	res, err := p.domain.Query(ctx, content.Query{
		Terms:        query,
		Limit:        p.opts.ResultsLimit,
		TagsMatchAny: []string{content.ArticleTag},
	})
	if err != nil {
		p.logger.Debug("Search failed", zap.String("query", query), zap.Error(err))
		return nil, err
	}

	ids := make([]string, 0, len(res.Models))
	seen := make(map[string]content.Model, len(res.Models))
	for _, m := range res.Models {
		seen[m.ID] = m
		ids = append(ids, m.ID)
	}

	p.mu.Lock()
	// A newer search has cancelled this one and owns the result set.
	if err := ctx.Err(); err != nil {
		p.mu.Unlock()
		return nil, err
	}
	p.seen = seen
	p.mu.Unlock()

	p.logger.Debug("Search complete",
		zap.String("query", query),
		zap.Int("results", len(ids)),
		zap.Int("upper_bound", res.UpperBound))
	return ids, nil
}

// Metas describes ids returned by the latest search. Unknown ids are skipped.
func (p *Provider) Metas(ids []string) []Meta {
	p.mu.Lock()
	defer p.mu.Unlock()

	metas := make([]Meta, 0, len(ids))
	for _, id := range ids {
		m, ok := p.seen[id]
		if !ok {
			continue
		}
		metas = append(metas, Meta{
			ID:          id,
			Name:        m.DisplayTitle(),
			Description: truncate(m.Synopsis, p.opts.MaxDescription),
		})
	}
	return metas
}

// Activate opens result id in the app. Failures are logged, not returned,
// since the shell has nothing to show for them.
func (p *Provider) Activate(ctx context.Context, id string, terms []string, timestamp uint32) {
	query := strings.Join(terms, " ")
	if err := p.launcher.LoadItem(ctx, p.appID, id, query, timestamp); err != nil {
		p.logger.Warn("Error activating result", zap.String("id", id), zap.Error(err))
	}
}

// Launch opens the app on the results for terms. Failures are logged.
func (p *Provider) Launch(ctx context.Context, terms []string, timestamp uint32) {
	query := strings.Join(terms, " ")
	if err := p.launcher.LoadQuery(ctx, p.appID, query, timestamp); err != nil {
		p.logger.Warn("Error launching search", zap.String("query", query), zap.Error(err))
	}
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Skeleton is the bus object of a search provider.
type Skeleton struct {
	provider *Provider
}

// Interface returns the D-Bus interface name
func (s *Skeleton) Interface() string {
	return Interface
}

// Provider returns the provider behind the skeleton
func (s *Skeleton) Provider() *Provider {
	return s.provider
}
