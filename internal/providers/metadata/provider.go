package metadata

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/content"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/provider"
	"go.uber.org/zap"
)

// Interface is the D-Bus interface served by the metadata family.
const Interface = "com.endlessm.ContentMetadata"

// FamilyName names the metadata family in logs and metrics.
const FamilyName = "metadata"

// Result is the answer to one query.
type Result struct {
	// Info carries upper_bound.
	Info   map[string]interface{}
	Models []map[string]interface{}
}

// Provider answers metadata queries for one app.
type Provider struct {
	appID    string
	domain   *content.Domain
	logger   *zap.Logger
	skeleton *Skeleton
}

// New creates a provider for domain
func New(domain *content.Domain) *Provider {
	p := &Provider{
		appID:  domain.AppID,
		domain: domain,
		logger: zap.NewNop(),
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

// Query runs queries, which must hold exactly one entry, and returns the
// app's shards with the results.
func (p *Provider) Query(ctx context.Context, queries []map[string]interface{}) ([]string, []Result, error) {
	if len(queries) != 1 {
		return nil, nil, fmt.Errorf("can only perform one query, not %d", len(queries))
	}

	q, err := ParseQuery(queries[0])
	if err != nil {
		return nil, nil, err
	}

	res, err := p.domain.Query(ctx, q)
	if err != nil {
		return nil, nil, err
	}

	models := make([]map[string]interface{}, 0, len(res.Models))
	for _, m := range res.Models {
		models = append(models, m.Fields())
	}

	p.logger.Debug("Metadata query complete",
		zap.String("terms", q.Terms),
		zap.Int("results", len(models)),
		zap.Int("upper_bound", res.UpperBound))

	return p.domain.Shards(), []Result{{
		Info:   map[string]interface{}{"upper_bound": int32(res.UpperBound)},
		Models: models,
	}}, nil
}

// Shards returns the app's shard paths
func (p *Provider) Shards() []string {
	return p.domain.Shards()
}

// Skeleton is the bus object of a metadata provider.
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
