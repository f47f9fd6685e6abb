package discovery

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/content"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/provider"
	"go.uber.org/zap"
)

// FamilyName names the discovery family in logs and metrics.
const FamilyName = "discovery"

// FeedTitleTag marks articles written up for the discovery feed.
const FeedTitleTag = "EknHasDiscoveryFeedTitle"

// Card keys
const (
	KeyTitle            = "title"
	KeySynopsis         = "synopsis"
	KeyLastModifiedDate = "last_modified_date"
	KeyThumbnailURI     = "thumbnail_uri"
	KeyEknID            = "ekn_id"
)

// Card is one feed entry.
type Card map[string]string

// Kind selects which models feed one interface.
type Kind struct {
	Interface string
	Method    string
	Query     content.Query
	// Daily kinds answer a single card that changes once a day.
	Daily bool
}

// Kinds lists every feed served by the family.
var Kinds = []Kind{
	{
		Interface: ContentInterface,
		Method:    "ArticleCardDescriptions",
		Query: content.Query{
			TagsMatchAny: []string{content.ArticleTag},
			TagsMatchAll: []string{FeedTitleTag},
			Limit:        5,
		},
	},
	{
		Interface: QuoteInterface,
		Method:    "GetQuoteOfTheDay",
		Query:     content.Query{TagsMatchAny: []string{"EknQuoteObject"}, Sort: content.SortSequenceNumber},
		Daily:     true,
	},
	{
		Interface: WordInterface,
		Method:    "GetWordOfTheDay",
		Query:     content.Query{TagsMatchAny: []string{"EknWordObject"}, Sort: content.SortSequenceNumber},
		Daily:     true,
	},
	{
		Interface: NewsInterface,
		Method:    "GetRecentNews",
		Query: content.Query{
			TagsMatchAny: []string{content.ArticleTag},
			Sort:         content.SortDate,
			Order:        content.OrderDescending,
			Limit:        5,
		},
	},
	{
		Interface: VideoInterface,
		Method:    "GetVideos",
		Query:     content.Query{TagsMatchAny: []string{"EknVideoObject"}, Limit: 5},
	},
	{
		Interface: ArtworkInterface,
		Method:    "ArtworkCardDescriptions",
		Query:     content.Query{TagsMatchAny: []string{"EknArtworkObject"}, Limit: 5},
	},
}

// Provider answers discovery feed requests for one app.
type Provider struct {
	appID    string
	domain   *content.Domain
	logger   *zap.Logger
	skeleton *Skeleton

	now  func() time.Time
	pick func(n int) int
}

// New creates a provider for domain
func New(domain *content.Domain) *Provider {
	p := &Provider{
		appID:  domain.AppID,
		domain: domain,
		logger: zap.NewNop(),
		now:    time.Now,
		pick:   rand.IntN,
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

// Cards returns the app's shards and the cards of kind. Daily kinds hold at
// most one card, chosen by the day of the year.
func (p *Provider) Cards(ctx context.Context, kind Kind) ([]string, []Card, error) {
	q := kind.Query
	if kind.Daily {
		day, err := p.dailyOffset(ctx, q)
		if err != nil {
			return nil, nil, err
		}
		q.Offset, q.Limit = day, 1
	}

	res, err := p.domain.Query(ctx, q)
	if err != nil {
		return nil, nil, err
	}

	cards := make([]Card, 0, len(res.Models))
	for _, m := range res.Models {
		cards = append(cards, p.card(m))
	}

	p.logger.Debug("Discovery feed query complete",
		zap.String("method", kind.Method),
		zap.Int("cards", len(cards)))
	return p.domain.Shards(), cards, nil
}

// dailyOffset picks the model shown today among those matching q.
func (p *Provider) dailyOffset(ctx context.Context, q content.Query) (int, error) {
	q.Limit, q.Offset = 1, 0
	res, err := p.domain.Query(ctx, q)
	if err != nil {
		return 0, err
	}
	if res.UpperBound == 0 {
		return 0, nil
	}
	return p.now().YearDay() % res.UpperBound, nil
}

// card describes m. A blurb, when the model has any, replaces the title and
// clears the synopsis.
func (p *Provider) card(m content.Model) Card {
	c := Card{
		KeyTitle:            m.Title,
		KeySynopsis:         m.Synopsis,
		KeyLastModifiedDate: m.LastModifiedDate,
		KeyThumbnailURI:     m.ThumbnailURI,
		KeyEknID:            m.ID,
	}
	if len(m.Blurbs) > 0 {
		c[KeyTitle] = m.Blurbs[p.pick(len(m.Blurbs))]
		c[KeySynopsis] = ""
	}
	return c
}

// Skeleton is the bus object of a discovery provider. It serves every feed
// interface of the family.
type Skeleton struct {
	provider *Provider
}

// Interface returns the D-Bus interface name
func (s *Skeleton) Interface() string {
	return ContentInterface
}

// Provider returns the provider behind the skeleton
func (s *Skeleton) Provider() *Provider {
	return s.provider
}
