package content

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/provider"
	"golang.org/x/text/cases"
)

// Sort selects the ordering of query results.
type Sort string

const (
	SortRelevance      Sort = "relevance"
	SortSequenceNumber Sort = "sequence-number"
	SortDate           Sort = "date"
)

// Order selects the direction of the sort.
type Order string

const (
	OrderAscending  Order = "ascending"
	OrderDescending Order = "descending"
)

// ParseSort returns the sort named s.
func ParseSort(s string) (Sort, error) {
	switch Sort(s) {
	case SortRelevance, SortSequenceNumber, SortDate:
		return Sort(s), nil
	}
	return "", fmt.Errorf("%w: unknown sort %q", provider.ErrInvalidRequest, s)
}

// ParseOrder returns the order named s.
func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case OrderAscending, OrderDescending:
		return Order(s), nil
	}
	return "", fmt.Errorf("%w: unknown order %q", provider.ErrInvalidRequest, s)
}

// Query selects models of a domain.
type Query struct {
	Terms        string
	TagsMatchAny []string
	TagsMatchAll []string
	// Limit caps the number of models returned; zero means no cap.
	Limit  int
	Offset int
	Sort   Sort
	Order  Order
}

// Results is the outcome of a query.
type Results struct {
	Models []Model
	// UpperBound counts every matching model, ignoring limit and offset.
	UpperBound int
}

// Domain is the loaded content of one app. It is immutable.
type Domain struct {
	AppID    string
	Dir      string
	Manifest string
	Version  int
	Title    string

	models []Model
	index  map[string]int
	folded []string
	shards []string
}

// Shards returns the shard file paths of the app.
func (d *Domain) Shards() []string {
	out := make([]string, len(d.shards))
	copy(out, d.shards)
	return out
}

// Len returns the number of models.
func (d *Domain) Len() int {
	return len(d.models)
}

// Model returns the model with id.
func (d *Domain) Model(id string) (Model, bool) {
	i, ok := d.index[id]
	if !ok {
		return Model{}, false
	}
	return d.models[i], true
}

type match struct {
	pos   int
	score int
}

// Query returns the models matching q.
func (d *Domain) Query(ctx context.Context, q Query) (*Results, error) {
	if q.Limit < 0 || q.Offset < 0 {
		return nil, fmt.Errorf("%w: negative limit or offset", provider.ErrInvalidRequest)
	}
	terms := strings.Fields(fold(q.Terms))

	matches := make([]match, 0, len(d.models))
	for i, m := range d.models {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if !matchesTags(m, q.TagsMatchAny, q.TagsMatchAll) {
			continue
		}
		score, ok := d.score(i, terms)
		if !ok {
			continue
		}
		matches = append(matches, match{pos: i, score: score})
	}

	d.sort(matches, q.Sort, q.Order)

	res := &Results{UpperBound: len(matches), Models: []Model{}}
	if q.Offset >= len(matches) {
		return res, nil
	}
	matches = matches[q.Offset:]
	if q.Limit > 0 && len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}
	for _, mt := range matches {
		res.Models = append(res.Models, d.models[mt.pos])
	}
	return res, nil
}

// score counts term hits on model i, titles weighing double. Every term
// must hit.
func (d *Domain) score(i int, terms []string) (int, bool) {
	if len(terms) == 0 {
		return 0, true
	}
	m := d.models[i]
	title := fold(m.Title + "\n" + m.OriginalTitle)
	total := 0
	for _, term := range terms {
		hits := strings.Count(d.folded[i], term)
		if hits == 0 {
			return 0, false
		}
		total += hits + strings.Count(title, term)
	}
	return total, true
}

func (d *Domain) sort(matches []match, by Sort, order Order) {
	less := func(a, b match) bool { return a.pos < b.pos }
	switch by {
	case SortSequenceNumber:
		less = func(a, b match) bool {
			return d.models[a.pos].SequenceNumber < d.models[b.pos].SequenceNumber
		}
	case SortDate:
		less = func(a, b match) bool {
			return d.models[a.pos].LastModifiedDate < d.models[b.pos].LastModifiedDate
		}
	case SortRelevance, "":
		less = func(a, b match) bool { return a.score > b.score }
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if order == OrderDescending {
			return less(matches[j], matches[i])
		}
		return less(matches[i], matches[j])
	})
}

// fold case-folds s. Casers are stateful, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

func matchesTags(m Model, anyOf, allOf []string) bool {
	for _, tag := range allOf {
		if !m.HasTag(tag) {
			return false
		}
	}
	if len(anyOf) == 0 {
		return true
	}
	for _, tag := range anyOf {
		if m.HasTag(tag) {
			return true
		}
	}
	return false
}
