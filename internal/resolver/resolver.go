// Package resolver finds catalog items by fuzzy name match.
//
// A Resolver works on a point-in-time copy of the catalog taken at
// construction and never touches the network or disk. Rebuild it after a
// refresh to see new items.
package resolver

import (
	"sort"
	"strings"

	"github.com/agentstation/lucro/internal/fuzzy"
	"github.com/agentstation/lucro/pkg/catalogs"
	"github.com/agentstation/lucro/pkg/constants"
)

// IDFilter selects item ids; matcher.Matcher and matcher.Any satisfy it.
type IDFilter interface {
	Match(id string) bool
}

// Resolver scores queries against a fixed set of items.
type Resolver struct {
	entries []entry
	byID    map[string]*catalogs.Item
	scorer  *fuzzy.Scorer
}

type entry struct {
	item   *catalogs.Item
	folded string
}

// New copies items and prepares them for searching. A nil items yields an
// empty resolver.
func New(items *catalogs.Items) *Resolver {
	r := &Resolver{
		byID:   make(map[string]*catalogs.Item),
		scorer: fuzzy.New(),
	}
	if items == nil {
		return r
	}

	list := items.Copy().List()
	r.entries = make([]entry, 0, len(list))
	for _, item := range list {
		r.entries = append(r.entries, entry{item: item, folded: fuzzy.Fold(item.Name)})
		r.byID[item.ID] = item
	}
	return r
}

// Len returns the number of searchable items.
func (r *Resolver) Len() int {
	return len(r.entries)
}

// Lookup returns a copy of the item with the exact id.
func (r *Resolver) Lookup(id string) (*catalogs.Item, bool) {
	item, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return item.Copy(), true
}

// SearchOptions holds the knobs of a Search.
type SearchOptions struct {
	Threshold int
	Limit     int
	Tier      string
	Category  string
	IDs       IDFilter
}

// SearchOption configures a Search.
type SearchOption func(*SearchOptions)

// WithThreshold sets the score a match must strictly exceed.
func WithThreshold(threshold int) SearchOption {
	return func(o *SearchOptions) {
		o.Threshold = threshold
	}
}

// WithLimit caps the number of results.
func WithLimit(limit int) SearchOption {
	return func(o *SearchOptions) {
		o.Limit = limit
	}
}

// WithTier keeps only items of the tier, e.g. "T4". Case-insensitive.
func WithTier(tier string) SearchOption {
	return func(o *SearchOptions) {
		o.Tier = strings.TrimSpace(tier)
	}
}

// WithCategory keeps only items of the category. Case-insensitive.
func WithCategory(category string) SearchOption {
	return func(o *SearchOptions) {
		o.Category = strings.TrimSpace(category)
	}
}

// WithIDFilter keeps only items whose id the filter matches.
func WithIDFilter(filter IDFilter) SearchOption {
	return func(o *SearchOptions) {
		o.IDs = filter
	}
}

// DefaultSearchOptions returns threshold 70 and limit 10 with no filters.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Threshold: constants.DefaultThreshold,
		Limit:     constants.DefaultLimit,
	}
}

// Search scores every item name against query and returns the matches
// scoring above the threshold, best first. Equal scores keep catalog
// order. At most Limit matches are returned.
func (r *Resolver) Search(query string, opts ...SearchOption) []catalogs.Match {
	o := DefaultSearchOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Limit <= 0 {
		return []catalogs.Match{}
	}

	folded := fuzzy.Fold(query)
	matches := make([]catalogs.Match, 0)
	for _, e := range r.entries {
		if !o.keep(e.item) {
			continue
		}
		score := r.scorer.RatioFolded(folded, e.folded)
		if score <= o.Threshold {
			continue
		}
		matches = append(matches, catalogs.Match{Item: *e.item.Copy(), Similarity: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > o.Limit {
		matches = matches[:o.Limit]
	}
	return matches
}

func (o *SearchOptions) keep(item *catalogs.Item) bool {
	if o.Tier != "" && !strings.EqualFold(item.Tier, o.Tier) {
		return false
	}
	if o.Category != "" && !strings.EqualFold(item.CategoryName(), o.Category) {
		return false
	}
	if o.IDs != nil && !o.IDs.Match(item.ID) {
		return false
	}
	return true
}
