package catalogs

import (
	"fmt"
	"strconv"

	"github.com/agentstation/utc"

	"github.com/agentstation/lucro/pkg/constants"
)

// UnknownTier is rendered when the upstream record carries no tier.
const UnknownTier = "T?"

// Item is one catalog entry as cached locally.
type Item struct {
	ID          string   `json:"id" yaml:"id"`                                       // Stable upstream identifier (UniqueName)
	Name        string   `json:"name" yaml:"name"`                                   // Name in the matching locale, falls back to ID
	NameEN      string   `json:"name_en,omitempty" yaml:"name_en,omitempty"`         // English name, empty when absent upstream
	Tier        string   `json:"tier" yaml:"tier"`                                   // "T4", or "T?" when unknown
	Category    *string  `json:"category" yaml:"category"`                           // Upstream ItemType
	Subcategory *string  `json:"subcategory" yaml:"subcategory"`                     // Upstream ItemGroup
	Enchantment int      `json:"enchantment" yaml:"enchantment"`                     // Defaults to 0
	Quality     *int     `json:"quality,omitempty" yaml:"quality,omitempty"`         // Upstream Quality, when present
	ImageURL    string   `json:"img_url,omitempty" yaml:"img_url,omitempty"`         // Render service icon
	LastUpdated utc.Time `json:"last_updated" yaml:"last_updated"`                   // Refresh wall-clock time
}

// FormatTier renders a numeric tier the way it is cached.
func FormatTier(tier *int) string {
	if tier == nil {
		return UnknownTier
	}
	return "T" + strconv.Itoa(*tier)
}

// ImageURL returns the render service URL for an item id.
func ImageURL(id string) string {
	return fmt.Sprintf(constants.ImageURLTemplate, id)
}

// CategoryName returns the category or "" when unset.
func (i *Item) CategoryName() string {
	if i.Category == nil {
		return ""
	}
	return *i.Category
}

// SubcategoryName returns the subcategory or "" when unset.
func (i *Item) SubcategoryName() string {
	if i.Subcategory == nil {
		return ""
	}
	return *i.Subcategory
}

// Copy returns a deep copy of the item.
func (i *Item) Copy() *Item {
	if i == nil {
		return nil
	}
	c := *i
	if i.Category != nil {
		v := *i.Category
		c.Category = &v
	}
	if i.Subcategory != nil {
		v := *i.Subcategory
		c.Subcategory = &v
	}
	if i.Quality != nil {
		v := *i.Quality
		c.Quality = &v
	}
	return &c
}

// Match is an item scored against a resolver query.
type Match struct {
	Item
	Similarity int `json:"similarity" yaml:"similarity"`
}
