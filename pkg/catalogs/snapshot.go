package catalogs

import "github.com/agentstation/utc"

// Snapshot is the locally cached catalog: the items, their derived
// category index and the time of the refresh that produced them.
// A snapshot is replaced as a whole, never edited.
type Snapshot struct {
	Items       *Items
	Categories  CategoryIndex
	RefreshedAt utc.Time
}

// NewSnapshot builds a snapshot from items, deriving the category index.
func NewSnapshot(items *Items, refreshedAt utc.Time) *Snapshot {
	if items == nil {
		items = NewItems()
	}
	return &Snapshot{
		Items:       items,
		Categories:  DeriveCategoryIndex(items),
		RefreshedAt: refreshedAt,
	}
}

// EmptySnapshot returns a snapshot with no items and no categories.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Items:      NewItems(),
		Categories: make(CategoryIndex),
	}
}

// IsEmpty reports whether the snapshot holds no items.
func (s *Snapshot) IsEmpty() bool {
	return s == nil || s.Items == nil || s.Items.Len() == 0
}

// CategoriesConsistent reports whether the stored index matches the one
// derived from the items.
func (s *Snapshot) CategoriesConsistent() bool {
	return s.Categories.Equal(DeriveCategoryIndex(s.Items))
}

// Rederive replaces the category index with one derived from the items.
func (s *Snapshot) Rederive() {
	s.Categories = DeriveCategoryIndex(s.Items)
}
