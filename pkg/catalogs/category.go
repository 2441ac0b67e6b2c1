package catalogs

import "maps"

// CategoryIndex maps item id to category. It is a denormalized view of
// Items and can always be regenerated with DeriveCategoryIndex.
type CategoryIndex map[string]string

// DeriveCategoryIndex builds the index from items, skipping items without a category.
func DeriveCategoryIndex(items *Items) CategoryIndex {
	index := make(CategoryIndex)
	if items == nil {
		return index
	}
	for _, item := range items.List() {
		if name := item.CategoryName(); name != "" {
			index[item.ID] = name
		}
	}
	return index
}

// Equal reports whether both indexes hold the same entries.
func (c CategoryIndex) Equal(other CategoryIndex) bool {
	return maps.Equal(c, other)
}

// Copy returns a copy of the index. A nil index copies to an empty one.
func (c CategoryIndex) Copy() CategoryIndex {
	out := make(CategoryIndex, len(c))
	maps.Copy(out, c)
	return out
}

// Categories returns the distinct category names with their item counts.
func (c CategoryIndex) Categories() map[string]int {
	counts := make(map[string]int)
	for _, name := range c {
		counts[name]++
	}
	return counts
}
