package catalogs

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func testItem(id, name, category string) *Item {
	item := &Item{
		ID:          id,
		Name:        name,
		Tier:        "T4",
		LastUpdated: utc.New(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)),
	}
	if category != "" {
		item.Category = strPtr(category)
	}
	return item
}

func TestItems_InsertionOrder(t *testing.T) {
	items := NewItems()
	require.NoError(t, items.Set(testItem("T4_SWORD", "Sword", "weapon")))
	require.NoError(t, items.Set(testItem("T4_BAG", "Bag", "")))
	require.NoError(t, items.Set(testItem("T2_AXE", "Axe", "weapon")))

	assert.Equal(t, []string{"T4_SWORD", "T4_BAG", "T2_AXE"}, items.IDs())

	// Replacing keeps the original position
	require.NoError(t, items.Set(testItem("T4_SWORD", "Broadsword", "weapon")))
	assert.Equal(t, []string{"T4_SWORD", "T4_BAG", "T2_AXE"}, items.IDs())
	got, ok := items.Get("T4_SWORD")
	require.True(t, ok)
	assert.Equal(t, "Broadsword", got.Name)
	assert.Equal(t, 3, items.Len())
}

func TestItems_SetRejectsInvalid(t *testing.T) {
	items := NewItems()
	assert.Error(t, items.Set(nil))
	assert.Error(t, items.Set(&Item{Name: "no id"}))
	assert.Equal(t, 0, items.Len())
}

func TestItems_JSONKeepsDocumentOrder(t *testing.T) {
	doc := `{
		"zeta": {"name": "Zeta", "tier": "T5", "category": null, "subcategory": null, "enchantment": 0},
		"alpha": {"name": "Alpha", "tier": "T?", "category": "bag", "subcategory": null, "enchantment": 2},
		"mid": {"id": "ignored", "name": "Mid", "tier": "T4", "category": null, "subcategory": null, "enchantment": 0}
	}`

	items := NewItems()
	require.NoError(t, json.Unmarshal([]byte(doc), items))
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, items.IDs())

	mid, ok := items.Get("mid")
	require.True(t, ok)
	assert.Equal(t, "mid", mid.ID, "map key wins over embedded id")

	alpha, _ := items.Get("alpha")
	assert.Equal(t, 2, alpha.Enchantment)
	assert.Equal(t, "bag", alpha.CategoryName())

	data, err := json.Marshal(items)
	require.NoError(t, err)

	again := NewItems()
	require.NoError(t, json.Unmarshal(data, again))
	assert.Equal(t, items.IDs(), again.IDs())
}

func TestItems_UnmarshalRejectsNonObject(t *testing.T) {
	items := NewItems()
	assert.Error(t, json.Unmarshal([]byte(`[1,2,3]`), items))
	assert.Error(t, json.Unmarshal([]byte(`{"a": `), items))
}

func TestItems_UnmarshalNull(t *testing.T) {
	items := NewItems(WithItemsList(testItem("a", "A", "")))
	require.NoError(t, items.UnmarshalJSON([]byte(`null`)))
	assert.Equal(t, 0, items.Len())
}

func TestItems_CopyIsDeep(t *testing.T) {
	items := NewItems(WithItemsList(testItem("T4_SWORD", "Sword", "weapon")))
	c := items.Copy()

	original, _ := items.Get("T4_SWORD")
	*original.Category = "changed"
	original.Name = "changed"

	copied, ok := c.Get("T4_SWORD")
	require.True(t, ok)
	assert.Equal(t, "Sword", copied.Name)
	assert.Equal(t, "weapon", copied.CategoryName())
}

func TestDeriveCategoryIndex(t *testing.T) {
	items := NewItems(WithItemsList(
		testItem("T4_SWORD", "Sword", "weapon"),
		testItem("T4_BAG", "Bag", ""),
		&Item{ID: "T4_EMPTY", Name: "Empty", Category: strPtr("")},
	))

	index := DeriveCategoryIndex(items)
	assert.Equal(t, CategoryIndex{"T4_SWORD": "weapon"}, index)
	assert.Equal(t, map[string]int{"weapon": 1}, index.Categories())
	assert.Empty(t, DeriveCategoryIndex(nil))
}

func TestSnapshot(t *testing.T) {
	empty := EmptySnapshot()
	assert.True(t, empty.IsEmpty())
	assert.True(t, empty.CategoriesConsistent())

	items := NewItems(WithItemsList(testItem("T4_SWORD", "Sword", "weapon")))
	snap := NewSnapshot(items, utc.Now())
	assert.False(t, snap.IsEmpty())
	assert.True(t, snap.CategoriesConsistent())

	snap.Categories["GHOST"] = "weapon"
	assert.False(t, snap.CategoriesConsistent())
	snap.Rederive()
	assert.True(t, snap.CategoriesConsistent())
}

func TestFormatTier(t *testing.T) {
	four := 4
	assert.Equal(t, "T4", FormatTier(&four))
	assert.Equal(t, "T?", FormatTier(nil))
}

func TestImageURL(t *testing.T) {
	assert.Equal(t, "https://render.albiononline.com/v1/item/T4_BAG.png", ImageURL("T4_BAG"))
}
