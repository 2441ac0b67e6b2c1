package lucro

import (
	"reflect"
	"sync"

	"github.com/agentstation/utc"

	"github.com/agentstation/lucro/pkg/catalogs"
)

// Compile-time interface check to ensure proper implementation.
var _ Hooks = (*client)(nil)

// Hook function types for catalog refresh events
type (
	// ItemAddedHook is called for an item present only in the new catalog
	ItemAddedHook func(item catalogs.Item)

	// ItemUpdatedHook is called for an item whose fields changed
	ItemUpdatedHook func(old, new catalogs.Item)

	// ItemRemovedHook is called for an item absent from the new catalog
	ItemRemovedHook func(item catalogs.Item)
)

// Hooks registers callbacks fired after a successful refresh.
type Hooks interface {
	OnItemAdded(fn ItemAddedHook)
	OnItemUpdated(fn ItemUpdatedHook)
	OnItemRemoved(fn ItemRemovedHook)
}

// hooks manages event callbacks for catalog changes
type hooks struct {
	mu            sync.RWMutex
	onItemAdded   []ItemAddedHook
	onItemUpdated []ItemUpdatedHook
	onItemRemoved []ItemRemovedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnItemAdded registers a callback for added items.
func (c *client) OnItemAdded(fn ItemAddedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onItemAdded = append(c.hooks.onItemAdded, fn)
}

// OnItemUpdated registers a callback for changed items.
func (c *client) OnItemUpdated(fn ItemUpdatedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onItemUpdated = append(c.hooks.onItemUpdated, fn)
}

// OnItemRemoved registers a callback for removed items.
func (c *client) OnItemRemoved(fn ItemRemovedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onItemRemoved = append(c.hooks.onItemRemoved, fn)
}

// triggerRefresh compares the old and new items and fires the hooks.
// LastUpdated is ignored since every refresh rewrites it.
func (h *hooks) triggerRefresh(oldItems, newItems *catalogs.Items) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.onItemAdded) == 0 && len(h.onItemUpdated) == 0 && len(h.onItemRemoved) == 0 {
		return
	}

	for _, item := range newItems.List() {
		old, exists := oldItems.Get(item.ID)
		if !exists {
			for _, hook := range h.onItemAdded {
				hook(*item)
			}
			continue
		}
		if !sameItem(old, item) {
			for _, hook := range h.onItemUpdated {
				hook(*old, *item)
			}
		}
	}

	for _, item := range oldItems.List() {
		if _, exists := newItems.Get(item.ID); !exists {
			for _, hook := range h.onItemRemoved {
				hook(*item)
			}
		}
	}
}

func sameItem(a, b *catalogs.Item) bool {
	x, y := *a, *b
	x.LastUpdated, y.LastUpdated = utc.Time{}, utc.Time{}
	return reflect.DeepEqual(x, y)
}
