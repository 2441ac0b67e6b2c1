package catalogs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
)

// Items is a concurrent safe, insertion-ordered map of items.
// Iteration and JSON encoding follow insertion order; decoding keeps
// the key order of the document.
type Items struct {
	mu    sync.RWMutex
	order []string
	items map[string]*Item
}

// ItemsOption defines a function that configures an Items instance.
type ItemsOption func(*Items)

// WithItemsCapacity sets the initial capacity of the items map.
func WithItemsCapacity(capacity int) ItemsOption {
	return func(i *Items) {
		i.order = make([]string, 0, capacity)
		i.items = make(map[string]*Item, capacity)
	}
}

// WithItemsList initializes the map with existing items, in order.
func WithItemsList(items ...*Item) ItemsOption {
	return func(i *Items) {
		for _, item := range items {
			_ = i.set(item)
		}
	}
}

// NewItems creates a new Items map with optional configuration.
func NewItems(opts ...ItemsOption) *Items {
	i := &Items{
		items: make(map[string]*Item),
	}

	for _, opt := range opts {
		opt(i)
	}

	return i
}

// Get returns an item by id and whether it exists.
func (i *Items) Get(id string) (*Item, bool) {
	i.mu.RLock()
	item, ok := i.items[id]
	i.mu.RUnlock()
	return item, ok
}

// Set stores an item under its ID. An existing item keeps its position.
func (i *Items) Set(item *Item) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.set(item)
}

func (i *Items) set(item *Item) error {
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}
	if item.ID == "" {
		return fmt.Errorf("item id cannot be empty")
	}
	if _, exists := i.items[item.ID]; !exists {
		i.order = append(i.order, item.ID)
	}
	i.items[item.ID] = item
	return nil
}

// Len returns the number of items.
func (i *Items) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.order)
}

// IDs returns the item ids in insertion order.
func (i *Items) IDs() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	ids := make([]string, len(i.order))
	copy(ids, i.order)
	return ids
}

// List returns the items in insertion order.
func (i *Items) List() []*Item {
	i.mu.RLock()
	defer i.mu.RUnlock()
	list := make([]*Item, 0, len(i.order))
	for _, id := range i.order {
		list = append(list, i.items[id])
	}
	return list
}

// Copy returns a deep copy that shares nothing with the receiver.
func (i *Items) Copy() *Items {
	i.mu.RLock()
	defer i.mu.RUnlock()
	c := NewItems(WithItemsCapacity(len(i.order)))
	for _, id := range i.order {
		_ = c.set(i.items[id].Copy())
	}
	return c
}

// MarshalJSON encodes the items as a JSON object keyed by id, in insertion order.
func (i *Items) MarshalJSON() ([]byte, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	var buf bytes.Buffer
	buf.WriteByte('{')
	for n, id := range i.order {
		if n > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(i.items[id])
		if err != nil {
			return nil, fmt.Errorf("encoding item %s: %w", id, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keyed by id, keeping document order.
// The map key wins over an "id" field inside the value.
func (i *Items) UnmarshalJSON(data []byte) error {
	decoded := NewItems()

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		i.replace(decoded)
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("items: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		id, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("items: expected string key, got %v", keyTok)
		}
		var item Item
		if err := dec.Decode(&item); err != nil {
			return fmt.Errorf("items: decoding %s: %w", id, err)
		}
		item.ID = id
		if err := decoded.set(&item); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	i.replace(decoded)
	return nil
}

func (i *Items) replace(other *Items) {
	i.mu.Lock()
	i.order = other.order
	i.items = other.items
	i.mu.Unlock()
}
