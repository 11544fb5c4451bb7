package cache

import "sync"

// Map provides a type-safe concurrent key-value store.
type Map[K comparable, V any] struct {
	data map[K]*V
	sync.RWMutex
}

// NewMap creates an empty Map.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{data: make(map[K]*V)}
}

// Get retrieves a value by key, with existence check.
func (c *Map[K, V]) Get(key K) (*V, bool) {
	c.RLock()
	defer c.RUnlock()
	v, ok := c.data[key]
	return v, ok
}

// Set stores a value with the given key.
func (c *Map[K, V]) Set(key K, value *V) {
	c.Lock()
	defer c.Unlock()
	c.data[key] = value
}

// Update applies fn to the value under key while holding the write lock.
// fn receives nil when the key is absent; returning nil deletes the key.
func (c *Map[K, V]) Update(key K, fn func(*V) (*V, error)) error {
	c.Lock()
	defer c.Unlock()
	next, err := fn(c.data[key])
	if err != nil {
		return err
	}
	if next == nil {
		delete(c.data, key)
		return nil
	}
	c.data[key] = next
	return nil
}

// Delete removes a key-value pair.
func (c *Map[K, V]) Delete(key K) {
	c.Lock()
	defer c.Unlock()
	delete(c.data, key)
}

// Range calls fn for every entry under the read lock until fn returns false.
func (c *Map[K, V]) Range(fn func(K, *V) bool) {
	c.RLock()
	defer c.RUnlock()
	for k, v := range c.data {
		if !fn(k, v) {
			return
		}
	}
}

// Size returns the number of items.
func (c *Map[K, V]) Size() int {
	c.RLock()
	defer c.RUnlock()
	return len(c.data)
}
