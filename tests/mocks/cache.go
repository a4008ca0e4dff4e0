package mocks

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	sharedCache "github.com/davicafu/autostock/shared/platform/cache"
)

// DummyCache es un mock de caché en memoria, genérico y seguro para concurrencia.
// Ignora los TTL: nada expira.
type DummyCache struct {
	store map[string][]byte
	mu    sync.RWMutex

	// FailKeys hace fallar Keys (para probar invalidaciones con error).
	FailKeys error
}

var _ sharedCache.Cache = (*DummyCache)(nil)

func NewDummyCache() *DummyCache {
	return &DummyCache{
		store: make(map[string][]byte),
	}
}

func (c *DummyCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *DummyCache) Set(ctx context.Context, key string, val interface{}, ttlSecs int) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = data
	return nil
}

func (c *DummyCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func (c *DummyCache) Keys(ctx context.Context, prefix string) ([]string, error) {
	if c.FailKeys != nil {
		return nil, c.FailKeys
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	var keys []string
	for k := range c.store {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Has indica si la clave existe (ayuda para asserts).
func (c *DummyCache) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.store[key]
	return ok
}
