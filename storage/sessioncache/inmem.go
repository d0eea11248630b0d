package sessioncache

import (
	"sync"

	"github.com/darasahq/darasa/core/auth"
)

type inMemCache struct {
	mu   sync.Mutex
	data []byte
}

var _ auth.Cache = (*inMemCache)(nil)

// NewInMemCache returns a volatile single-slot Cache for tests.
func NewInMemCache() auth.Cache {
	return &inMemCache{}
}

func (c *inMemCache) Get() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		return nil, auth.ErrNoSession
	}
	out := make([]byte, len(c.data))
	copy(out, c.data)
	return out, nil
}

func (c *inMemCache) Set(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = append([]byte(nil), data...)
	return nil
}

func (c *inMemCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = nil
	return nil
}
