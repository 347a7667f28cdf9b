package memStore

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// Store keeps values in process memory. Nothing survives a restart, which makes
// it the fallback substrate when redis is offline and the default in tests.
type Store struct {
	cache *cache.Cache
}

func NewStore() *Store {
	return &Store{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	x, found := s.cache.Get(key)
	if !found {
		return "", false, nil
	}
	return x.(string), true, nil
}

func (s *Store) Set(ctx context.Context, key string, value string) error {
	s.cache.Set(key, value, cache.NoExpiration)
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

func (s *Store) Len() int {
	return s.cache.ItemCount()
}

func (s *Store) Keys() []string {
	items := s.cache.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	return keys
}
