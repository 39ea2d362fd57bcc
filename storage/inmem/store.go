package inmemstore

import (
	"sync"

	"github.com/trezcool/projectgl/storage"
)

type store struct {
	mutex sync.RWMutex
	table map[string]string
}

var _ storage.Storage = (*store)(nil)

// New returns an empty in-memory storage.Storage, optionally seeded with kvs.
func New(kvs ...map[string]string) storage.Storage {
	s := &store{table: make(map[string]string)}
	for _, kv := range kvs {
		for k, v := range kv {
			s.table[k] = v
		}
	}
	return s
}

func (s *store) Get(key string) (string, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	v, ok := s.table[key]
	return v, ok
}

func (s *store) Set(key, value string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.table[key] = value
	return nil
}

func (s *store) Remove(key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.table, key)
	return nil
}
