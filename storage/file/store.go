package filestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/projectgl/storage"
)

// FileName is the name of the file holding the stored values.
const FileName = "storage.json"

// Store implements storage.Storage with a JSON object persisted in a single file.
// The file is re-read on every Get so that several client processes see each
// other's writes.
type Store struct {
	mutex sync.Mutex
	path  string
}

var _ storage.Storage = (*Store)(nil)

// New creates dir if needed and returns a Store backed by dir/FileName.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrapf(err, "creating %s", dir)
	}
	return &Store{path: filepath.Join(dir, FileName)}, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, errors.Wrap(err, "reading storage file")
	}
	kv := make(map[string]string)
	if len(data) == 0 {
		return kv, nil
	}
	if err = json.Unmarshal(data, &kv); err != nil {
		return nil, errors.Wrap(err, "decoding storage file")
	}
	return kv, nil
}

func (s *Store) save(kv map[string]string) error {
	data, err := json.MarshalIndent(kv, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding storage file")
	}
	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0600); err != nil {
		return errors.Wrap(err, "writing storage file")
	}
	return errors.Wrap(os.Rename(tmp, s.path), "replacing storage file")
}

// Get returns false when the key is missing or the file cannot be read.
func (s *Store) Get(key string) (string, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	kv, err := s.load()
	if err != nil {
		return "", false
	}
	v, ok := kv[key]
	return v, ok
}

func (s *Store) Set(key, value string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	kv, err := s.load()
	if err != nil {
		return err
	}
	kv[key] = value
	return s.save(kv)
}

func (s *Store) Remove(key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	kv, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := kv[key]; !ok {
		return nil
	}
	delete(kv, key)
	return s.save(kv)
}
