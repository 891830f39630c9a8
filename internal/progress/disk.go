package progress

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// DiskStore keeps one JSON file per key under a root directory. Keys are
// hex-encoded in file names so arbitrary key characters survive the
// filesystem.
type DiskStore struct {
	root string
	mu   sync.Mutex
}

func NewDiskStore(root string) (*DiskStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("progress: empty disk store root")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("progress: create %s: %w", root, err)
	}
	return &DiskStore{root: root}, nil
}

// Value round-trips as base64 so non-JSON payloads survive.
type diskRecord struct {
	Key   string `json:"key"`
	Value []byte `json:"value"`
}

func (s *DiskStore) path(key string) string {
	return filepath.Join(s.root, hex.EncodeToString([]byte(key))+".json")
}

func (s *DiskStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	raw, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var rec diskRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		// A torn or corrupted record reads as a miss.
		return nil, false, nil
	}
	return rec.Value, true, nil
}

func (s *DiskStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := json.Marshal(diskRecord{Key: key, Value: value})
	if err != nil {
		return err
	}
	dst := s.path(key)
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, dst)
}

func (s *DiskStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *DiskStore) List(_ context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		decoded, err := hex.DecodeString(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		key := string(decoded)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *DiskStore) Close() error { return nil }
