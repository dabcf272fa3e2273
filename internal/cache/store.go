package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/blackwell-systems/perpusctl/internal/util"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type entry struct {
	StoredAt time.Time           `json:"storedAt"`
	Data     jsoniter.RawMessage `json:"data"`
}

// Put stores v under key, stamped with now.
func (m *Manager) Put(key string, v any, now time.Time) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	raw, err := json.Marshal(entry{StoredAt: now, Data: data})
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := util.WriteFileAtomic(m.Path(key), raw, 0600, 0750); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

// Get decodes the entry for key into out when it is younger than maxAge.
// A missing or stale entry reports false with no error. maxAge <= 0 accepts
// any age.
func (m *Manager) Get(key string, maxAge time.Duration, now time.Time, out any) (bool, error) {
	raw, err := os.ReadFile(m.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		// Unreadable entries are dropped rather than reported every run.
		_ = m.Remove(key)
		return false, nil
	}
	if maxAge > 0 && now.Sub(e.StoredAt) > maxAge {
		return false, nil
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

// Info describes one cached entry.
type Info struct {
	Key      string
	Size     int64
	StoredAt time.Time
}

// List returns every entry, sorted by key. A missing cache dir is empty.
func (m *Manager) List() ([]Info, error) {
	files, err := os.ReadDir(m.baseDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []Info
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		fi, err := f.Info()
		if err != nil {
			continue
		}
		info := Info{Key: strings.TrimSuffix(f.Name(), ".json"), Size: fi.Size(), StoredAt: fi.ModTime()}
		if raw, err := os.ReadFile(filepath.Join(m.baseDir, f.Name())); err == nil {
			var e entry
			if json.Unmarshal(raw, &e) == nil && !e.StoredAt.IsZero() {
				info.StoredAt = e.StoredAt
			}
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Clear removes every entry and returns how many were removed.
func (m *Manager) Clear() (int, error) {
	entries, err := m.List()
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		if err := m.Remove(e.Key); err != nil {
			return 0, err
		}
	}
	return len(entries), nil
}
