package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Kind identifies a cache namespace. Each kind maps to its own
// subdirectory under the cache root.
type Kind string

const (
	// KindStudent is the namespace for student payloads. Entries are
	// scrubbed before being written (see ScrubStudent).
	KindStudent Kind = "students"
	// KindSpine is the namespace for spine payloads, stored verbatim.
	KindSpine Kind = "spines"
)

// Store is a best-effort disk cache of raw API responses, one compact JSON
// file per id. It never fails the caller: reads fall back to a miss and
// writes are fire-and-forget. Pipeline correctness must not depend on it.
type Store struct {
	root   string
	logger *zap.Logger
}

// NewStore creates a cache store rooted at cfg.Dir.
func NewStore(cfg Config, logger *zap.Logger) *Store {
	return &Store{
		root:   cfg.Dir,
		logger: logger,
	}
}

// Stats holds per-namespace entry counts.
type Stats struct {
	Students int
	Spines   int
}

func (s *Store) path(kind Kind, id int) string {
	return filepath.Join(s.root, string(kind), strconv.Itoa(id)+".json")
}

// Get returns the cached payload for the given id, or false on a miss.
// A missing file, an unreadable file, and a malformed entry are all
// treated as misses; only the latter two are logged.
func (s *Store) Get(kind Kind, id int) ([]byte, bool) {
	raw, err := os.ReadFile(s.path(kind, id))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("cache read failed",
				zap.String("kind", string(kind)),
				zap.Int("id", id),
				zap.Error(err))
		}
		return nil, false
	}
	if !json.Valid(raw) {
		s.logger.Warn("cache entry is not valid JSON",
			zap.String("kind", string(kind)),
			zap.Int("id", id))
		return nil, false
	}
	return raw, true
}

// Put persists the payload for the given id. Student payloads are scrubbed
// first. Any failure is logged and swallowed.
func (s *Store) Put(kind Kind, id int, payload []byte) {
	if kind == KindStudent {
		scrubbed, err := ScrubStudent(payload)
		if err != nil {
			s.logger.Warn("cache scrub failed, entry not written",
				zap.Int("id", id),
				zap.Error(err))
			return
		}
		payload = scrubbed
	}

	dir := filepath.Join(s.root, string(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.logger.Warn("cache directory creation failed",
			zap.String("dir", dir),
			zap.Error(err))
		return
	}
	if err := os.WriteFile(s.path(kind, id), payload, 0o644); err != nil {
		s.logger.Warn("cache write failed",
			zap.String("kind", string(kind)),
			zap.Int("id", id),
			zap.Error(err))
	}
}

// CollectStats counts the entries currently stored in each namespace.
// A namespace whose directory does not exist yet counts as zero.
func (s *Store) CollectStats() (Stats, error) {
	students, err := s.countEntries(KindStudent)
	if err != nil {
		return Stats{}, err
	}
	spines, err := s.countEntries(KindSpine)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Students: students, Spines: spines}, nil
}

// Clear removes every entry in the given namespace and returns how many
// entries were removed.
func (s *Store) Clear(kind Kind) (int, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, string(kind)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(s.root, string(kind), entry.Name())); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (s *Store) countEntries(kind Kind) (int, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, string(kind)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			count++
		}
	}
	return count, nil
}
