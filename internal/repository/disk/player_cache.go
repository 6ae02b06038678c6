package disk

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/smallery/sleeper-fantasy-api/internal/models"
)

const (
	DefaultTTL = 24 * time.Hour

	appDirName    = "sleeper_api"
	cacheFileName = "players_cache.json.gz"
)

var ErrCorruptCache = errors.New("corrupt player cache")

// PlayerCache persists one gzip-compressed JSON player snapshot. Freshness is taken
// from the file modification time; the artifact is only ever replaced, never deleted.
type PlayerCache struct {
	path string
	ttl  time.Duration
	now  func() time.Time
}

// DefaultPath returns the per-user cache location for the player snapshot.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolving user cache dir: %w", err)
	}
	return filepath.Join(dir, appDirName, cacheFileName), nil
}

func NewPlayerCache(path string, ttl time.Duration) (*PlayerCache, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &PlayerCache{
		path: path,
		ttl:  ttl,
		now:  time.Now,
	}, nil
}

func (c *PlayerCache) Path() string {
	return c.path
}

// ForSport returns a cache for another sport stored next to this one,
// e.g. players_cache.json.gz -> players_cache_nba.json.gz.
func (c *PlayerCache) ForSport(sport string) *PlayerCache {
	dir, base := filepath.Split(c.path)
	stem, ext := base, ""
	if i := strings.Index(base, "."); i > 0 {
		stem, ext = base[:i], base[i:]
	}

	return &PlayerCache{
		path: filepath.Join(dir, fmt.Sprintf("%s_%s%s", stem, sport, ext)),
		ttl:  c.ttl,
		now:  c.now,
	}
}

// IsValid reports whether the artifact exists and is strictly younger than the TTL.
func (c *PlayerCache) IsValid() bool {
	info, err := os.Stat(c.path)
	if err != nil || info.IsDir() {
		return false
	}
	return c.now().Sub(info.ModTime()) < c.ttl
}

func (c *PlayerCache) Load() (models.PlayerSnapshot, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("opening player cache: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptCache, c.path, err)
	}
	defer zr.Close()

	var snapshot models.PlayerSnapshot
	if err := json.NewDecoder(zr).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptCache, c.path, err)
	}

	return snapshot, nil
}

// Save writes to a temporary file in the cache directory and renames it over the
// artifact, so concurrent readers never see a partial file.
func (c *PlayerCache) Save(snapshot models.PlayerSnapshot) error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	zw := gzip.NewWriter(tmp)
	if err := json.NewEncoder(zw).Encode(snapshot); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding player cache: %w", err)
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("compressing player cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp cache file: %w", err)
	}

	if err := os.Rename(tmpName, c.path); err != nil {
		return fmt.Errorf("replacing player cache: %w", err)
	}
	return nil
}
