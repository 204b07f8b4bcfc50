package cache

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/gregjones/httpcache"
)

// entryExt suffixes every entry file so Clear never touches foreign files
// in a user-supplied directory.
const entryExt = ".cache"

// Disk is a file-backed httpcache.Cache. Keys hash to file names; values
// are stored verbatim. Freshness is not tracked here: httpcache decides
// reuse and revalidation from the stored HTTP validators.
type Disk struct {
	dir string
}

var _ httpcache.Cache = (*Disk)(nil)

// NewDisk opens a disk cache rooted at dir, creating the directory if
// needed. An empty dir selects the per-user default.
func NewDisk(dir string) (*Disk, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Disk{dir: dir}, nil
}

// Get returns the stored response bytes for key. Returns (nil, false) on
// miss.
func (d *Disk) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(d.entryPath(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores the response bytes under key, best effort. An entry that
// cannot be written is simply not cached.
func (d *Disk) Set(key string, responseBytes []byte) {
	_ = os.WriteFile(d.entryPath(key), responseBytes, 0o600)
}

// Delete removes the entry for key.
func (d *Disk) Delete(key string) {
	_ = os.Remove(d.entryPath(key))
}

// Clear removes all cache entries.
func (d *Disk) Clear() error {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading cache directory: %w", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == entryExt {
			_ = os.Remove(filepath.Join(d.dir, e.Name()))
		}
	}
	return nil
}

// Stats summarizes the cache contents.
type Stats struct {
	Dir        string `json:"dir"`
	Entries    int    `json:"entries"`
	TotalBytes int64  `json:"totalBytes"`
}

// Stats reports the entry count and total size on disk.
func (d *Disk) Stats() (Stats, error) {
	stats := Stats{Dir: d.dir}
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return stats, nil
		}
		return stats, fmt.Errorf("reading cache directory: %w", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) != entryExt {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		stats.Entries++
		stats.TotalBytes += info.Size()
	}
	return stats, nil
}

// Dir returns the cache directory path.
func (d *Disk) Dir() string {
	return d.dir
}

func (d *Disk) entryPath(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(d.dir, fmt.Sprintf("%x%s", h, entryExt))
}

// DefaultDir resolves the per-user cache directory, honoring
// XDG_CACHE_HOME.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "arklens"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "arklens"), nil
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "arklens", "cache"), nil
		}
		return filepath.Join(home, "AppData", "Local", "arklens", "cache"), nil
	default:
		return filepath.Join(home, ".cache", "arklens"), nil
	}
}
