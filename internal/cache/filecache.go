// Package cache stores HTTP responses on disk for the caching transport.
package cache

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gregjones/httpcache"
)

// Entry is one cached response as written to disk
type Entry struct {
	Key       string    `json:"key"`
	FetchedAt time.Time `json:"fetched_at"`
	Response  []byte    `json:"response"`
}

// FileCache implements httpcache.Cache using filesystem storage
type FileCache struct {
	dir string
}

var _ httpcache.Cache = (*FileCache)(nil)

// NewFileCache creates a file-based cache rooted at dir
func NewFileCache(dir string) (*FileCache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "running")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// NewTransport returns a caching transport over base. An empty dir keeps
// responses in memory only.
func NewTransport(dir string, base http.RoundTripper) (*httpcache.Transport, error) {
	var c httpcache.Cache = httpcache.NewMemoryCache()
	if dir != "" {
		fc, err := NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		c = fc
	}
	t := httpcache.NewTransport(c)
	t.Transport = base
	return t, nil
}

func (fc *FileCache) Dir() string { return fc.dir }

// Get returns the stored response bytes for key
func (fc *FileCache) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(fc.path(key))
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Key != key {
		return nil, false
	}
	return entry.Response, true
}

// Set stores response bytes under key. Failures leave the cache unchanged.
func (fc *FileCache) Set(key string, response []byte) {
	_ = fc.write(key, response)
}

func (fc *FileCache) Delete(key string) {
	_ = os.Remove(fc.path(key))
}

func (fc *FileCache) write(key string, response []byte) error {
	path := fc.path(key)
	data, err := json.Marshal(Entry{Key: key, FetchedAt: time.Now(), Response: response})
	if err != nil {
		return err
	}

	// Write to temporary file first, then rename (atomic operation)
	tmpPath := path + fmt.Sprintf(".tmp.%d", rand.Int())
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// path generates the full filesystem path for a cache key
func (fc *FileCache) path(key string) string {
	return filepath.Join(fc.dir, sanitizeKey(key)+".json")
}

// sanitizeKey ensures the key is safe for use as a filename
func sanitizeKey(key string) string {
	// httpcache keys are full URLs; long ones are hashed to stay under filesystem limits
	if len(key) > 200 {
		hash := md5.Sum([]byte(key))
		return fmt.Sprintf("hash_%x", hash)
	}

	unsafe := []string{"/", ":", "?", "&", "=", "#", "<", ">", "|", "*", "\"", "\\"}
	result := key
	for _, char := range unsafe {
		result = strings.ReplaceAll(result, char, "_")
	}
	return result
}
