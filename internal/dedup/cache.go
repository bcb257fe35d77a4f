// Package dedup provides the cross-cycle cache preventing the same URL or
// the same (source, content) pair from alerting more than once.
package dedup

import (
	"bufio"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"darkwebmonitor/internal/domain"
)

// Cache tracks seen URLs and content hashes. Keys are never removed within
// a run. The cache is owned exclusively by the cycle orchestrator and is not
// accessed concurrently.
type Cache struct {
	seenURLs   map[string]struct{}
	seenHashes map[string]struct{}
}

// NewCache builds an empty cache.
func NewCache() *Cache {
	return &Cache{
		seenURLs:   map[string]struct{}{},
		seenHashes: map[string]struct{}{},
	}
}

// ShouldProcess reports whether the mention is new: unseen URL (when
// present) and unseen content hash.
func (c *Cache) ShouldProcess(m domain.Mention) bool {
	if m.URL != "" {
		if _, ok := c.seenURLs[m.URL]; ok {
			return false
		}
	}
	if _, ok := c.seenHashes[contentHash(m)]; ok {
		return false
	}
	return true
}

// Record marks the mention's URL and content hash as seen. It is called for
// every mention accepted into a batch, including mentions the downstream
// filters later reject.
func (c *Cache) Record(m domain.Mention) {
	if m.URL != "" {
		c.seenURLs[m.URL] = struct{}{}
	}
	c.seenHashes[contentHash(m)] = struct{}{}
}

// Size returns the number of seen URLs and content hashes.
func (c *Cache) Size() (urls, hashes int) {
	return len(c.seenURLs), len(c.seenHashes)
}

func contentHash(m domain.Mention) string {
	sum := md5.Sum([]byte(m.Source + m.RawText))
	return hex.EncodeToString(sum[:])
}

// Load restores prior state from the flat files written by Save. A missing
// file is not an error: a first run starts empty.
func (c *Cache) Load(urlsPath, hashesPath string) error {
	if err := loadSet(urlsPath, c.seenURLs); err != nil {
		return fmt.Errorf("load seen urls: %w", err)
	}
	if err := loadSet(hashesPath, c.seenHashes); err != nil {
		return fmt.Errorf("load seen hashes: %w", err)
	}
	return nil
}

// Save persists the cache as one entry per line, no schema versioning. It is
// called at the end of every cycle so restarts resume with prior history.
func (c *Cache) Save(urlsPath, hashesPath string) error {
	if err := saveSet(urlsPath, c.seenURLs); err != nil {
		return fmt.Errorf("save seen urls: %w", err)
	}
	if err := saveSet(hashesPath, c.seenHashes); err != nil {
		return fmt.Errorf("save seen hashes: %w", err)
	}
	return nil
}

func loadSet(path string, into map[string]struct{}) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			into[line] = struct{}{}
		}
	}
	return scanner.Err()
}

func saveSet(path string, set map[string]struct{}) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	for entry := range set {
		if _, err := w.WriteString(entry + "\n"); err != nil {
			_ = f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
