package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"idlkit/internal/idl"
)

// Current schema version - increment when cachePayload format changes.
const cacheSchemaVersion uint16 = 1

// Digest - sha256 ключ сборки.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Short returns the first 12 hex characters.
func (d Digest) Short() string { return d.String()[:12] }

// Cache stores built IDL documents keyed by BuildKey.
// Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

type cachePayload struct {
	Schema  uint16
	Program string
	Address string
	Created int64
	IDL     []byte // current-format JSON
}

// OpenCache opens the cache under $XDG_CACHE_HOME/<app> (or ~/.cache/<app>).
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenCacheDir(filepath.Join(base, app))
}

// OpenCacheDir opens a cache rooted at dir.
func OpenCacheDir(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *Cache) Dir() string { return c.dir }

func (c *Cache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "builds", key.String()+".mp")
}

// Store serializes doc under key, replacing any previous entry atomically.
func (c *Cache) Store(key Digest, doc *idl.Document) error {
	if c == nil {
		return nil
	}
	data, err := idl.MarshalIndent(doc)
	if err != nil {
		return err
	}
	payload := cachePayload{
		Schema:  cacheSchemaVersion,
		Program: doc.Metadata.Name,
		Address: doc.Address,
		Created: time.Now().Unix(),
		IDL:     data,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	// атомарная замена
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// Load returns the cached document for key. Missing, unreadable and
// outdated entries are all misses.
func (c *Cache) Load(key Digest) (*idl.Document, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		return nil, false
	}
	defer f.Close()

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false
	}
	if payload.Schema != cacheSchemaVersion {
		return nil, false
	}
	doc, err := idl.Parse(payload.IDL)
	if err != nil {
		return nil, false
	}
	return doc, true
}

// DropAll removes every cached build.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "builds"))
}

// BuildKey hashes the program's Cargo.toml, every src/**/*.rs file in path
// order and the build switches.
func BuildKey(root string, opts BuildOptions) (Digest, error) {
	files := []string{filepath.Join(root, "Cargo.toml")}
	src := filepath.Join(root, "src")
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == src {
				return filepath.SkipDir
			}
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".rs") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return Digest{}, err
	}
	sort.Strings(files[1:])

	h := sha256.New()
	fmt.Fprintf(h, "idlkit-build/%d\x00", cacheSchemaVersion)
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return Digest{}, err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		fmt.Fprintf(h, "%s\x00%d\x00", filepath.ToSlash(rel), len(data))
		h.Write(data)
	}
	fmt.Fprintf(h, "docs=%t lint=%t resolution=%t", !opts.SkipDocs, !opts.SkipLint, opts.ResolveAccounts)

	var out Digest
	copy(out[:], h.Sum(nil))
	return out, nil
}
