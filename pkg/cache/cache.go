// Package cache remembers which sources were converted with which inputs,
// so repeated runs can skip documents whose output is already current.
// Entries live in a single bbolt file keyed by source path.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketConversions = "conversions"

// DefaultFileName is the cache file created in the working directory when
// caching is enabled without an explicit path.
const DefaultFileName = ".gomddeep-cache.db"

// openTimeout bounds the wait for the file lock held by another process.
const openTimeout = 2 * time.Second

// ErrClosed is returned by operations on a closed cache.
var ErrClosed = errors.New("cache is closed")

// Entry records one conversion.
type Entry struct {
	// Digest covers the source content and every option that affects output.
	Digest string `json:"digest"`

	// Output is the path the HTML was written to.
	Output string `json:"output"`

	// Converted is when the conversion happened.
	Converted time.Time `json:"converted"`
}

// Cache is a persistent source path to Entry map. It is safe for
// concurrent use.
type Cache struct {
	db *bolt.DB
}

// Open opens or creates the cache file at path.
func Open(path string) (*Cache, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketConversions))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize cache: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close releases the file lock.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// Path returns the cache file location.
func (c *Cache) Path() string {
	if c == nil || c.db == nil {
		return ""
	}
	return c.db.Path()
}

// Lookup returns the entry stored for source.
func (c *Cache) Lookup(source string) (Entry, bool, error) {
	var (
		entry Entry
		found bool
	)

	if c == nil || c.db == nil {
		return entry, false, ErrClosed
	}

	err := c.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketConversions)).Get([]byte(source))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &entry)
	})
	if err != nil {
		return Entry{}, false, fmt.Errorf("lookup %s: %w", source, err)
	}

	return entry, found, nil
}

// Fresh reports whether source was last converted with digest.
func (c *Cache) Fresh(source, digest string) bool {
	entry, found, err := c.Lookup(source)
	return err == nil && found && entry.Digest == digest
}

// Store records entry for source, replacing any previous one.
func (c *Cache) Store(source string, entry Entry) error {
	if c == nil || c.db == nil {
		return ErrClosed
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}

	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketConversions)).Put([]byte(source), data)
	})
}

// Forget removes the entry for source.
func (c *Cache) Forget(source string) error {
	if c == nil || c.db == nil {
		return ErrClosed
	}

	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketConversions)).Delete([]byte(source))
	})
}

// Len returns the number of entries.
func (c *Cache) Len() (int, error) {
	if c == nil || c.db == nil {
		return 0, ErrClosed
	}

	var n int
	err := c.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(bucketConversions)).Stats().KeyN
		return nil
	})
	return n, err
}

// Prune deletes every entry whose source keep rejects and returns how many
// were removed.
func (c *Cache) Prune(keep func(source string) bool) (int, error) {
	if c == nil || c.db == nil {
		return 0, ErrClosed
	}

	var removed int
	err := c.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketConversions))

		var stale [][]byte
		cursor := bucket.Cursor()
		for k, _ := cursor.First(); k != nil; k, _ = cursor.Next() {
			if !keep(string(k)) {
				stale = append(stale, append([]byte(nil), k...))
			}
		}

		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("prune cache: %w", err)
	}

	return removed, nil
}
