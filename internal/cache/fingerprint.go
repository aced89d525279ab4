// Package cache implements a bbolt-backed file-fingerprint cache, so a
// restarted watch-mode process can tell which files changed while it was
// not running without re-parsing the entire workspace. Grounded on the
// teacher's internal/mcp.IdentityResolver's bbolt get/set pair (single
// bucket, JSON-encoded values, View/Update transactions).
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"

	bolt "go.etcd.io/bbolt"

	sharperrors "github.com/nick-boey/sharpitect/internal/errors"
)

var fingerprintBucket = []byte("file_fingerprints")

// Fingerprint captures the on-disk state of a file at last successful
// analysis.
type Fingerprint struct {
	ModTimeUnixNano int64  `json:"modTimeUnixNano"`
	Size            int64  `json:"size"`
	SHA256          string `json:"sha256"`
}

// Store is the fingerprint cache.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if absent) the bbolt database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, sharperrors.StorageError(err, "open fingerprint cache")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(fingerprintBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, sharperrors.StorageError(err, "initialize fingerprint bucket")
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the stored fingerprint for relPath, or ok=false if absent.
func (s *Store) Get(relPath string) (Fingerprint, bool) {
	var fp Fingerprint
	found := false
	_ = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(fingerprintBucket)
		data := b.Get([]byte(relPath))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &fp); err != nil {
			return err
		}
		found = true
		return nil
	})
	return fp, found
}

// Put records a fingerprint for relPath.
func (s *Store) Put(relPath string, fp Fingerprint) error {
	data, err := json.Marshal(fp)
	if err != nil {
		return sharperrors.StorageError(err, "encode fingerprint")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(fingerprintBucket).Put([]byte(relPath), data)
	})
}

// Delete removes a stored fingerprint, used when a file is deleted.
func (s *Store) Delete(relPath string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(fingerprintBucket).Delete([]byte(relPath))
	})
}

// Changed reports whether the file at absPath differs from its last stored
// fingerprint (size/mtime fast path, content hash as a fallback for
// mtime-insensitive filesystems), returning the fresh fingerprint either way.
func (s *Store) Changed(relPath, absPath string) (Fingerprint, bool, error) {
	info, err := os.Stat(absPath)
	if err != nil {
		return Fingerprint{}, true, err
	}
	prev, ok := s.Get(relPath)
	if ok && prev.Size == info.Size() && prev.ModTimeUnixNano == info.ModTime().UnixNano() {
		return prev, false, nil
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return Fingerprint{}, true, err
	}
	sum := sha256.Sum256(data)
	fresh := Fingerprint{
		ModTimeUnixNano: info.ModTime().UnixNano(),
		Size:            info.Size(),
		SHA256:          hex.EncodeToString(sum[:]),
	}
	if ok && prev.SHA256 == fresh.SHA256 {
		return fresh, false, nil
	}
	return fresh, true, nil
}
