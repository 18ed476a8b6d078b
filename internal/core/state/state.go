// Package state manages Skiff's persistent state using BoltDB.
// All writes are transactional; reads use read-only transactions.
package state

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	v1 "github.com/skiffd/skiff/api/v1"
)

// Bucket names
var (
	bucketHosts   = []byte("hosts")
	bucketHistory = []byte("history")
)

// DB wraps a BoltDB instance with typed accessor methods.
type DB struct {
	bolt *bbolt.DB
}

// Open opens (or creates) the state database at the given path.
func Open(path string) (*DB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open state db %q: %w", path, err)
	}

	// Ensure all buckets exist
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketHosts, bucketHistory} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %q: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init buckets: %w", err)
	}

	return &DB{bolt: db}, nil
}

// Close closes the underlying BoltDB file.
func (db *DB) Close() error {
	return db.bolt.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// Host trust operations
// ─────────────────────────────────────────────────────────────────────────────

// PutHostTrust upserts the host key record for a host.
func (db *DB) PutHostTrust(trust v1.HostTrust) error {
	return db.putJSON(bucketHosts, trust.Host, trust)
}

// GetHostTrust retrieves the host key record for a host. Returns nil, nil if
// the host has never been seen.
func (db *DB) GetHostTrust(host string) (*v1.HostTrust, error) {
	var trust v1.HostTrust
	found, err := db.getJSON(bucketHosts, host, &trust)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &trust, nil
}

// ForgetHost removes the host key record, forcing re-trust on next connect.
func (db *DB) ForgetHost(host string) error {
	return db.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketHosts).Delete([]byte(host))
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Operation history
// ─────────────────────────────────────────────────────────────────────────────

// PutOp appends an operation record to the history.
func (db *DB) PutOp(rec v1.OpRecord) error {
	return db.putJSON(bucketHistory, rec.ID, rec)
}

// ListOps returns all operation records for a given service name.
// Pass empty string to return all records.
func (db *DB) ListOps(service string) ([]v1.OpRecord, error) {
	var recs []v1.OpRecord
	err := db.bolt.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketHistory).ForEach(func(k, v []byte) error {
			var r v1.OpRecord
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("unmarshal op %q: %w", k, err)
			}
			if service == "" || r.Service == service {
				recs = append(recs, r)
			}
			return nil
		})
	})
	return recs, err
}

// ─────────────────────────────────────────────────────────────────────────────
// Generic helpers
// ─────────────────────────────────────────────────────────────────────────────

func (db *DB) putJSON(bucket []byte, key string, val any) error {
	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return db.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (db *DB) getJSON(bucket []byte, key string, out any) (bool, error) {
	var found bool
	err := db.bolt.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucket).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, out)
	})
	return found, err
}
