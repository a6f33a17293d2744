// Package journal keeps a local record of every transaction the signing
// workflows submitted, accepted or not.
package journal

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

// DefaultFileName is the database file created inside the data directory.
const DefaultFileName = "journal.db"

var (
	bucketTxs     = []byte("txs")
	bucketTxsTime = []byte("txs_time")
)

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("journal: required parameter is nil")

	// ErrNotFound indicates no record exists for the transaction id.
	ErrNotFound = errors.New("journal: record not found")
)

// Kind is the workflow that produced a record.
type Kind string

const (
	KindSend  Kind = "send"
	KindClaim Kind = "claim"
)

// Record describes one submitted transaction.
type Record struct {
	TxID      string
	Kind      Kind
	Network   string
	Address   string
	SignedHex string
	Accepted  bool
	Error     string
	Timestamp time.Time
}

// Store wraps a bbolt database of records.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the journal database at dbPath.
// The parent directory is created if it does not exist.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("journal: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("journal: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketTxs, bucketTxsTime} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: create buckets: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Put stores rec, replacing any earlier record with the same TxID.
// A zero Timestamp is set to the current time.
func (s *Store) Put(rec *Record) error {
	if rec == nil {
		return fmt.Errorf("%w: record", ErrNilParam)
	}
	if rec.TxID == "" {
		return fmt.Errorf("%w: txid", ErrNilParam)
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	data, err := encodeGob(rec)
	if err != nil {
		return fmt.Errorf("journal: encode record: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		txs := tx.Bucket(bucketTxs)
		byTime := tx.Bucket(bucketTxsTime)

		if old := txs.Get([]byte(rec.TxID)); old != nil {
			var prev Record
			if err := decodeGob(old, &prev); err == nil {
				if err := byTime.Delete(timeKey(prev.Timestamp, prev.TxID)); err != nil {
					return fmt.Errorf("journal: drop time index: %w", err)
				}
			}
		}
		if err := txs.Put([]byte(rec.TxID), data); err != nil {
			return fmt.Errorf("journal: put record: %w", err)
		}
		if err := byTime.Put(timeKey(rec.Timestamp, rec.TxID), []byte(rec.TxID)); err != nil {
			return fmt.Errorf("journal: put time index: %w", err)
		}
		return nil
	})
}

// Get returns the record for txID.
func (s *Store) Get(txID string) (*Record, error) {
	var rec Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketTxs).Get([]byte(txID))
		if data == nil {
			return ErrNotFound
		}
		return decodeGob(data, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns up to limit records, newest first. A limit of zero or less
// returns every record.
func (s *Store) List(limit int) ([]*Record, error) {
	var out []*Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		txs := tx.Bucket(bucketTxs)
		c := tx.Bucket(bucketTxsTime).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(out) >= limit {
				break
			}
			data := txs.Get(v)
			if data == nil {
				continue
			}
			var rec Record
			if err := decodeGob(data, &rec); err != nil {
				return fmt.Errorf("journal: decode record %s: %w", v, err)
			}
			out = append(out, &rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// timeKey orders index entries by timestamp, then txid.
func timeKey(ts time.Time, txID string) []byte {
	k := make([]byte, 8, 8+len(txID))
	binary.BigEndian.PutUint64(k, uint64(ts.UnixNano()))
	return append(k, txID...)
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
