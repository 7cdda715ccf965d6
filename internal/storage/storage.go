// Package storage provides an optional BoltDB-backed audit log of served
// predictions. The prediction pipeline itself keeps no state; the audit log
// is a best-effort sink enabled only when a data path is configured, and a
// write failure never fails the request that triggered it.
package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.etcd.io/bbolt"
)

const predictionsBucket = "predictions"

// Record is one served prediction as written to the audit log.
type Record struct {
	Ts              time.Time          `json:"ts"`
	Input           map[string]float64 `json:"input"`
	Prediction      string             `json:"prediction"`
	Diabetic        bool               `json:"diabetic"`
	Probability     float64            `json:"probability"`
	Confidence      string             `json:"confidence"`
	ConfidenceScore float64            `json:"confidence_score"`
}

// Store persists prediction records in BoltDB, keyed by an increasing
// timestamp-derived key so recent records are a reverse cursor walk.
type Store struct {
	db  *bbolt.DB
	seq atomic.Uint64 // breaks key ties within the same nanosecond
}

// New opens (or creates) the audit database under dataPath.
func New(dataPath string) (*Store, error) {
	dbPath := filepath.Join(dataPath, "predictions.db")

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(predictionsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create predictions bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database. Safe to call on a nil store.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// StorePrediction appends one record to the audit log.
func (s *Store) StorePrediction(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	key := make([]byte, 16)
	binary.BigEndian.PutUint64(key[:8], uint64(rec.Ts.UnixNano()))
	binary.BigEndian.PutUint64(key[8:], s.seq.Add(1))

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(predictionsBucket)).Put(key, data)
	})
}

// Recent returns up to n records, newest first.
func (s *Store) Recent(n int) ([]Record, error) {
	if n <= 0 {
		return nil, nil
	}

	var records []Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(predictionsBucket)).Cursor()
		for k, v := c.Last(); k != nil && len(records) < n; k, v = c.Prev() {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("unmarshal record: %w", err)
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
