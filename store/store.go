// Package store persists the engine's learned move-ordering weights
// between runs, so a fresh process does not start from blank history
// tables.
package store

import (
	"encoding/json"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyHistory = "history"
)

// Store wraps BadgerDB for persistent engine state
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the store at dir
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveHistory persists a history table snapshot
func (s *Store) SaveHistory(history *[2][7][64]int32) error {
	data, err := json.Marshal(history)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyHistory), data)
	})
}

// LoadHistory loads the persisted history table; found is false when no
// snapshot has been saved yet.
func (s *Store) LoadHistory() (history *[2][7][64]int32, found bool, err error) {
	history = &[2][7][64]int32{}

	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyHistory))
		if err == badger.ErrKeyNotFound {
			return nil // No snapshot yet
		}
		if err != nil {
			return err
		}

		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, history)
		})
	})

	return history, found, err
}
