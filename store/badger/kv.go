package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/gearlog/store"
)

// KV implements store.Backend on BadgerDB. Every operation runs in its
// own transaction; the database's snapshot isolation is the only
// concurrency control, so no cross-call atomicity is provided.
type KV struct {
	backend *Backend
}

var _ store.Backend = (*KV)(nil)

// NewKV creates a KV over an already opened backend.
func NewKV(backend *Backend) *KV {
	return &KV{backend: backend}
}

// Open opens the structured store at path, creating it if absent.
// Failures wrap store.ErrOpenFailed so the persistence layer can fall
// back cleanly.
func Open(path string) (*KV, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrOpenFailed, err)
	}
	return NewKV(backend), nil
}

// OpenInMemory opens an in-memory structured store, used in tests.
func OpenInMemory() (*KV, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrOpenFailed, err)
	}
	return NewKV(backend), nil
}

// Close closes the underlying database.
func (k *KV) Close() error {
	return k.backend.Close()
}

// Put upserts one entry {key, value, timestamp=now} in a single write
// transaction, replacing the prior entry and its timestamp index row.
func (k *KV) Put(ctx context.Context, key string, value []byte) error {
	return k.backend.WithTx(func(tx *badger.Txn) error {
		old, err := readEntry(tx, makeEntryKey(key))
		if err != nil {
			return err
		}
		if old != nil {
			if err := tx.Delete(makeTimestampKey(old.Timestamp, key)); err != nil {
				return err
			}
		}

		entry := &store.Entry{
			Key:       key,
			Value:     value,
			Timestamp: time.Now().UTC(),
		}
		if err := tx.Set(makeEntryKey(key), store.MarshalEntry(entry)); err != nil {
			return err
		}
		if err := tx.Set(makeTimestampKey(entry.Timestamp, key), []byte(key)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Get looks up one entry in a read-only transaction and returns its
// value, or store.ErrNotFound if no entry exists.
func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := k.backend.WithTx(func(tx *badger.Txn) error {
		entry, err := readEntry(tx, makeEntryKey(key))
		if err != nil {
			return err
		}
		if entry == nil {
			return store.ErrNotFound
		}
		value = entry.Value
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Delete removes the entry and its timestamp index row. Deleting a key
// that does not exist is a no-op.
func (k *KV) Delete(ctx context.Context, key string) error {
	return k.backend.WithTx(func(tx *badger.Txn) error {
		old, err := readEntry(tx, makeEntryKey(key))
		if err != nil {
			return err
		}
		if old == nil {
			return nil
		}
		if err := tx.Delete(makeTimestampKey(old.Timestamp, key)); err != nil {
			return err
		}
		if err := tx.Delete(makeEntryKey(key)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Clear removes every entry and every timestamp index row in one write
// transaction.
func (k *KV) Clear(ctx context.Context) error {
	return k.backend.WithTx(func(tx *badger.Txn) error {
		for _, prefix := range []string{entryPrefix + ":", timestampPrefix + ":"} {
			if err := deletePrefix(tx, []byte(prefix)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetAll returns every stored key with its value.
func (k *KV) GetAll(ctx context.Context) (map[string][]byte, error) {
	all := make(map[string][]byte)
	err := k.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entry *store.Entry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = store.UnmarshalEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			if entry == nil {
				continue
			}
			all[entry.Key] = entry.Value
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return all, nil
}

// readEntry reads and decodes one entry. Returns nil without error if
// the key is absent.
func readEntry(tx *badger.Txn, key []byte) (*store.Entry, error) {
	item, err := tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entry *store.Entry
	err = item.Value(func(val []byte) error {
		var err error
		entry, err = store.UnmarshalEntry(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// deletePrefix deletes every key under prefix within the transaction.
func deletePrefix(tx *badger.Txn, prefix []byte) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	iter.Close()

	for _, key := range keys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
