// SPDX-License-Identifier: EPL-2.0

package storage

import (
	"context"
	"errors"
	"fmt"
	"iter"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

// BadgerOptions configures a Badger store.
type BadgerOptions struct {
	// Dir holds the database files. Required unless InMemory is set.
	Dir string
	// InMemory keeps everything in memory. Useful for tests with a real
	// badger engine.
	InMemory bool
	// Logger receives badger warnings and errors. Nil silences them.
	Logger *zap.Logger
}

// Badger is a RecordStore backed by BadgerDB.
type Badger struct {
	db *badger.DB
}

func NewBadger(opts BadgerOptions) (*Badger, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("storage: badger dir is required for on-disk mode")
	}

	dbOpts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		dbOpts = badger.DefaultOptions("").WithInMemory(true)
	}
	dbOpts = dbOpts.WithLogger(badgerLogger{log: opts.Logger})

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("opening badger: %w", err)
	}

	return &Badger{db: db}, nil
}

func (b *Badger) Put(_ context.Context, kind, id string, v any) error {
	k, err := recordKey(kind, id)
	if err != nil {
		return err
	}

	data, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", k, err)
	}

	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(k), data)
	})
}

func (b *Badger) Get(_ context.Context, kind, id string, v any) error {
	k, err := recordKey(kind, id)
	if err != nil {
		return err
	}

	var data []byte
	err = b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(k))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%s: %w", k, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", k, err)
	}

	return msgpack.Unmarshal(data, v)
}

func (b *Badger) List(ctx context.Context, kind string) iter.Seq2[Entry, error] {
	prefix := []byte(kind + keySep)

	return func(yield func(Entry, error) bool) {
		err := b.db.View(func(txn *badger.Txn) error {
			iterOpts := badger.DefaultIteratorOptions
			iterOpts.Prefix = prefix
			it := txn.NewIterator(iterOpts)
			defer it.Close()

			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				if err := ctx.Err(); err != nil {
					return err
				}

				item := it.Item()
				val, err := item.ValueCopy(nil)
				if err != nil {
					if !yield(Entry{}, err) {
						return nil
					}
					continue
				}

				id := string(item.Key()[len(prefix):])
				if !yield(Entry{Kind: kind, ID: id, Value: val}, nil) {
					return nil
				}
			}

			return nil
		})
		if err != nil {
			yield(Entry{}, err)
		}
	}
}

func (b *Badger) Close() error {
	return b.db.Close()
}

// badgerLogger forwards warnings and errors to zap and drops the rest.
type badgerLogger struct {
	log *zap.Logger
}

func (l badgerLogger) Errorf(f string, v ...any) {
	if l.log != nil {
		l.log.Sugar().Errorf("badger: "+f, v...)
	}
}

func (l badgerLogger) Warningf(f string, v ...any) {
	if l.log != nil {
		l.log.Sugar().Warnf("badger: "+f, v...)
	}
}

func (badgerLogger) Infof(string, ...any)  {}
func (badgerLogger) Debugf(string, ...any) {}

var _ RecordStore = (*Badger)(nil)
