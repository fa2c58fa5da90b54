// SPDX-License-Identifier: EPL-2.0

package storage

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Entry is one stored record.
type Entry struct {
	Kind  string
	ID    string
	Value []byte
}

// Decode unmarshals the record into v.
func (e Entry) Decode(v any) error {
	return msgpack.Unmarshal(e.Value, v)
}

// RecordStore keeps msgpack-encoded records grouped by kind.
type RecordStore interface {
	Put(ctx context.Context, kind, id string, v any) error
	// Get returns ErrNotFound for a missing record.
	Get(ctx context.Context, kind, id string, v any) error
	// List yields the records of kind in ascending id order.
	List(ctx context.Context, kind string) iter.Seq2[Entry, error]
	Close() error
}

const keySep = "/"

func recordKey(kind, id string) (string, error) {
	if kind == "" || id == "" || strings.Contains(kind, keySep) {
		return "", fmt.Errorf("%w: %q/%q", ErrInvalidKey, kind, id)
	}

	return kind + keySep + id, nil
}

// Memory is an in-process RecordStore.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string][]byte)}
}

func (m *Memory) Put(ctx context.Context, kind, id string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	k, err := recordKey(kind, id)
	if err != nil {
		return err
	}

	data, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", k, err)
	}

	m.mu.Lock()
	m.records[k] = data
	m.mu.Unlock()

	return nil
}

func (m *Memory) Get(ctx context.Context, kind, id string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	k, err := recordKey(kind, id)
	if err != nil {
		return err
	}

	m.mu.RLock()
	data, ok := m.records[k]
	m.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%s: %w", k, ErrNotFound)
	}

	return msgpack.Unmarshal(data, v)
}

func (m *Memory) List(ctx context.Context, kind string) iter.Seq2[Entry, error] {
	prefix := kind + keySep

	return func(yield func(Entry, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(Entry{}, err)
			return
		}

		m.mu.RLock()
		var entries []Entry
		for k, v := range m.records {
			if id, ok := strings.CutPrefix(k, prefix); ok {
				entries = append(entries, Entry{Kind: kind, ID: id, Value: slices.Clone(v)})
			}
		}
		m.mu.RUnlock()

		slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.ID, b.ID) })
		for _, e := range entries {
			if !yield(e, nil) {
				return
			}
		}
	}
}

func (m *Memory) Close() error { return nil }

var _ RecordStore = (*Memory)(nil)
