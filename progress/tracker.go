// SPDX-License-Identifier: EPL-2.0

package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/ik5/voxprofile/storage"
)

const (
	recordKind = "progress"
	// lockStripes bounds the number of user locks. Users sharing a stripe
	// are serialised together.
	lockStripes = 64
)

// Tracker persists State per user in a record store. Updates for the same
// user are serialised.
type Tracker struct {
	store storage.RecordStore
	locks [lockStripes]sync.Mutex
}

func NewTracker(store storage.RecordStore) *Tracker {
	return &Tracker{store: store}
}

func (t *Tracker) stripe(userID string) *sync.Mutex {
	return &t.locks[xxhash.Sum64String(userID)%lockStripes]
}

// Load returns the stored state, or NewState for an unknown user.
func (t *Tracker) Load(ctx context.Context, userID string) (State, error) {
	var s State
	err := t.store.Get(ctx, recordKind, userID, &s)
	if errors.Is(err, storage.ErrNotFound) {
		return NewState(), nil
	}
	if err != nil {
		return State{}, fmt.Errorf("loading progress of %s: %w", userID, err)
	}
	if s.Unlocked == nil {
		s.Unlocked = []string{}
	}

	return s, nil
}

// Commit runs with the updated state before it is stored. An error keeps
// the stored state unchanged and is returned as is.
type Commit func(State, Update) error

// Record applies o to the user's state and stores the result.
func (t *Tracker) Record(ctx context.Context, userID string, o Outcome) (State, Update, error) {
	return t.RecordWith(ctx, userID, o, nil)
}

// RecordWith is Record with a commit step, so the caller can persist what
// earned the progress under the same user lock. A nil commit is skipped.
func (t *Tracker) RecordWith(ctx context.Context, userID string, o Outcome, commit Commit) (State, Update, error) {
	m := t.stripe(userID)
	m.Lock()
	defer m.Unlock()

	s, err := t.Load(ctx, userID)
	if err != nil {
		return State{}, Update{}, err
	}

	u := s.Apply(o)
	if commit != nil {
		if err := commit(s, u); err != nil {
			return State{}, Update{}, err
		}
	}
	if err := t.store.Put(ctx, recordKind, userID, s); err != nil {
		return State{}, Update{}, fmt.Errorf("saving progress of %s: %w", userID, err)
	}

	return s, u, nil
}
