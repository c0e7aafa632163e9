// Package state owns the two process-wide regions: the AppData snapshot and the set
// of task ids whose reminder has already fired. Each region has its own mutex and
// callers never hold both at once.
package state

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sandeepkv93/blinkdo/internal/model"
)

var ErrPoisoned = errors.New("state: lock poisoned by an earlier panic")

// Store is constructed once at startup and shared by the engine and the scheduler.
type Store struct {
	dataMu       sync.Mutex
	data         model.AppData
	dataPoisoned bool

	notifiedMu       sync.Mutex
	notified         map[string]struct{}
	notifiedPoisoned bool
	// armed holds the re-arm sequence of each id forgotten since the last ForgetAll,
	// which set epoch.
	armed map[string]uint64
	epoch uint64
	seq   uint64
}

// Token is the re-arm state of the notified region at one instant. A mark made with
// a token is dropped for any id re-armed after the token was taken.
type Token struct {
	epoch uint64
	armed map[string]uint64
}

func (t Token) generation(id string) uint64 {
	return max(t.epoch, t.armed[id])
}

func New(initial model.AppData) *Store {
	return &Store{
		data:     initial.Clone(),
		notified: make(map[string]struct{}),
		armed:    make(map[string]uint64),
	}
}

// Update runs fn with exclusive access to the live AppData. A panic inside fn poisons
// the region: the panic propagates and every later call fails with ErrPoisoned.
func (s *Store) Update(fn func(data *model.AppData)) error {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	if s.dataPoisoned {
		return fmt.Errorf("%w: app data", ErrPoisoned)
	}

	panicking := true
	defer func() {
		if panicking {
			s.dataPoisoned = true
		}
	}()
	fn(&s.data)
	panicking = false
	return nil
}

// View runs fn against the live AppData. fn must not retain or modify it.
func (s *Store) View(fn func(data model.AppData)) error {
	return s.Update(func(data *model.AppData) { fn(*data) })
}

// Snapshot returns a deep copy of the current AppData.
func (s *Store) Snapshot() (model.AppData, error) {
	var out model.AppData
	err := s.View(func(data model.AppData) { out = data.Clone() })
	return out, err
}

// Replace swaps the whole AppData and returns a copy of the new value.
func (s *Store) Replace(next model.AppData) (model.AppData, error) {
	var out model.AppData
	err := s.Update(func(data *model.AppData) {
		*data = next.Clone()
		out = data.Clone()
	})
	return out, err
}

func (s *Store) generation(id string) uint64 {
	return max(s.epoch, s.armed[id])
}

func (s *Store) withNotified(fn func(set map[string]struct{})) error {
	s.notifiedMu.Lock()
	defer s.notifiedMu.Unlock()
	if s.notifiedPoisoned {
		return fmt.Errorf("%w: notified set", ErrPoisoned)
	}

	panicking := true
	defer func() {
		if panicking {
			s.notifiedPoisoned = true
		}
	}()
	fn(s.notified)
	panicking = false
	return nil
}

// Forget re-arms the given task ids.
func (s *Store) Forget(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.withNotified(func(set map[string]struct{}) {
		s.seq++
		for _, id := range ids {
			delete(set, id)
			s.armed[id] = s.seq
		}
	})
}

func (s *Store) ForgetAll() error {
	return s.withNotified(func(set map[string]struct{}) {
		clear(set)
		clear(s.armed)
		s.seq++
		s.epoch = s.seq
	})
}

// Token captures the current re-arm state for a later MarkNotified.
func (s *Store) Token() (Token, error) {
	var tok Token
	err := s.withNotified(func(map[string]struct{}) {
		tok = Token{epoch: s.epoch, armed: make(map[string]uint64, len(s.armed))}
		for id, gen := range s.armed {
			tok.armed[id] = gen
		}
	})
	return tok, err
}

// MarkNotified records id as notified unless it was re-armed after tok was taken.
// It reports whether the mark was recorded.
func (s *Store) MarkNotified(id string, tok Token) (bool, error) {
	var marked bool
	err := s.withNotified(func(set map[string]struct{}) {
		if s.generation(id) != tok.generation(id) {
			return
		}
		set[id] = struct{}{}
		marked = true
	})
	return marked, err
}

func (s *Store) IsNotified(id string) (bool, error) {
	var ok bool
	err := s.withNotified(func(set map[string]struct{}) {
		_, ok = set[id]
	})
	return ok, err
}

// Retain drops every notified id not present in active.
func (s *Store) Retain(active map[string]bool) error {
	return s.withNotified(func(set map[string]struct{}) {
		for id := range set {
			if !active[id] {
				delete(set, id)
			}
		}
		for id := range s.armed {
			if !active[id] {
				delete(s.armed, id)
			}
		}
	})
}

// NotifiedIDs returns the notified ids in sorted order.
func (s *Store) NotifiedIDs() ([]string, error) {
	var out []string
	err := s.withNotified(func(set map[string]struct{}) {
		out = make([]string, 0, len(set))
		for id := range set {
			out = append(out, id)
		}
	})
	sort.Strings(out)
	return out, err
}
