package state

import (
	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("prefix", "state")

// Store is the single source of truth for the current scene and its linear
// undo/redo history. It is owned by one writer and is not safe for
// concurrent use.
type Store struct {
	elements []Element
	history  [][]Element // each entry is a full snapshot
	cursor   int
	seen     map[string]struct{}
	clock    Clock
}

// NewStore returns a store with an empty scene and one empty snapshot.
func NewStore() *Store {
	return &Store{
		history: [][]Element{{}},
		seen:    make(map[string]struct{}),
	}
}

// Commit appends a finished element and records a new snapshot, discarding
// any redo branch. Invalid elements and reused IDs are dropped silently.
func (s *Store) Commit(e Element) bool {
	if !e.Valid() {
		logger.Debugf("dropping invalid %s element %q", e.Kind, e.ID)
		return false
	}
	if _, dup := s.seen[e.ID]; dup {
		logger.Debugf("element %s already committed, ignoring", e.ID)
		return false
	}
	s.seen[e.ID] = struct{}{}
	s.elements = append(s.elements, e.Clone())
	s.push()
	logger.Debugf("committed %v", e)
	return true
}

// Undo steps the cursor back one snapshot. It is a no-op at cursor 0.
func (s *Store) Undo() bool {
	if s.cursor <= 0 {
		return false
	}
	s.cursor--
	s.restore()
	return true
}

// Redo steps the cursor forward one snapshot. It is a no-op at the tail.
func (s *Store) Redo() bool {
	if s.cursor >= len(s.history)-1 {
		return false
	}
	s.cursor++
	s.restore()
	return true
}

// Erase removes every element with a stored point within tolerance of p and
// returns their IDs. A tolerance <= 0 uses each element's default
// (twice its stroke width). A successful erase is recorded in history.
func (s *Store) Erase(p Point, tolerance float64) []string {
	var removed []string
	kept := make([]Element, 0, len(s.elements))
	for _, e := range s.elements {
		if e.Near(p, tolerance) {
			removed = append(removed, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	if len(removed) == 0 {
		return nil
	}
	s.elements = kept
	s.push()
	logger.Debugf("erased %d element(s) at (%.1f, %.1f)", len(removed), p.X, p.Y)
	return removed
}

// Remove deletes the elements with the given IDs, recording one snapshot if
// anything was removed. It reports how many were found.
func (s *Store) Remove(ids ...string) int {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := make([]Element, 0, len(s.elements))
	for _, e := range s.elements {
		if _, ok := drop[e.ID]; !ok {
			kept = append(kept, e)
		}
	}
	n := len(s.elements) - len(kept)
	if n == 0 {
		return 0
	}
	s.elements = kept
	s.push()
	return n
}

// Clear empties the scene and starts a fresh history holding one empty
// snapshot. It cannot be undone.
func (s *Store) Clear() {
	s.elements = nil
	s.history = [][]Element{{}}
	s.cursor = 0
	s.clock.Tick()
	logger.Debug("scene cleared")
}

// Load replaces the scene with elements read from a file. Invalid and
// duplicate elements are skipped. History restarts with the loaded scene as
// its only snapshot.
func (s *Store) Load(elements []Element) int {
	s.elements = s.adopt(elements)
	s.history = [][]Element{cloneElements(s.elements)}
	s.cursor = 0
	s.clock.Tick()
	if skipped := len(elements) - len(s.elements); skipped > 0 {
		logger.Warnf("skipped %d invalid or duplicate element(s) while loading", skipped)
	}
	return len(s.elements)
}

// Replace swaps the whole scene for elements received from a peer and records
// the result as a new snapshot. Invalid and duplicate entries are skipped.
func (s *Store) Replace(elements []Element) int {
	s.elements = s.adopt(elements)
	s.push()
	return len(s.elements)
}

func (s *Store) adopt(elements []Element) []Element {
	clean := Clean(elements)
	for _, e := range clean {
		s.seen[e.ID] = struct{}{}
	}
	return clean
}

// Elements returns a copy of the current scene in drawing order.
func (s *Store) Elements() []Element {
	return cloneElements(s.elements)
}

func (s *Store) Len() int         { return len(s.elements) }
func (s *Store) Cursor() int      { return s.cursor }
func (s *Store) HistoryLen() int  { return len(s.history) }
func (s *Store) CanUndo() bool    { return s.cursor > 0 }
func (s *Store) CanRedo() bool    { return s.cursor < len(s.history)-1 }
func (s *Store) Revision() uint64 { return s.clock.Now() }

// Observe advances the store's clock past a revision seen from a peer.
func (s *Store) Observe(rev uint64) {
	s.clock.Observe(rev)
}

func (s *Store) push() {
	s.history = append(s.history[:s.cursor+1], cloneElements(s.elements))
	s.cursor = len(s.history) - 1
	s.clock.Tick()
}

func (s *Store) restore() {
	s.elements = cloneElements(s.history[s.cursor])
	s.clock.Tick()
}
