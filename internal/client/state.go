package client

import "sync"

// State is the single-writer container for the appointment list a session
// displays. It reconciles three sources of truth that can disagree:
//
//   - the server's authoritative list (Loaded),
//   - optimistic local appends after a successful booking (Appended),
//   - local "deletes" that intentionally never reach the server (Removed).
//
// Removed entries are tracked as a hidden-ID set instead of being cut out of
// the backing slice, so the divergence from server truth stays inspectable.
// A fresh Loaded clears the set, which is why locally deleted records
// reappear after a reload.
//
// A booking can complete while the initial fetch is still in flight. The
// policy here is deterministic: appends that land before the first Loaded
// are also remembered as pending and re-applied (deduplicated by ID) after
// Loaded replaces the list, so both records survive the race.
type State struct {
	mu sync.Mutex

	records []Record
	hidden  map[string]struct{}
	pending []Record
	loaded  bool
}

func NewState() *State {
	return &State{
		records: make([]Record, 0),
		hidden:  make(map[string]struct{}),
	}
}

// Loaded replaces the list with the server's view, then re-applies any
// appends that raced the fetch.
func (s *State) Loaded(list []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make([]Record, 0, len(list)+len(s.pending))
	s.records = append(s.records, list...)

	for _, p := range s.pending {
		if !s.containsLocked(p.ID) {
			s.records = append(s.records, p)
		}
	}

	s.pending = nil
	s.hidden = make(map[string]struct{})
	s.loaded = true
}

// Appended adds an optimistically created record to the list.
func (s *State) Appended(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.containsLocked(rec.ID) {
		return
	}

	s.records = append(s.records, rec)

	if !s.loaded {
		s.pending = append(s.pending, rec)
	}
}

// Removed hides the record with the given ID from the visible list. Display
// only: no request is issued, and the record comes back on the next Loaded.
func (s *State) Removed(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.containsLocked(id) {
		s.hidden[id] = struct{}{}
	}
}

// Visible returns the records the session should display, in list order,
// with locally hidden entries filtered out.
func (s *State) Visible() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Record, 0, len(s.records))

	for _, r := range s.records {
		if _, ok := s.hidden[r.ID]; ok {
			continue
		}
		out = append(out, r)
	}

	return out
}

// HiddenIDs reports which records are locally hidden.
func (s *State) HiddenIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.hidden))
	for id := range s.hidden {
		out = append(out, id)
	}

	return out
}

func (s *State) containsLocked(id string) bool {
	for _, r := range s.records {
		if r.ID == id {
			return true
		}
	}

	return false
}
