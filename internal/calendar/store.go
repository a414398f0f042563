package calendar

import (
	"fmt"
	"sort"
)

// Store holds events by identity with a secondary index by series id.
// It is not safe for concurrent use; a Calendar owns exactly one.
type Store struct {
	events map[Key]Event
	series map[string]map[Key]struct{}
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		events: map[Key]Event{},
		series: map[string]map[Key]struct{}{},
	}
}

func (s *Store) Len() int { return len(s.events) }

func (s *Store) Get(k Key) (Event, bool) {
	e, ok := s.events[k]
	return e, ok
}

func (s *Store) Contains(k Key) bool {
	_, ok := s.events[k]
	return ok
}

// Insert adds one event. Returns ErrDuplicate if its identity is taken.
func (s *Store) Insert(e Event) error {
	return s.Commit(nil, []Event{e})
}

// Commit removes every key in removes and then adds every event in inserts,
// as one unit. The whole batch is checked first; on error nothing changes.
func (s *Store) Commit(removes []Key, inserts []Event) error {
	gone := make(map[Key]struct{}, len(removes))
	for _, k := range removes {
		if !s.Contains(k) {
			return fmt.Errorf("%w: event %q", ErrNotFound, k.Subject)
		}
		gone[k] = struct{}{}
	}
	added := make(map[Key]struct{}, len(inserts))
	for _, e := range inserts {
		k := e.Key()
		if _, dup := added[k]; dup {
			return fmt.Errorf("%w: event %s", ErrDuplicate, e)
		}
		if _, removed := gone[k]; s.Contains(k) && !removed {
			return fmt.Errorf("%w: event %s", ErrDuplicate, e)
		}
		added[k] = struct{}{}
	}

	for _, k := range removes {
		s.remove(k)
	}
	for _, e := range inserts {
		s.add(e)
	}
	return nil
}

func (s *Store) add(e Event) {
	k := e.Key()
	s.events[k] = e
	if e.SeriesID == "" {
		return
	}
	members, ok := s.series[e.SeriesID]
	if !ok {
		members = map[Key]struct{}{}
		s.series[e.SeriesID] = members
	}
	members[k] = struct{}{}
}

func (s *Store) remove(k Key) {
	e, ok := s.events[k]
	if !ok {
		return
	}
	delete(s.events, k)
	if members, ok := s.series[e.SeriesID]; ok {
		delete(members, k)
		if len(members) == 0 {
			delete(s.series, e.SeriesID)
		}
	}
}

// All returns every event ordered by start, end, then subject.
func (s *Store) All() []Event {
	out := make([]Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e)
	}
	sortEvents(out)
	return out
}

// Series returns the members of a series ordered by start.
func (s *Store) Series(id string) []Event {
	members := s.series[id]
	out := make([]Event, 0, len(members))
	for k := range members {
		out = append(out, s.events[k])
	}
	sortEvents(out)
	return out
}

// SeriesIDs returns every series id present in the store.
func (s *Store) SeriesIDs() []string {
	out := make([]string, 0, len(s.series))
	for id := range s.series {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func sortEvents(items []Event) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if !a.End.Equal(b.End) {
			return a.End.Before(b.End)
		}
		return a.Subject < b.Subject
	})
}
