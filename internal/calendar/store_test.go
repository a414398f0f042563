package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeEvent(subject string, hour int, series string) Event {
	start := time.Date(2025, 6, 2, hour, 0, 0, 0, time.UTC)
	return Event{Subject: subject, Start: start, End: start.Add(time.Hour), Status: StatusPublic, SeriesID: series}
}

func TestStoreCommitSwapsIdentityAndIndex(t *testing.T) {
	s := NewStore()
	a := storeEvent("A", 9, "x")
	require.NoError(t, s.Insert(a))
	require.NoError(t, s.Insert(storeEvent("B", 10, "x")))
	assert.Len(t, s.Series("x"), 2)

	moved := a.WithSubject("A2").WithSeriesID("y")
	require.NoError(t, s.Commit([]Key{a.Key()}, []Event{moved}))

	assert.False(t, s.Contains(a.Key()))
	assert.True(t, s.Contains(moved.Key()))
	assert.Len(t, s.Series("x"), 1)
	assert.Len(t, s.Series("y"), 1)
	assert.Equal(t, []string{"x", "y"}, s.SeriesIDs())
}

func TestStoreCommitValidatesBeforeMutating(t *testing.T) {
	s := NewStore()
	a, b := storeEvent("A", 9, ""), storeEvent("B", 10, "")
	require.NoError(t, s.Insert(a))
	require.NoError(t, s.Insert(b))

	// Renaming A onto B's identity collides with a surviving key.
	err := s.Commit([]Key{a.Key()}, []Event{a.WithSubject("B").WithSpan(b.Start, b.End)})
	assert.ErrorIs(t, err, ErrDuplicate)

	// Two inserts sharing one identity collide with each other.
	c := storeEvent("C", 11, "")
	err = s.Commit(nil, []Event{c, c})
	assert.ErrorIs(t, err, ErrDuplicate)

	err = s.Commit([]Key{storeEvent("Z", 1, "").Key()}, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 2, s.Len())
	assert.False(t, s.Contains(c.Key()))
}

func TestStoreCommitAllowsSwapOfIdentities(t *testing.T) {
	s := NewStore()
	a, b := storeEvent("A", 9, ""), storeEvent("B", 10, "")
	require.NoError(t, s.Insert(a))
	require.NoError(t, s.Insert(b))

	// Exchanging subjects is legal when both old keys are removed together.
	err := s.Commit([]Key{a.Key(), b.Key()}, []Event{a.WithSubject("B").WithSpan(b.Start, b.End), b.WithSubject("A").WithSpan(a.Start, a.End)})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
}
