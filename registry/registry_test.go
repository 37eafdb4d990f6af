// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAddAssignsSequentialIDs(t *testing.T) {
	r := New()
	now := time.Now()

	p1, err := r.Add("alice", "p1", 100, now)
	require.NoError(t, err)
	p2, err := r.Add("bob", "p2", 100, now)
	require.NoError(t, err)

	require.Equal(t, uint64(1), p1.ID)
	require.Equal(t, uint64(2), p2.ID)
	require.Equal(t, 2, r.Count())

	title, err := r.Title(2)
	require.NoError(t, err)
	require.Equal(t, "p2", title)
}

func TestAddRejectsSecondProjectFromOwner(t *testing.T) {
	r := New()
	_, err := r.Add("alice", "p1", 100, time.Now())
	require.NoError(t, err)

	_, err = r.Add("alice", "p2", 100, time.Now())
	require.ErrorIs(t, err, ErrDuplicateRegistration)
	require.Equal(t, 1, r.Count())
}

func TestLookupUnknownProject(t *testing.T) {
	r := New()
	_, err := r.Title(0)
	require.ErrorIs(t, err, ErrProjectNotFound)

	_, ok := r.Get(1)
	require.False(t, ok)
}

func TestResetRestartsIDs(t *testing.T) {
	r := New()
	_, _ = r.Add("alice", "p1", 100, time.Now())
	_, _ = r.Add("bob", "p2", 100, time.Now())

	r.Reset()
	require.Equal(t, 0, r.Count())
	_, ok := r.ProjectOf("alice")
	require.False(t, ok)

	p, err := r.Add("alice", "again", 100, time.Now())
	require.NoError(t, err)
	require.Equal(t, uint64(1), p.ID)
}

func TestAllIsOrderedByID(t *testing.T) {
	r := New()
	for _, owner := range []string{"c", "a", "b"} {
		_, err := r.Add(owner, "t-"+owner, 100, time.Now())
		require.NoError(t, err)
	}

	all := r.All()
	require.Len(t, all, 3)
	for i, p := range all {
		require.Equal(t, uint64(i+1), p.ID)
	}
	require.Equal(t, "c", all[0].Owner)
}
