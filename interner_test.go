// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package pts

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func newSetOf(in *Interner, ids ...int) *Set {
	s := in.NewSet()
	s.AddAll(IDs(ids...), len(ids))
	return s
}

func TestInternShares(t *testing.T) {
	in := NewInterner(64)

	a, err := in.Intern(newSetOf(in, 1, 2, 3))
	require.NoError(t, err)
	require.Equal(t, 1, a.RefCount())

	b, err := in.Intern(newSetOf(in, 3, 2, 1))
	require.NoError(t, err)
	require.Same(t, a, b)
	require.Equal(t, 2, a.RefCount())

	c, err := in.Intern(newSetOf(in, 1, 2))
	require.NoError(t, err)
	require.NotSame(t, a, c)

	require.Equal(t, 2, in.Len())
	stats := in.Stats()
	require.Equal(t, 1, stats.Hits)
	require.Equal(t, 2, stats.Misses)
	// the duplicate {1, 2, 3} was handed back to the free list and reused for {1, 2}
	require.Equal(t, 1, stats.Recycled)
}

func TestInternSameInstance(t *testing.T) {
	in := NewInterner(8)
	s := newSetOf(in, 4)
	a, err := in.Intern(s)
	require.NoError(t, err)
	b, err := in.Intern(s)
	require.NoError(t, err)
	require.Same(t, s, a)
	require.Same(t, s, b)
	require.Equal(t, 2, s.RefCount())
	require.Equal(t, []int{4}, members(s))
}

func TestInternKeepsOwnedDuplicate(t *testing.T) {
	in := NewInterner(8)
	a, err := in.Intern(newSetOf(in, 1))
	require.NoError(t, err)

	// an equal set that someone else still owns must not be recycled
	dup := newSetOf(in, 1)
	dup.IncRefCount()
	b, err := in.Intern(dup)
	require.NoError(t, err)
	require.Same(t, a, b)
	require.Equal(t, []int{1}, members(dup))
	require.Equal(t, 1, dup.RefCount())
}

func TestRelease(t *testing.T) {
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	in := NewInterner(32, WithLogger(logger))

	a, err := in.Intern(newSetOf(in, 7, 9))
	require.NoError(t, err)
	_, err = in.Intern(newSetOf(in, 9, 7))
	require.NoError(t, err)
	require.Equal(t, 2, a.RefCount())

	require.NoError(t, in.Release(a))
	require.False(t, a.Unused())
	require.Equal(t, 1, in.Len())

	require.NoError(t, in.Release(a))
	require.Equal(t, 0, in.Len())
	require.Equal(t, 1, in.Stats().Reclaimed)
	require.Contains(t, logBuf.String(), "reclaimed points-to set")

	// a reclaimed set belongs to the interner now
	require.ErrorIs(t, in.Release(a), ErrNotInterned)

	// its storage comes back zeroed
	recycled := in.NewSet()
	require.Equal(t, 0, recycled.Len())
	require.Equal(t, 32, recycled.Universe())
}

func TestReleaseNotInterned(t *testing.T) {
	in := NewInterner(16)
	require.ErrorIs(t, in.Release(New(16)), ErrNotInterned)
	require.ErrorIs(t, in.Release(New(17)), ErrNotInterned)

	a, err := in.Intern(newSetOf(in, 1))
	require.NoError(t, err)
	// an equal but distinct instance is not the interned one
	require.ErrorIs(t, in.Release(newSetOf(in, 1)), ErrNotInterned)
	require.Equal(t, 1, a.RefCount())
}

func TestReleaseUnderflow(t *testing.T) {
	in := NewInterner(16)
	a, err := in.Intern(newSetOf(in, 2))
	require.NoError(t, err)
	// an owner that bypassed the interner released the set directly
	require.NoError(t, a.DecRefCount())
	require.ErrorIs(t, in.Release(a), ErrRefCountUnderflow)
}

func TestInternRecycledSet(t *testing.T) {
	in := NewInterner(8)
	a, err := in.Intern(newSetOf(in, 1))
	require.NoError(t, err)

	// dup is recycled because an equal set is already interned
	dup := newSetOf(in, 1)
	shared, err := in.Intern(dup)
	require.NoError(t, err)
	require.Same(t, a, shared)

	_, err = in.Intern(dup)
	require.ErrorIs(t, err, ErrReclaimed)
	require.ErrorIs(t, in.Release(dup), ErrNotInterned)
	require.Equal(t, 2, a.RefCount())
	require.Equal(t, 1, in.Len())
}

func TestInternUniverseMismatch(t *testing.T) {
	in := NewInterner(16)
	_, err := in.Intern(New(15))
	require.ErrorIs(t, err, ErrUniverseMismatch)
	require.Equal(t, 0, in.Len())
}

func TestMutable(t *testing.T) {
	in := NewInterner(16)
	a, err := in.Intern(newSetOf(in, 1, 5))
	require.NoError(t, err)
	_, err = in.Intern(newSetOf(in, 1, 5))
	require.NoError(t, err)

	m, err := in.Mutable(a)
	require.NoError(t, err)
	require.NotSame(t, a, m)
	require.True(t, m.Unused())
	require.True(t, m.Equal(a))
	require.Equal(t, 1, a.RefCount())

	m.Add(ID(6))
	require.False(t, a.Contains(ID(6)))

	// the mutated copy interns as a new set
	m, err = in.Intern(m)
	require.NoError(t, err)
	require.Equal(t, 2, in.Len())
	require.Equal(t, []int{1, 5, 6}, members(m))

	_, err = in.Mutable(New(16))
	require.ErrorIs(t, err, ErrNotInterned)
}

func TestFreeListLimit(t *testing.T) {
	in := NewInterner(16, WithFreeListLimit(0))
	a, err := in.Intern(newSetOf(in, 3))
	require.NoError(t, err)
	require.NoError(t, in.Release(a))
	in.NewSet()
	require.Equal(t, 0, in.Stats().Recycled)
	// with recycling disabled the released set keeps its storage
	require.Equal(t, []int{3}, members(a))
}

func TestInternerReset(t *testing.T) {
	in := NewInterner(16)
	a, err := in.Intern(newSetOf(in, 3))
	require.NoError(t, err)
	_, err = in.Intern(newSetOf(in, 3))
	require.NoError(t, err)

	in.Reset()
	require.Equal(t, 0, in.Len())
	require.True(t, a.Unused())
	require.ErrorIs(t, in.Release(a), ErrNotInterned)
	require.Equal(t, []int{3}, members(a))
}

func BenchmarkIntern(b *testing.B) {
	const universe = 4096
	in := NewInterner(universe)
	nodes := IDs(1, 17, 400, 4000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := in.NewSet()
		s.AddAll(nodes, len(nodes))
		shared, err := in.Intern(s)
		if err != nil {
			b.Fatal(err)
		}
		if err := in.Release(shared); err != nil {
			b.Fatal(err)
		}
	}
}
