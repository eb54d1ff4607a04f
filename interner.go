// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package pts

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/bpowers/pts/internal/bitset"
	"github.com/bpowers/pts/internal/zero"
)

const defaultFreeListLimit = 1024

// InternerOption configures an Interner.
type InternerOption func(*internerOptions)

type internerOptions struct {
	logger        *slog.Logger
	freeListLimit int
}

// WithLogger sets an optional logger for the interner to report reclamation on.
// If not provided, no logging output will be produced.
func WithLogger(logger *slog.Logger) InternerOption {
	return func(opts *internerOptions) {
		opts.logger = logger
	}
}

// WithFreeListLimit bounds how many reclaimed bit vectors are kept for reuse.
// Zero disables recycling.
func WithFreeListLimit(n int) InternerOption {
	return func(opts *internerOptions) {
		opts.freeListLimit = n
	}
}

// InternerStats counts what an Interner has done since it was created.
type InternerStats struct {
	Interned  int // distinct sets currently held
	Hits      int // Intern calls answered with an existing set
	Misses    int // Intern calls that made their argument canonical
	Reclaimed int // sets dropped after their last Release
	Recycled  int // NewSet calls served from the free list
}

// Interner shares equal sets between owners.  Every interned set is held
// once, keyed by its membership; owners acquire it through Intern and give it
// back through Release.  When the last owner releases a set, the Interner
// forgets it and keeps its storage for the next NewSet.
//
// Interned sets must not be mutated in place: take a private copy with
// Mutable first.
type Interner struct {
	universe int
	byHash   map[uint64][]*Set
	free     [][]uint64
	logger   *slog.Logger
	limit    int
	stats    InternerStats
}

// NewInterner returns an empty Interner for sets over the given universe.
func NewInterner(universe int, opts ...InternerOption) *Interner {
	options := internerOptions{
		freeListLimit: defaultFreeListLimit,
	}
	options.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, opt := range opts {
		opt(&options)
	}
	if universe < 0 {
		panic(fmt.Sprintf("pts: negative universe size %d", universe))
	}
	return &Interner{
		universe: universe,
		byHash:   make(map[uint64][]*Set),
		logger:   options.logger,
		limit:    options.freeListLimit,
	}
}

// Universe returns the universe size of the sets this Interner accepts.
func (in *Interner) Universe() int {
	return in.universe
}

// NewSet returns an empty, unowned set, reusing reclaimed storage when there is any.
func (in *Interner) NewSet() *Set {
	if n := len(in.free); n > 0 {
		words := in.free[n-1]
		in.free[n-1] = nil
		in.free = in.free[:n-1]
		in.stats.Recycled++
		return &Set{bits: bitset.FromWords(words, int64(in.universe))}
	}
	return New(in.universe)
}

func (in *Interner) checkUniverse(s *Set) error {
	if s.Universe() != in.universe {
		return &UniverseMismatchError{Want: in.universe, Got: s.Universe()}
	}
	return nil
}

func (in *Interner) lookup(s *Set, h uint64) *Set {
	for _, candidate := range in.byHash[h] {
		if candidate.Equal(s) {
			return candidate
		}
	}
	return nil
}

// Intern returns the shared set equal to s and counts the caller as one more
// owner of it.  If no equal set is held yet, s itself becomes the shared
// instance.  Otherwise s is recycled when nobody else owns it, and the
// caller must use the returned set from then on.  Interning a set that was
// already recycled returns ErrReclaimed.
func (in *Interner) Intern(s *Set) (*Set, error) {
	if s.bits == nil {
		return nil, fmt.Errorf("Intern: %w", ErrReclaimed)
	}
	if err := in.checkUniverse(s); err != nil {
		return nil, fmt.Errorf("Intern: %w", err)
	}
	h := s.Hash()
	if existing := in.lookup(s, h); existing != nil {
		existing.IncRefCount()
		in.stats.Hits++
		if existing != s && s.Unused() {
			in.recycle(s)
		}
		return existing, nil
	}
	in.byHash[h] = append(in.byHash[h], s)
	s.IncRefCount()
	in.stats.Misses++
	in.stats.Interned++
	return s, nil
}

// Release gives back one ownership of s acquired through Intern.  When the
// last owner releases it, s is removed from the Interner and its storage is
// recycled; the caller must not touch s afterwards.
func (in *Interner) Release(s *Set) error {
	h, ok := in.owns(s)
	if !ok {
		return ErrNotInterned
	}
	if err := s.DecRefCount(); err != nil {
		return fmt.Errorf("Release: %w", err)
	}
	if !s.Unused() {
		return nil
	}
	in.remove(s, h)
	in.stats.Interned--
	in.stats.Reclaimed++
	in.logger.Debug("reclaimed points-to set", "hash", h, "interned", in.stats.Interned)
	in.recycle(s)
	return nil
}

// Mutable returns a private, unowned copy of the interned set s and releases
// the caller's ownership of s.
func (in *Interner) Mutable(s *Set) (*Set, error) {
	if _, ok := in.owns(s); !ok {
		return nil, ErrNotInterned
	}
	c := in.NewSet()
	copy(c.bits.Words(), s.bits.Words())
	if err := in.Release(s); err != nil {
		in.recycle(c)
		return nil, err
	}
	return c, nil
}

// owns reports whether s is the instance held by in, along with its hash.
func (in *Interner) owns(s *Set) (uint64, bool) {
	if s.bits == nil || s.Universe() != in.universe {
		return 0, false
	}
	h := s.Hash()
	return h, in.lookup(s, h) == s
}

func (in *Interner) remove(s *Set, h uint64) {
	bucket := in.byHash[h]
	for i, candidate := range bucket {
		if candidate == s {
			last := len(bucket) - 1
			bucket[i] = bucket[last]
			bucket[last] = nil
			bucket = bucket[:last]
			break
		}
	}
	if len(bucket) == 0 {
		delete(in.byHash, h)
	} else {
		in.byHash[h] = bucket
	}
}

// recycle takes ownership of the storage behind s.  s must not be used afterwards.
func (in *Interner) recycle(s *Set) {
	if len(in.free) >= in.limit || s.bits == nil {
		return
	}
	words := s.bits.Words()
	zero.U64(words)
	in.free = append(in.free, words)
	s.bits = nil
}

// Len returns the number of distinct sets currently interned.
func (in *Interner) Len() int {
	return in.stats.Interned
}

// Stats returns a snapshot of the Interner's counters.
func (in *Interner) Stats() InternerStats {
	return in.stats
}

// Reset drops every interned set and the free list, regardless of owners.
func (in *Interner) Reset() {
	for h, bucket := range in.byHash {
		for _, s := range bucket {
			s.refCount = 0
		}
		delete(in.byHash, h)
	}
	zero.U64Slices(in.free)
	in.free = in.free[:0]
	in.stats.Interned = 0
	in.logger.Info("interner reset", "universe", in.universe)
}
