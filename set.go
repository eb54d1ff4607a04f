// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package pts implements points-to sets for pointer analysis as bit vectors
// over a fixed universe of node numbers.
//
// Every analysed entity (allocation site, variable, field) is numbered once,
// densely and starting from zero, and the number doubles as a bit index.  A
// Set may be shared between several owners; sharing is tracked with an
// explicit reference count that the surrounding analysis drives.  Sets never
// reclaim themselves: once Unused reports true the owner (or an Interner) may
// drop or recycle the set.
//
// Sets are not safe for concurrent mutation.  Read-only queries may run
// concurrently with each other, but not with Add, AddAll or the reference
// counting methods.
package pts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dgryski/go-farm"

	"github.com/bpowers/pts/internal/bitset"
	"github.com/bpowers/pts/internal/unsafeslice"
)

// Node is anything with a stable number in [0, universe) for the analysis run.
type Node interface {
	Number() int
}

// ID is a bare node number.
type ID int

// Number implements Node.
func (id ID) Number() int { return int(id) }

// IDs converts node numbers to a []Node suitable for AddAll.
func IDs(ids ...int) []Node {
	nodes := make([]Node, len(ids))
	for i, id := range ids {
		nodes[i] = ID(id)
	}
	return nodes
}

// Set is a points-to set: one bit per node in the universe, plus a count of
// the owners currently sharing it.
type Set struct {
	bits     *bitset.Bitset
	refCount int
}

// New returns an empty, unowned set over the universe {0, ..., universe-1}.
func New(universe int) *Set {
	if universe < 0 {
		panic(fmt.Sprintf("pts: negative universe size %d", universe))
	}
	return &Set{
		bits: bitset.New(int64(universe)),
	}
}

// Universe returns the number of node ids this set can hold.
func (s *Set) Universe() int {
	return int(s.bits.Len())
}

func (s *Set) offset(n Node) int64 {
	id := n.Number()
	if id < 0 || int64(id) >= s.bits.Len() {
		panic(&OutOfRangeError{ID: id, Universe: s.Universe()})
	}
	return int64(id)
}

// Add inserts n.  Adding a node that is already present has no effect.
func (s *Set) Add(n Node) {
	s.bits.Set(s.offset(n))
}

// Contains reports whether n is a member of s.
func (s *Set) Contains(n Node) bool {
	return s.bits.IsSet(s.offset(n))
}

// AddAll inserts the first count entries of nodes and returns how many of
// them were not already members.  Duplicates within nodes are counted once.
func (s *Set) AddAll(nodes []Node, count int) int {
	if count < 0 || count > len(nodes) {
		panic(fmt.Sprintf("pts: AddAll count %d out of range for %d nodes", count, len(nodes)))
	}
	added := 0
	for _, n := range nodes[:count] {
		if !s.bits.TestAndSet(s.offset(n)) {
			added++
		}
	}
	return added
}

// IsSubsetOf reports whether every member of s is also a member of other.
// s is a subset of other iff s AND other equals s; the intersection is
// computed into a temporary so neither operand changes.
func (s *Set) IsSubsetOf(other *Set) (bool, error) {
	if s.bits.Len() != other.bits.Len() {
		return false, &UniverseMismatchError{Want: s.Universe(), Got: other.Universe()}
	}
	return bitset.And(s.bits, other.bits).Equal(s.bits), nil
}

// Clone returns an independent copy of s.  The copy starts unowned: its
// reference count is zero regardless of how many owners s has.
func (s *Set) Clone() *Set {
	return &Set{
		bits: s.bits.Clone(),
	}
}

// IncRefCount records one more owner of s.
func (s *Set) IncRefCount() {
	s.refCount++
}

// DecRefCount records that one owner released s.  Releasing a set with no
// owners is a double release; the count is left at zero and
// ErrRefCountUnderflow is returned.
func (s *Set) DecRefCount() error {
	if s.refCount == 0 {
		return ErrRefCountUnderflow
	}
	s.refCount--
	return nil
}

// Unused reports whether no owner holds s.
func (s *Set) Unused() bool {
	return s.refCount == 0
}

// RefCount returns the current number of owners.
func (s *Set) RefCount() int {
	return s.refCount
}

// Len returns the number of members.  It scans the whole bit vector, so keep
// it out of hot paths; AddAll already reports how many members it added.
func (s *Set) Len() int {
	return s.bits.Count()
}

// ForEach calls fn with each member in ascending order until fn returns false.
func (s *Set) ForEach(fn func(id int) bool) {
	for i := s.bits.NextSet(0); i >= 0; i = s.bits.NextSet(i + 1) {
		if !fn(int(i)) {
			return
		}
	}
}

// Equal reports whether s and other have the same universe and members.
// Reference counts are not compared.
func (s *Set) Equal(other *Set) bool {
	return s.bits.Equal(other.bits)
}

// Hash returns a fingerprint of the membership of s.  Equal sets have equal hashes.
func (s *Set) Hash() uint64 {
	return farm.Hash64WithSeed(unsafeslice.U64sToBytes(s.bits.Words()), uint64(s.bits.Len()))
}

func (s *Set) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	s.ForEach(func(id int) bool {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(strconv.Itoa(id))
		return true
	})
	sb.WriteByte('}')
	return sb.String()
}
