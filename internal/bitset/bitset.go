// Copyright 2021 The bit Authors and Caleb Spare. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package bitset provides a fixed-capacity packed array of bits.
package bitset

import (
	"fmt"
	"math/bits"

	"github.com/bpowers/pts/internal/zero"
)

// Bitset is an in-memory bitmap that is conceptually similar to []bool, but more memory efficient.
// Its length is fixed at construction.
type Bitset struct {
	bits   []uint64
	length int64
}

func getOffsets(off int64) (sliceOff int64, bitOff uint64) {
	sliceOff = off / 64
	bitOff = uint64(off) % 64
	return
}

// WordsFor returns the number of uint64 words backing a bitset of the given length.
func WordsFor(length int64) int {
	return int((length + 63) / 64)
}

func (b *Bitset) check(off int64) {
	if off < 0 || off >= b.length {
		panic(fmt.Sprintf("bitset: index %d out of range [0, %d)", off, b.length))
	}
}

// Len returns the fixed number of bits in b.
func (b *Bitset) Len() int64 {
	return b.length
}

// Set sets the bit at position `off` to 1.
func (b *Bitset) Set(off int64) {
	b.check(off)
	sliceOff, bitOff := getOffsets(off)
	u64 := &b.bits[sliceOff]
	*u64 |= 1 << bitOff
}

// TestAndSet sets the bit at position `off` and reports whether it was already set.
func (b *Bitset) TestAndSet(off int64) bool {
	b.check(off)
	sliceOff, bitOff := getOffsets(off)
	u64 := &b.bits[sliceOff]
	mask := uint64(1) << bitOff
	if *u64&mask != 0 {
		return true
	}
	*u64 |= mask
	return false
}

// Clear sets the bit at position `off` to 0.
func (b *Bitset) Clear(off int64) {
	b.check(off)
	sliceOff, bitOff := getOffsets(off)
	u64 := &b.bits[sliceOff]
	*u64 &= ^(1 << bitOff)
}

// IsSet returns true if the bit at position `off` is 1.
func (b *Bitset) IsSet(off int64) bool {
	b.check(off)
	sliceOff, bitOff := getOffsets(off)
	return b.bits[sliceOff]&(1<<bitOff) != 0
}

// And returns a new bitset holding the intersection of a and b.  Neither
// input is modified.  Both must have the same length.
func And(a, b *Bitset) *Bitset {
	if a.length != b.length {
		panic(fmt.Sprintf("bitset: And of mismatched lengths %d and %d", a.length, b.length))
	}
	out := New(a.length)
	for i, w := range a.bits {
		out.bits[i] = w & b.bits[i]
	}
	return out
}

// Equal reports whether b and other have the same length and the same bits set.
func (b *Bitset) Equal(other *Bitset) bool {
	if b.length != other.length {
		return false
	}
	for i, w := range b.bits {
		if other.bits[i] != w {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of b.
func (b *Bitset) Clone() *Bitset {
	words := make([]uint64, len(b.bits))
	copy(words, b.bits)
	return &Bitset{
		bits:   words,
		length: b.length,
	}
}

// Count returns the number of set bits.  It scans every word.
func (b *Bitset) Count() int {
	n := 0
	for _, w := range b.bits {
		n += bits.OnesCount64(w)
	}
	return n
}

// NextSet returns the position of the first set bit at or after `from`, or -1.
func (b *Bitset) NextSet(from int64) int64 {
	if from < 0 {
		from = 0
	}
	if from >= b.length {
		return -1
	}
	sliceOff, bitOff := getOffsets(from)
	w := b.bits[sliceOff] >> bitOff
	if w != 0 {
		return from + int64(bits.TrailingZeros64(w))
	}
	for i := sliceOff + 1; i < int64(len(b.bits)); i++ {
		if w := b.bits[i]; w != 0 {
			return i*64 + int64(bits.TrailingZeros64(w))
		}
	}
	return -1
}

// Words returns the backing words of b.
// SAFETY: the returned slice must never be written to, only read.
func (b *Bitset) Words() []uint64 {
	return b.bits
}

// Reset clears every bit in place.
func (b *Bitset) Reset() {
	zero.U64(b.bits)
}

// New returns a new in-memory bitset where you can set, clear and test for individual bits.
func New(length int64) *Bitset {
	if length < 0 {
		panic(fmt.Sprintf("bitset: negative length %d", length))
	}
	return &Bitset{
		bits:   make([]uint64, WordsFor(length)),
		length: length,
	}
}

// FromWords returns a bitset of the given length backed by words, which must
// be all zero and hold exactly WordsFor(length) elements.
func FromWords(words []uint64, length int64) *Bitset {
	if len(words) != WordsFor(length) {
		panic(fmt.Sprintf("bitset: %d words cannot back length %d", len(words), length))
	}
	return &Bitset{
		bits:   words,
		length: length,
	}
}
