// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package pts

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// maxBitmapUniverse is the largest universe whose ids all fit in a uint32.
const maxBitmapUniverse = 1 << 32

func checkBitmapUniverse(universe int) error {
	if int64(universe) > maxBitmapUniverse {
		return fmt.Errorf("%w: %d > %d", ErrUniverseTooLarge, universe, int64(maxBitmapUniverse))
	}
	return nil
}

// ToBitmap returns the members of s as a compressed roaring bitmap, for
// consumers of analysis results that do not want a universe-sized vector
// per reference.  Universes with ids past math.MaxUint32 are rejected with
// ErrUniverseTooLarge.
func (s *Set) ToBitmap() (*roaring.Bitmap, error) {
	if err := checkBitmapUniverse(s.Universe()); err != nil {
		return nil, err
	}
	rb := roaring.New()
	s.ForEach(func(id int) bool {
		rb.Add(uint32(id))
		return true
	})
	rb.RunOptimize()
	return rb, nil
}

// FromBitmap builds an unowned set over universe holding the members of rb.
// Members outside the universe yield an *OutOfRangeError, and universes a
// roaring bitmap cannot address yield ErrUniverseTooLarge.
func FromBitmap(universe int, rb *roaring.Bitmap) (*Set, error) {
	if err := checkBitmapUniverse(universe); err != nil {
		return nil, err
	}
	s := New(universe)
	if rb.IsEmpty() {
		return s, nil
	}
	if hi := int(rb.Maximum()); hi >= universe {
		return nil, &OutOfRangeError{ID: hi, Universe: universe}
	}
	it := rb.Iterator()
	for it.HasNext() {
		s.bits.Set(int64(it.Next()))
	}
	return s, nil
}
