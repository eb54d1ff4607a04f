// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package pts

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is the sentinel behind OutOfRangeError.
	ErrOutOfRange = errors.New("node id out of range")
	// ErrRefCountUnderflow is returned when a set is released more times than it was acquired.
	ErrRefCountUnderflow = errors.New("reference count underflow")
	// ErrUniverseMismatch is the sentinel behind UniverseMismatchError.
	ErrUniverseMismatch = errors.New("universe size mismatch")
	// ErrNotInterned is returned when an Interner is asked to release a set it does not own.
	ErrNotInterned = errors.New("set is not interned")
	// ErrReclaimed is returned when a set whose storage an Interner already reclaimed is used again.
	ErrReclaimed = errors.New("set storage was reclaimed")
	// ErrUniverseTooLarge is returned when a universe cannot be represented by a 32-bit roaring bitmap.
	ErrUniverseTooLarge = errors.New("universe too large for roaring bitmap")
	// ErrMalformedLine is returned for text that is not of the form name:id,id,...
	ErrMalformedLine = errors.New("malformed set line")
)

// OutOfRangeError reports a node id outside [0, Universe).
//
// Add, Contains and AddAll panic with a *OutOfRangeError: an id outside the
// universe means the caller sized the universe wrong.
type OutOfRangeError struct {
	ID       int
	Universe int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("node id %d out of range [0, %d)", e.ID, e.Universe)
}

func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }

// UniverseMismatchError reports an operation on two sets (or a set and an
// Interner) built over different universe sizes.
type UniverseMismatchError struct {
	Want int
	Got  int
}

func (e *UniverseMismatchError) Error() string {
	return fmt.Sprintf("universe size mismatch: expected %d, got %d", e.Want, e.Got)
}

func (e *UniverseMismatchError) Unwrap() error { return ErrUniverseMismatch }
