// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package bytesutil parses the fields of text lines without allocating.
package bytesutil

import (
	"bytes"
	"errors"
	"math"
)

var (
	// ErrEmptyNumber is returned by ParseUint for input with no digits.
	ErrEmptyNumber = errors.New("empty number")
	// ErrBadDigit is returned by ParseUint for input containing anything but decimal digits.
	ErrBadDigit = errors.New("invalid digit")
	// ErrOverflow is returned by ParseUint when the value does not fit in an int.
	ErrOverflow = errors.New("number overflows int")
)

// ParseUint parses a non-negative decimal integer without allocating,
// unlike strconv.Atoi(string(b)).  Surrounding spaces are ignored.
func ParseUint(b []byte) (int, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return 0, ErrEmptyNumber
	}
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, ErrBadDigit
		}
		d := int(c - '0')
		if n > (math.MaxInt-d)/10 {
			return 0, ErrOverflow
		}
		n = n*10 + d
	}
	return n, nil
}

// EachField calls fn for every sep-delimited field of s.  An empty s has no
// fields.  Iteration stops at the first error fn returns.
func EachField(s []byte, sep byte, fn func(field []byte) error) error {
	if len(s) == 0 {
		return nil
	}
	sepBytes := [1]byte{sep}
	for {
		field, rest, ok := bytes.Cut(s, sepBytes[:])
		if err := fn(field); err != nil {
			return err
		}
		if !ok {
			return nil
		}
		s = rest
	}
}
