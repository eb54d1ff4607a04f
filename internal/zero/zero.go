// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package zero provides functions to zero slices of specific types.
package zero

// U64 clears every word of b.  The compiler lowers this loop to a memclr.
func U64(b []uint64) {
	for i := range b {
		b[i] = 0
	}
}

// U64Slices drops every reference held in b.
func U64Slices(b [][]uint64) {
	for i := range b {
		b[i] = nil
	}
}
