// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package unsafeslice

import (
	"unsafe"
)

// U64sToBytes returns a byte slice referring to the contents of the input words,
// in native byte order.
// SAFETY: the returned byte slice must never be written to, only read, and must
// not outlive words.
func U64sToBytes(words []uint64) []byte {
	if len(words) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), len(words)*8)
}
