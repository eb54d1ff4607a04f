// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package zero

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestU64(t *testing.T) {
	for _, input := range [][]uint64{
		{},
		{1, ^uint64(0), 3},
	} {
		initialLen := len(input)
		initialCap := cap(input)
		expected := make([]uint64, len(input))
		allocs := testing.AllocsPerRun(1, func() {
			U64(input)
		})
		require.Zero(t, allocs)
		require.Equal(t, expected, input)
		// len and cap should be unchanged
		require.Equal(t, initialLen, len(input))
		require.Equal(t, initialCap, cap(input))
	}
}

func TestU64Slices(t *testing.T) {
	for _, input := range [][][]uint64{
		{},
		{{1}, {2, 3}},
	} {
		initialLen := len(input)
		expected := make([][]uint64, len(input))
		U64Slices(input)
		require.Equal(t, expected, input)
		require.Equal(t, initialLen, len(input))
	}
}
