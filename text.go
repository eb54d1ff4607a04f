// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package pts

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/bpowers/pts/internal/bytesutil"
)

// ParseSet parses a line of the form `name:id,id,...` into a new unowned set
// over universe.  The member list may be empty.
func ParseSet(line []byte, universe int) (string, *Set, error) {
	name, members, ok := bytes.Cut(line, []byte{':'})
	if !ok || len(name) == 0 {
		return "", nil, ErrMalformedLine
	}
	s := New(universe)
	err := bytesutil.EachField(members, ',', func(field []byte) error {
		id, err := bytesutil.ParseUint(field)
		if err != nil {
			return fmt.Errorf("%w: member %q: %v", ErrMalformedLine, field, err)
		}
		if id >= universe {
			return &OutOfRangeError{ID: id, Universe: universe}
		}
		s.bits.Set(int64(id))
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	return string(name), s, nil
}

// AppendSet appends the `name:id,id,...` form of s to dst, without a trailing newline.
func AppendSet(dst []byte, name string, s *Set) []byte {
	dst = append(dst, name...)
	dst = append(dst, ':')
	first := true
	s.ForEach(func(id int) bool {
		if !first {
			dst = append(dst, ',')
		}
		first = false
		dst = strconv.AppendInt(dst, int64(id), 10)
		return true
	})
	return dst
}

// ReadSets parses every non-empty line of r with ParseSet and hands the
// result to fn.  Errors carry the 1-based line number.
func ReadSets(r io.Reader, universe int, fn func(name string, s *Set) error) error {
	sc := bufio.NewScanner(bufio.NewReaderSize(r, 16*1024))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		name, s, err := ParseSet(line, universe)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := fn(name, s); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("scanner: %w", err)
	}
	return nil
}
