// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// gen-testdata prints a synthetic points-to workload, one `name:id,id,...`
// set per line, in which a fraction of the sets repeat an earlier one.
package main

import (
	"bufio"
	crand "crypto/rand"
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"

	"github.com/bpowers/pts"
)

type config struct {
	nSets    int
	universe int
	maxSize  int
	dups     float64
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		var seedBytes [8]byte
		_, _ = crand.Read(seedBytes[:])
		seed = int64(binary.LittleEndian.Uint64(seedBytes[:]))
	}
	return rand.New(rand.NewSource(seed))
}

// generate writes the workload to out.  A workload that could not be written
// in full, including its final flush, is an error.
func generate(out io.Writer, cfg config, rng *rand.Rand) error {
	w := bufio.NewWriterSize(out, 64*1024)

	var emitted []*pts.Set
	var line []byte
	for i := 0; i < cfg.nSets; i++ {
		var s *pts.Set
		if len(emitted) > 0 && rng.Float64() < cfg.dups {
			s = emitted[rng.Intn(len(emitted))]
		} else {
			s = pts.New(cfg.universe)
			for j := rng.Intn(cfg.maxSize + 1); j > 0; j-- {
				s.Add(pts.ID(rng.Intn(cfg.universe)))
			}
			emitted = append(emitted, s)
		}
		line = pts.AppendSet(line[:0], "v"+strconv.Itoa(i), s)
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return fmt.Errorf("w.Write: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("w.Flush: %w", err)
	}
	return nil
}

func main() {
	var (
		cfg  config
		seed int64
	)
	flag.IntVar(&cfg.nSets, "n", 100000, "number of sets to emit")
	flag.IntVar(&cfg.universe, "universe", 4096, "number of analysis nodes")
	flag.IntVar(&cfg.maxSize, "max", 32, "maximum members per set")
	flag.Float64Var(&cfg.dups, "dups", 0.5, "fraction of sets that repeat an earlier set")
	flag.Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	flag.Parse()
	if cfg.universe <= 0 || cfg.maxSize <= 0 || cfg.dups < 0 || cfg.dups > 1 {
		fmt.Fprintln(os.Stderr, "gen-testdata: -universe and -max must be positive and -dups in [0, 1]")
		os.Exit(2)
	}

	if err := generate(os.Stdout, cfg, newRand(seed)); err != nil {
		fmt.Fprintf(os.Stderr, "gen-testdata: %s\n", err)
		os.Exit(1)
	}
}
