// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// pts-share replays a points-to workload through an Interner and reports how
// much sharing it finds.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/bpowers/pts"
)

type report struct {
	sets    int
	subsets int
	members int
}

func run(logger *slog.Logger, path string, universe int) (*report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	in := pts.NewInterner(universe, pts.WithLogger(logger))
	var (
		rep    report
		owned  []*pts.Set
		prev   *pts.Set
		addBuf []pts.Node
	)
	err = pts.ReadSets(f, universe, func(name string, s *pts.Set) error {
		// rebuild through the interner's storage so reclaimed vectors get reused
		fresh := in.NewSet()
		addBuf = addBuf[:0]
		s.ForEach(func(id int) bool {
			addBuf = append(addBuf, pts.ID(id))
			return true
		})
		rep.members += fresh.AddAll(addBuf, len(addBuf))

		shared, err := in.Intern(fresh)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if prev != nil {
			ok, err := prev.IsSubsetOf(shared)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if ok {
				rep.subsets++
			}
		}
		prev = shared
		owned = append(owned, shared)
		rep.sets++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pts.ReadSets(%s): %w", path, err)
	}

	stats := in.Stats()
	logger.Info("interned workload",
		"sets", rep.sets,
		"distinct", stats.Interned,
		"hits", stats.Hits,
		"recycled", stats.Recycled,
		"subsets", rep.subsets,
		"members", rep.members)

	for _, s := range owned {
		if err := in.Release(s); err != nil {
			return nil, fmt.Errorf("in.Release: %w", err)
		}
	}
	if n := in.Len(); n != 0 {
		return nil, fmt.Errorf("%d sets still interned after releasing every owner", n)
	}
	logger.Info("released workload", "reclaimed", in.Stats().Reclaimed)
	return &rep, nil
}

func main() {
	var (
		universe = flag.Int("universe", 4096, "number of analysis nodes")
		verbose  = flag.Bool("v", false, "log every reclaimed set")
	)
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: pts-share [-universe N] [-v] WORKLOAD")
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if _, err := run(logger, flag.Arg(0), *universe); err != nil {
		logger.Error("pts-share failed", "err", err)
		os.Exit(1)
	}
}
