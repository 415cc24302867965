/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/mikeb26/swisstd/swiss"
)

// DirStore keeps a tournament in a local directory.
type DirStore struct {
	dir string
}

func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: filepath.Clean(dir)}
}

func (s *DirStore) Location() string {
	return s.dir
}

func (s *DirStore) LoadRoster(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, RosterFileName))
	if err != nil {
		return nil, err
	}
	return ParseRoster(bytes.NewReader(data))
}

func (s *DirStore) LoadRounds(ctx context.Context) ([]swiss.Round, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var rounds []swiss.Round
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		n, ok, err := ParseRoundFileName(entry.Name())
		if !ok {
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(s.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		r, err := ParseRound(n, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		if info, err := entry.Info(); err == nil {
			r.Posted = info.ModTime()
		}
		rounds = append(rounds, r)
	}
	sort.Slice(rounds, func(i, j int) bool {
		return rounds[i].Number < rounds[j].Number
	})

	return rounds, nil
}

// AppendRound writes r to a temporary file and hard-links it into place, so
// the round file appears complete or not at all and an existing round is
// never replaced.
func (s *DirStore) AppendRound(ctx context.Context, r swiss.Round) error {
	target := filepath.Join(s.dir, RoundFileName(r.Number))
	if _, err := os.Lstat(target); err == nil {
		return &swiss.DuplicateRoundError{Round: r.Number, Location: target}
	}

	tmp, err := os.CreateTemp(s.dir, ".pending-round-*")
	if err != nil {
		return fmt.Errorf("unable to create round %v: %w", r.Number, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(FormatRound(r)); err != nil {
		tmp.Close()
		return fmt.Errorf("unable to write round %v: %w", r.Number, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("unable to sync round %v: %w", r.Number, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("unable to close round %v: %w", r.Number, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("unable to chmod round %v: %w", r.Number, err)
	}

	if err := os.Link(tmp.Name(), target); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return &swiss.DuplicateRoundError{Round: r.Number,
				Location: target}
		}
		return fmt.Errorf("unable to publish round %v: %w", r.Number, err)
	}

	return nil
}
