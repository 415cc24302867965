/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"context"
	"fmt"
)

// Store is the persistence collaborator for one tournament.
//
// LoadRounds returns every round present, numbered as found; numbering is
// validated by NewTournament. AppendRound must fail with a
// *DuplicateRoundError rather than overwrite when the round already exists,
// and must never leave a partially written round behind.
type Store interface {
	LoadRoster(ctx context.Context) ([]string, error)
	LoadRounds(ctx context.Context) ([]Round, error)
	AppendRound(ctx context.Context, r Round) error
}

// Driver runs the supported tournament operations against a Store.
type Driver struct {
	store Store
}

func NewDriver(st Store) *Driver {
	return &Driver{store: st}
}

// StandingsReport is the result of ComputeStandings.
type StandingsReport struct {
	RoundsPlayed int
	Rows         []Standing
	Tiebreak     bool
}

// Load reads the roster and round history and derives tournament state.
func (d *Driver) Load(ctx context.Context) (*Tournament, error) {
	roster, err := d.store.LoadRoster(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load roster: %w", err)
	}
	rounds, err := d.store.LoadRounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load rounds: %w", err)
	}

	return NewTournament(roster, rounds)
}

// ComputeStandings ranks every real player.
func (d *Driver) ComputeStandings(ctx context.Context,
	tiebreak bool) (*StandingsReport, error) {

	t, err := d.Load(ctx)
	if err != nil {
		return nil, err
	}

	return &StandingsReport{
		RoundsPlayed: t.NumRounds(),
		Rows:         t.Table(tiebreak),
		Tiebreak:     tiebreak,
	}, nil
}

// GenerateNextRound pairs round R+1 by score alone and appends it to the
// store. Nothing is written when pairing fails.
func (d *Driver) GenerateNextRound(ctx context.Context) (Round, error) {
	t, err := d.Load(ctx)
	if err != nil {
		return Round{}, err
	}

	round, err := Pair(t.Standings(false), t)
	if err != nil {
		return Round{}, err
	}
	round.Number = t.NumRounds() + 1

	if err := d.store.AppendRound(ctx, round); err != nil {
		return Round{}, err
	}

	return round, nil
}

// CurrentRound returns the most recently stored round.
func (d *Driver) CurrentRound(ctx context.Context) (Round, error) {
	t, err := d.Load(ctx)
	if err != nil {
		return Round{}, err
	}
	if t.NumRounds() == 0 {
		return Round{}, ErrNoRounds
	}

	return t.rounds[t.NumRounds()-1], nil
}
