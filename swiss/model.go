/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	// ByeName is the sentinel opponent injected into odd rosters.
	ByeName = "BYE"
	// ByeScore is awarded to the real player in a bye match; the sentinel
	// always scores 0.
	ByeScore = 4
)

// Match is one pairing within a round. Line is the 1-based line the match
// was read from, or 0 for matches produced by Pair.
type Match struct {
	Player1 string
	Player2 string
	Score1  int
	Score2  int
	Line    int
}

// IsBye returns true if either side of the match is the bye sentinel.
func (m Match) IsBye() bool {
	return m.Player1 == ByeName || m.Player2 == ByeName
}

// Round is the set of matches played in one round. Posted is informational
// metadata supplied by the storage backend and may be zero.
type Round struct {
	Number  int
	Matches []Match
	Posted  time.Time
}

// Tournament holds a roster and its round history along with the state
// derived from them. It is immutable once constructed.
type Tournament struct {
	players   []string
	rounds    []Round
	scores    map[string]int
	opponents map[string]map[string]struct{}
}

// NewTournament normalizes roster, validates the round history against it
// and derives cumulative scores and opponent sets.
func NewTournament(roster []string, rounds []Round) (*Tournament, error) {
	players, err := normalizeRoster(roster)
	if err != nil {
		return nil, err
	}

	ordered, err := orderRounds(rounds)
	if err != nil {
		return nil, err
	}

	t := &Tournament{
		players:   players,
		rounds:    ordered,
		scores:    make(map[string]int, len(players)),
		opponents: make(map[string]map[string]struct{}, len(players)),
	}
	for _, p := range players {
		t.scores[p] = 0
		t.opponents[p] = make(map[string]struct{})
	}

	for _, r := range ordered {
		if err := t.validateRound(r); err != nil {
			return nil, err
		}
		for _, m := range r.Matches {
			t.scores[m.Player1] += m.Score1
			t.scores[m.Player2] += m.Score2
			t.opponents[m.Player1][m.Player2] = struct{}{}
			t.opponents[m.Player2][m.Player1] = struct{}{}
		}
	}

	return t, nil
}

func normalizeRoster(roster []string) ([]string, error) {
	seen := make(map[string]bool)
	players := make([]string, 0, len(roster)+1)
	for idx, raw := range roster {
		name := strings.TrimSpace(raw)
		if name == "" || name == ByeName {
			continue
		}
		if strings.ContainsAny(name, "-;") {
			return nil, &ParseError{Line: idx + 1, Text: raw,
				Err: fmt.Errorf("%w: must not contain '-' or ';'",
					ErrInvalidName)}
		}
		if seen[name] {
			return nil, &ParseError{Line: idx + 1, Text: raw,
				Err: ErrDuplicatePlayer}
		}
		seen[name] = true
		players = append(players, name)
	}
	if len(players) == 0 {
		return nil, &ParseError{Err: ErrEmptyRoster}
	}
	if len(players)%2 == 1 {
		players = append(players, ByeName)
	}

	return players, nil
}

// orderRounds returns the rounds sorted by number, failing unless the
// numbers are exactly 1..R.
func orderRounds(rounds []Round) ([]Round, error) {
	ordered := append([]Round(nil), rounds...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Number < ordered[j].Number
	})

	nums := make([]int, len(ordered))
	for idx, r := range ordered {
		nums[idx] = r.Number
	}
	for idx, n := range nums {
		if idx > 0 && n == nums[idx-1] {
			return nil, &RoundNumberingError{Rounds: nums,
				Reason: fmt.Sprintf("round %v appears more than once", n)}
		}
		if n != idx+1 {
			return nil, &RoundNumberingError{Rounds: nums,
				Reason: fmt.Sprintf("expected round %v but found round %v",
					idx+1, n)}
		}
	}

	return ordered, nil
}

// validateRound checks that r is a perfect matching over the player set.
func (t *Tournament) validateRound(r Round) error {
	seen := make(map[string]bool, len(t.players))
	for _, m := range r.Matches {
		for _, p := range []string{m.Player1, m.Player2} {
			if _, ok := t.scores[p]; !ok {
				return &ParseError{Round: r.Number, Line: m.Line,
					Err: fmt.Errorf("%w %q", ErrUnknownPlayer, p)}
			}
			if seen[p] {
				return &ParseError{Round: r.Number, Line: m.Line,
					Err: fmt.Errorf("%w: %q", ErrPlayerRepeated, p)}
			}
			seen[p] = true
		}
	}
	for _, p := range t.players {
		if !seen[p] {
			return &ParseError{Round: r.Number,
				Err: fmt.Errorf("%w: %q", ErrPlayerMissing, p)}
		}
	}

	return nil
}

// Players returns the player set in roster order, including ByeName when
// the roster is odd.
func (t *Tournament) Players() []string {
	return append([]string(nil), t.players...)
}

// HasBye returns true if the bye sentinel is part of the player set.
func (t *Tournament) HasBye() bool {
	_, ok := t.scores[ByeName]
	return ok
}

func (t *Tournament) NumRounds() int {
	return len(t.rounds)
}

// Rounds returns the validated round history ordered by round number.
func (t *Tournament) Rounds() []Round {
	return append([]Round(nil), t.rounds...)
}

// Score returns the cumulative score of player p.
func (t *Tournament) Score(p string) int {
	return t.scores[p]
}

// Scores returns a copy of the cumulative score of every player.
func (t *Tournament) Scores() map[string]int {
	out := make(map[string]int, len(t.scores))
	for p, s := range t.scores {
		out[p] = s
	}
	return out
}

// Opponents returns everyone p has already faced, sorted by name.
func (t *Tournament) Opponents(p string) []string {
	out := make([]string, 0, len(t.opponents[p]))
	for o := range t.opponents[p] {
		out = append(out, o)
	}
	sort.Strings(out)
	return out
}

// HasPlayed returns true if a and b have met in a previous round.
func (t *Tournament) HasPlayed(a, b string) bool {
	_, ok := t.opponents[a][b]
	return ok
}
