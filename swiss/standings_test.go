/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"reflect"
	"sort"
	"testing"
)

func mustTournament(t *testing.T, roster []string,
	rounds []Round) *Tournament {

	t.Helper()
	tourney, err := NewTournament(roster, rounds)
	if err != nil {
		t.Fatalf("NewTournament returned error: %v", err)
	}
	return tourney
}

func TestStandingsDeterministic(t *testing.T) {
	roster := []string{"Ann", "Bo", "Cy", "Di", "Ed", "Flo", "Gus"}
	for _, tiebreak := range []bool{false, true} {
		first := mustTournament(t, roster, nil).Standings(tiebreak)
		for i := 0; i < 5; i++ {
			again := mustTournament(t, roster, nil).Standings(tiebreak)
			if !reflect.DeepEqual(first, again) {
				t.Fatalf("Standings(%v) not deterministic: %v vs %v",
					tiebreak, first, again)
			}
		}
		if len(first) != len(roster)+1 {
			t.Errorf("Standings(%v) has %d entries; want %d", tiebreak,
				len(first), len(roster)+1)
		}
	}
}

// TestStandingsGolden pins the seeded ordering and the pairings it produces
// so that a change to the shuffle is caught across releases.
func TestStandingsGolden(t *testing.T) {
	tests := []struct {
		name      string
		roster    []string
		rounds    []Round
		standings []string
		pairings  []Match
	}{
		{
			name:      "three players before round 1",
			roster:    []string{"A", "B", "C"},
			standings: []string{"B", "A", "C", ByeName},
			pairings: []Match{m("B", "A", 0, 0),
				m("C", ByeName, ByeScore, 0)},
		},
		{
			name:   "four players after round 1",
			roster: []string{"A", "B", "C", "D"},
			rounds: []Round{{Number: 1, Matches: []Match{m("A", "B", 1, 0),
				m("C", "D", 0, 1)}}},
			standings: []string{"D", "A", "B", "C"},
			pairings:  []Match{m("D", "A", 0, 0), m("B", "C", 0, 0)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tourney := mustTournament(t, tc.roster, tc.rounds)
			for _, tiebreak := range []bool{false, true} {
				got := tourney.Standings(tiebreak)
				if !reflect.DeepEqual(got, tc.standings) {
					t.Errorf("Standings(%v) = %v; want %v", tiebreak, got,
						tc.standings)
				}
			}

			round, err := Pair(tourney.Standings(false), tourney)
			if err != nil {
				t.Fatalf("Pair returned error: %v", err)
			}
			if !reflect.DeepEqual(round.Matches, tc.pairings) {
				t.Errorf("Pair = %v; want %v", round.Matches, tc.pairings)
			}
		})
	}
}

func TestStandingsIsPermutation(t *testing.T) {
	roster := []string{"A", "B", "C", "D", "E", "F"}
	got := mustTournament(t, roster, nil).Standings(false)
	sorted := append([]string(nil), got...)
	sort.Strings(sorted)
	if !reflect.DeepEqual(sorted, roster) {
		t.Errorf("Standings() = %v; not a permutation of %v", got, roster)
	}
}

func TestStandingsByScore(t *testing.T) {
	// roster [A,B,C,D], round 1 A-B 1-0, C-D 0-1
	rounds := []Round{
		{Number: 1, Matches: []Match{m("A", "B", 1, 0), m("C", "D", 0, 1)}},
	}
	tourney := mustTournament(t, []string{"A", "B", "C", "D"}, rounds)
	got := tourney.Standings(false)

	top := []string{got[0], got[1]}
	sort.Strings(top)
	if !reflect.DeepEqual(top, []string{"A", "D"}) {
		t.Errorf("top two = %v; want A and D in some order", got[:2])
	}
	bottom := []string{got[2], got[3]}
	sort.Strings(bottom)
	if !reflect.DeepEqual(bottom, []string{"B", "C"}) {
		t.Errorf("bottom two = %v; want B and C in some order", got[2:])
	}
}

func TestStandingsByeAlwaysLast(t *testing.T) {
	// a hand-edited round can hand the sentinel points; it still ranks last
	rounds := []Round{
		{Number: 1, Matches: []Match{m("A", "B", 1, 0), m("C", ByeName, 0, 10)}},
	}
	tourney := mustTournament(t, []string{"A", "B", "C"}, rounds)
	for _, tiebreak := range []bool{false, true} {
		got := tourney.Standings(tiebreak)
		if got[len(got)-1] != ByeName {
			t.Errorf("Standings(%v) = %v; want %v last", tiebreak, got,
				ByeName)
		}
		if got[0] != "A" {
			t.Errorf("Standings(%v) = %v; want A first", tiebreak, got)
		}
	}
}

func TestStandingsTiebreak(t *testing.T) {
	// After two rounds: A=2 B=1 C=1 D=0 (E/F fill the rest).
	// B beat D and lost to A; C beat F and lost to E.
	rounds := []Round{
		{Number: 1, Matches: []Match{m("A", "E", 1, 0), m("B", "D", 1, 0),
			m("C", "F", 1, 0)}},
		{Number: 2, Matches: []Match{m("A", "B", 1, 0), m("C", "E", 0, 1),
			m("D", "F", 0, 0)}},
	}
	tourney := mustTournament(t, []string{"A", "B", "C", "D", "E", "F"},
		rounds)
	sos := tourney.StrengthOfSchedule()
	wantSoS := map[string]int{"A": 2, "B": 2, "C": 1, "D": 1, "E": 3, "F": 1}
	if !reflect.DeepEqual(sos, wantSoS) {
		t.Fatalf("StrengthOfSchedule() = %v; want %v", sos, wantSoS)
	}

	got := tourney.Standings(true)
	// scores: A2 B1 C1 E1 D0 F0; among the 1s E(3) > B(2) > C(1)
	want := []string{"A", "E", "B", "C"}
	if !reflect.DeepEqual(got[:4], want) {
		t.Errorf("Standings(true)[:4] = %v; want %v", got[:4], want)
	}
	bottom := []string{got[4], got[5]}
	sort.Strings(bottom)
	if !reflect.DeepEqual(bottom, []string{"D", "F"}) {
		t.Errorf("bottom two = %v; want D and F", got[4:])
	}
}

func TestTable(t *testing.T) {
	rounds := []Round{
		{Number: 1, Matches: []Match{m("A", "B", 1, 0), m("C", ByeName, 4, 0)}},
	}
	tourney := mustTournament(t, []string{"A", "B", "C"}, rounds)
	rows := tourney.Table(true)
	if len(rows) != 3 {
		t.Fatalf("Table() has %d rows; want 3", len(rows))
	}
	want := []Standing{
		{Place: 1, Player: "C", Score: 4, SoS: 0},
		{Place: 2, Player: "A", Score: 1, SoS: 0},
		{Place: 3, Player: "B", Score: 0, SoS: 1},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("Table() = %+v; want %+v", rows, want)
	}
}

func TestTableSharedPlace(t *testing.T) {
	tourney := mustTournament(t, []string{"A", "B", "C", "D"}, nil)
	for _, row := range tourney.Table(true) {
		if row.Place != 1 {
			t.Errorf("%v has place %d; want everyone tied at 1", row.Player,
				row.Place)
		}
	}
}
