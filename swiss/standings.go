/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
	"sort"
)

// ShuffleSeed seeds the base ordering used to break ties that survive every
// other sort key. The generator is PCG from math/rand/v2 seeded with the
// first 16 bytes of SHA-256(ShuffleSeed) read as two big-endian uint64s, so
// identical input yields an identical ordering on every run and platform.
//
// Players could in principle reorder the roster to influence where they
// land in a tie; the roster is owned by the tournament director.
const ShuffleSeed = "Exile"

func seededRand() *rand.Rand {
	sum := sha256.Sum256([]byte(ShuffleSeed))
	return rand.New(rand.NewPCG(binary.BigEndian.Uint64(sum[0:8]),
		binary.BigEndian.Uint64(sum[8:16])))
}

// StrengthOfSchedule returns, for every player, the sum of the current
// scores of all opponents faced so far.
func (t *Tournament) StrengthOfSchedule() map[string]int {
	sos := make(map[string]int, len(t.players))
	for _, p := range t.players {
		total := 0
		for o := range t.opponents[p] {
			total += t.scores[o]
		}
		sos[p] = total
	}
	return sos
}

// Standings ranks every player, ByeName included, highest first. Score is
// the primary key, strength of schedule breaks score ties when tiebreak is
// set, and the seeded shuffle breaks whatever ties remain. ByeName is
// always last regardless of its score.
func (t *Tournament) Standings(tiebreak bool) []string {
	standings := append([]string(nil), t.players...)
	seededRand().Shuffle(len(standings), func(i, j int) {
		standings[i], standings[j] = standings[j], standings[i]
	})

	if tiebreak {
		sos := t.StrengthOfSchedule()
		sort.SliceStable(standings, func(i, j int) bool {
			return sos[standings[i]] > sos[standings[j]]
		})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return t.scores[standings[i]] > t.scores[standings[j]]
	})

	if t.HasBye() {
		filtered := standings[:0]
		for _, p := range standings {
			if p != ByeName {
				filtered = append(filtered, p)
			}
		}
		standings = append(filtered, ByeName)
	}

	return standings
}

// Standing is one row of a standings table.
type Standing struct {
	Place  int
	Player string
	Score  int
	SoS    int
}

// Table returns the ranked standings without the bye sentinel. Players
// level on every displayed key share a place.
func (t *Tournament) Table(tiebreak bool) []Standing {
	sos := t.StrengthOfSchedule()
	var rows []Standing
	for _, p := range t.Standings(tiebreak) {
		if p == ByeName {
			continue
		}
		row := Standing{
			Place:  len(rows) + 1,
			Player: p,
			Score:  t.scores[p],
			SoS:    sos[p],
		}
		if len(rows) > 0 {
			prev := rows[len(rows)-1]
			if prev.Score == row.Score && (!tiebreak || prev.SoS == row.SoS) {
				row.Place = prev.Place
			}
		}
		rows = append(rows, row)
	}

	return rows
}
