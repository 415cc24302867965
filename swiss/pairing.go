/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

// OpponentHistory answers whether two players have already met.
type OpponentHistory interface {
	HasPlayed(a, b string) bool
}

// Pair builds the next round from ranked (highest first). Each still
// unmatched player, taken in ranked order, is paired with the first
// unmatched player below it whom it has not yet played. There is no
// backtracking: if some player has no eligible opponent the whole pairing
// fails with an UnmatchableError, even if a different assignment higher up
// would have succeeded. The returned round's Number is left for the caller
// to fill in.
func Pair(ranked []string, history OpponentHistory) (Round, error) {
	var round Round
	unmatched := make(map[string]bool, len(ranked))
	for _, p := range ranked {
		unmatched[p] = true
	}

	for n, p1 := range ranked {
		if !unmatched[p1] {
			continue
		}
		for _, p2 := range ranked[n+1:] {
			if !unmatched[p2] || history.HasPlayed(p1, p2) {
				continue
			}
			unmatched[p1] = false
			unmatched[p2] = false
			round.Matches = append(round.Matches, newMatch(p1, p2))
			break
		}
		if unmatched[p1] {
			return Round{}, &UnmatchableError{Player: p1}
		}
	}

	return round, nil
}

// newMatch returns an unplayed 0-0 match, or a bye awarding ByeScore to the
// real player, who is always listed first.
func newMatch(p1, p2 string) Match {
	if p1 == ByeName {
		p1, p2 = p2, p1
	}
	if p2 == ByeName {
		return Match{Player1: p1, Player2: ByeName, Score1: ByeScore}
	}

	return Match{Player1: p1, Player2: p2}
}
