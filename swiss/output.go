/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"strconv"
	"strings"
)

// BuildStandingsOutput formats standings into an aligned text table
func BuildStandingsOutput(report *StandingsReport) string {
	var sb strings.Builder

	if report.RoundsPlayed == 0 {
		sb.WriteString("Standings prior to Round 1:\n\n")
	} else {
		sb.WriteString(fmt.Sprintf("Standings after Round %v:\n\n",
			report.RoundsPlayed))
	}

	type row struct{ place, player, score, sos string }
	var rows []row
	priorPlace := 0
	for _, s := range report.Rows {
		var place string
		if s.Place != priorPlace {
			place = fmt.Sprintf("%v.", s.Place)
			priorPlace = s.Place
		}
		rows = append(rows, row{
			place:  place,
			player: s.Player,
			score:  strconv.Itoa(s.Score),
			sos:    strconv.Itoa(s.SoS),
		})
	}

	// Compute column widths
	maxP, maxN, maxS, maxT := len("Place"), len("Name"), len("Points"),
		len("SoS")
	for _, r := range rows {
		if l := len(r.place); l > maxP {
			maxP = l
		}
		if l := len(r.player); l > maxN {
			maxN = l
		}
		if l := len(r.score); l > maxS {
			maxS = l
		}
		if l := len(r.sos); l > maxT {
			maxT = l
		}
	}

	if report.Tiebreak {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %*s  %*s\n", maxP, "Place",
			maxN, "Name", maxS, "Points", maxT, "SoS"))
		for _, r := range rows {
			sb.WriteString(fmt.Sprintf("%-*s  %-*s  %*s  %*s\n", maxP, r.place,
				maxN, r.player, maxS, r.score, maxT, r.sos))
		}
	} else {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %*s\n", maxP, "Place",
			maxN, "Name", maxS, "Points"))
		for _, r := range rows {
			sb.WriteString(fmt.Sprintf("%-*s  %-*s  %*s\n", maxP, r.place,
				maxN, r.player, maxS, r.score))
		}
	}
	sb.WriteString("\n")

	return sb.String()
}

// BuildPairingsOutput formats a round's pairings into an aligned text table.
// Byes are listed after the boards.
func BuildPairingsOutput(r Round) string {
	var sb strings.Builder

	if len(r.Matches) == 0 {
		return fmt.Sprintf("No pairings for Round %v\n", r.Number)
	}
	sb.WriteString(fmt.Sprintf("Round %v Pairings", r.Number))
	if !r.Posted.IsZero() {
		sb.WriteString(fmt.Sprintf(" (posted %v)",
			r.Posted.Format("2006-01-02 15:04")))
	}
	sb.WriteString(":\n\n")

	type row struct{ board, p1, p2, result string }
	var rows, byes []row
	boardNum := 1
	for _, m := range r.Matches {
		if m.IsBye() {
			player := m.Player1
			if player == ByeName {
				player = m.Player2
			}
			byes = append(byes, row{board: "n/a", p1: player,
				p2: fmt.Sprintf("BYE(%v)", ByeScore)})
			continue
		}
		rows = append(rows, row{
			board:  fmt.Sprintf("%d.", boardNum),
			p1:     m.Player1,
			p2:     m.Player2,
			result: fmt.Sprintf("%v-%v", m.Score1, m.Score2),
		})
		boardNum++
	}
	rows = append(rows, byes...)

	// Compute column widths
	maxB, maxP1, maxP2 := len("Board"), len("Player"), len("Opponent")
	for _, r := range rows {
		if l := len(r.board); l > maxB {
			maxB = l
		}
		if l := len(r.p1); l > maxP1 {
			maxP1 = l
		}
		if l := len(r.p2); l > maxP2 {
			maxP2 = l
		}
	}

	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %s\n", maxB, "Board", maxP1,
		"Player", maxP2, "Opponent", "Result"))
	for _, r := range rows {
		line := fmt.Sprintf("%-*s  %-*s  %-*s  %s", maxB, r.board, maxP1,
			r.p1, maxP2, r.p2, r.result)
		sb.WriteString(strings.TrimRight(line, " ") + "\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// BuildMatchupsOutput lists a freshly generated round one match per line,
// e.g. "--Alice vs. Bob--".
func BuildMatchupsOutput(r Round) string {
	var sb strings.Builder
	for _, m := range r.Matches {
		sb.WriteString(fmt.Sprintf("--%v vs. %v--\n", m.Player1, m.Player2))
	}
	return sb.String()
}
