/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/mikeb26/swisstd/swiss"
)

const (
	RosterFileName  = "participants.txt"
	roundFilePrefix = "runde"
)

var (
	ErrFieldCount = errors.New("expected player1-player2;score1-score2")
	ErrBadScore   = errors.New("score is not a non-negative integer")
)

var roundFileRe = regexp.MustCompile(`^runde([0-9]+)\.txt$`)

// RoundFileName returns the file name round n is stored under.
func RoundFileName(n int) string {
	return fmt.Sprintf("%v%d.txt", roundFilePrefix, n)
}

// ParseRoundFileName returns the round number encoded in name. ok is false
// for names that are not round files at all; names that look like a round
// file but do not carry a usable number are an error.
func ParseRoundFileName(name string) (n int, ok bool, err error) {
	if !strings.HasPrefix(name, roundFilePrefix) {
		return 0, false, nil
	}
	m := roundFileRe.FindStringSubmatch(name)
	if m == nil {
		return 0, true, &swiss.RoundNumberingError{
			Reason: fmt.Sprintf("unrecognized round file %q", name)}
	}
	n, err = strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, true, &swiss.RoundNumberingError{
			Reason: fmt.Sprintf("invalid round number in %q", name)}
	}

	return n, true, nil
}

// ParseRoster returns one raw entry per line. Names are trimmed and
// validated by swiss.NewTournament so line numbers stay meaningful.
func ParseRoster(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		out = append(out, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read roster: %w", err)
	}

	return out, nil
}

// ParseRound reads the match lines of round number from r.
func ParseRound(number int, r io.Reader) (swiss.Round, error) {
	round := swiss.Round{Number: number}
	source := RoundFileName(number)

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		m, err := parseMatch(text)
		if err != nil {
			return swiss.Round{}, &swiss.ParseError{Source: source,
				Round: number, Line: lineNum, Text: text, Err: err}
		}
		m.Line = lineNum
		round.Matches = append(round.Matches, m)
	}
	if err := scanner.Err(); err != nil {
		return swiss.Round{}, fmt.Errorf("unable to read %v: %w", source, err)
	}

	return round, nil
}

func parseMatch(text string) (swiss.Match, error) {
	fields := strings.Split(text, ";")
	if len(fields) != 2 {
		return swiss.Match{}, ErrFieldCount
	}
	players := strings.Split(fields[0], "-")
	scores := strings.Split(fields[1], "-")
	if len(players) != 2 || len(scores) != 2 {
		return swiss.Match{}, ErrFieldCount
	}

	m := swiss.Match{
		Player1: strings.TrimSpace(players[0]),
		Player2: strings.TrimSpace(players[1]),
	}
	if m.Player1 == "" || m.Player2 == "" {
		return swiss.Match{}, ErrFieldCount
	}

	var err error
	if m.Score1, err = parseScore(scores[0]); err != nil {
		return swiss.Match{}, err
	}
	if m.Score2, err = parseScore(scores[1]); err != nil {
		return swiss.Match{}, err
	}

	return m, nil
}

func parseScore(s string) (int, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 || strings.HasPrefix(s, "+") {
		return 0, fmt.Errorf("%w: %q", ErrBadScore, s)
	}
	return v, nil
}

// FormatRound renders r in the on-disk round file format.
func FormatRound(r swiss.Round) []byte {
	var buf bytes.Buffer
	for _, m := range r.Matches {
		fmt.Fprintf(&buf, "%v-%v;%d-%d\n", m.Player1, m.Player2, m.Score1,
			m.Score2)
	}
	return buf.Bytes()
}
