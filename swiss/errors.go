/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"errors"
	"fmt"
	"strings"
)

// ParseError reports a malformed roster or round record. Round is 0 for
// roster records. Line is 1-based; 0 means the error applies to the whole
// source rather than a single line.
type ParseError struct {
	Source string
	Round  int
	Line   int
	Text   string
	Err    error
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString("parse ")
	if e.Source != "" {
		sb.WriteString(e.Source)
	} else if e.Round > 0 {
		sb.WriteString(fmt.Sprintf("round %v", e.Round))
	} else {
		sb.WriteString("roster")
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf(" line %v", e.Line))
	}
	if e.Text != "" {
		sb.WriteString(fmt.Sprintf(" %q", e.Text))
	}
	sb.WriteString(fmt.Sprintf(": %v", e.Err))

	return sb.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// RoundNumberingError reports round history that is not exactly 1..R.
type RoundNumberingError struct {
	Rounds []int
	Reason string
}

func (e *RoundNumberingError) Error() string {
	return fmt.Sprintf("strange round numbering %v: %v", e.Rounds, e.Reason)
}

// UnmatchableError reports a player the greedy pairing could not place.
type UnmatchableError struct {
	Player string
}

func (e *UnmatchableError) Error() string {
	return fmt.Sprintf("couldn't match player %v", e.Player)
}

// DuplicateRoundError reports an attempt to write a round that already
// exists.
type DuplicateRoundError struct {
	Round    int
	Location string
}

func (e *DuplicateRoundError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("round %v already exists at %v", e.Round,
			e.Location)
	}
	return fmt.Sprintf("round %v already exists", e.Round)
}

var (
	ErrEmptyRoster     = errors.New("roster has no players")
	ErrDuplicatePlayer = errors.New("duplicate player")
	ErrInvalidName     = errors.New("invalid player name")
	ErrUnknownPlayer   = errors.New("unknown player")
	ErrPlayerRepeated  = errors.New("player appears more than once")
	ErrPlayerMissing   = errors.New("player missing from round")
	ErrNoRounds        = errors.New("no rounds have been played")
)
