/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/swisstd/store"
	"github.com/mikeb26/swisstd/swiss"
)

type SwissSubCommand string

const (
	SwissHelpCmd      SwissSubCommand = "help"
	SwissStandingsCmd SwissSubCommand = "standings"
	SwissPairingsCmd  SwissSubCommand = "pairings"
)

var swissSubCmdHdlrs = map[SwissSubCommand]CmdHandler{
	SwissHelpCmd:      swissHelpCmdHandler,
	SwissStandingsCmd: swissStandingsCmdHandler,
	SwissPairingsCmd:  swissPairingsCmdHandler,
}

func swissCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := swissHelpCmdHandler
	if len(data.Options) > 0 {
		if subName := data.Options[0].Name; subName != "" {
			h, ok := swissSubCmdHdlrs[SwissSubCommand(subName)]
			if ok {
				hdlr = h
			}
		}
	}
	return hdlr(ctx, inter)
}

func newEphemeralResponse() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
}

//go:embed help.md
var helpText string

func swissHelpCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResponse()
	resp.Data.Content = truncateContent(helpText)
	return resp
}

// swissOptions holds the sub-command options shared by standings and
// pairings.
type swissOptions struct {
	tournament string
	tiebreak   bool
	broadcast  bool
}

func parseSwissOptions(inter *discordgo.Interaction) (swissOptions, bool) {
	opts := swissOptions{tiebreak: true}
	found := false

	data := inter.ApplicationCommandData()
	if len(data.Options) == 0 {
		return opts, false
	}
	for _, opt := range data.Options[0].Options {
		switch opt.Name {
		case "tournament":
			opts.tournament = opt.StringValue()
			found = opts.tournament != ""
		case "tiebreak":
			opts.tiebreak = opt.BoolValue()
		case "broadcast":
			opts.broadcast = opt.BoolValue()
		}
	}

	return opts, found
}

// openTournament resolves name under the configured base location.
func openTournament(ctx context.Context, name string) (*swiss.Driver, error) {
	location, err := store.JoinLocation(tournamentBase, name)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, location, storeOpts)
	if err != nil {
		return nil, err
	}
	return swiss.NewDriver(st), nil
}

// swissStandingsCmdHandler handles the /swiss standings command to display
// current standings
func swissStandingsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResponse()
	opts, found := parseSwissOptions(inter)
	if !found {
		resp.Data.Content = "Please provide a tournament name."
		log.Printf("discordbot.standings: %v", resp.Data.Content)
		return resp
	}

	d, err := openTournament(ctx, opts.tournament)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error opening tournament %v: %v",
			opts.tournament, err)
		log.Printf("discordbot.standings: %v", resp.Data.Content)
		return resp
	}
	report, err := d.ComputeStandings(ctx, opts.tiebreak)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error fetching standings for %v: %v",
			opts.tournament, err)
		log.Printf("discordbot.standings: %v", resp.Data.Content)
		return resp
	}

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("```\n%s```",
		truncateContent(swiss.BuildStandingsOutput(report)))

	if opts.broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// swissPairingsCmdHandler handles the /swiss pairings command to display the
// latest round
func swissPairingsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResponse()
	opts, found := parseSwissOptions(inter)
	if !found {
		resp.Data.Content = "Please provide a tournament name."
		log.Printf("discordbot.pairings: %v", resp.Data.Content)
		return resp
	}

	d, err := openTournament(ctx, opts.tournament)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error opening tournament %v: %v",
			opts.tournament, err)
		log.Printf("discordbot.pairings: %v", resp.Data.Content)
		return resp
	}
	round, err := d.CurrentRound(ctx)
	if errors.Is(err, swiss.ErrNoRounds) {
		resp.Data.Content = fmt.Sprintf("No pairings found for %v.",
			opts.tournament)
		return resp
	}
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error fetching pairings for %v: %v",
			opts.tournament, err)
		log.Printf("discordbot.pairings: %v", resp.Data.Content)
		return resp
	}

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("```\n%s```",
		truncateContent(swiss.BuildPairingsOutput(round)))

	if opts.broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// https://discord.com/developers/docs/resources/channel#start-thread-in-forum-or-media-channel-forum-and-media-thread-message-params-object
// limits messages to 2k characters
func truncateContent(s string) string {
	const MsgLimit = 1988 // keep space for newlines and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}
