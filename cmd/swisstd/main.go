/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mikeb26/swisstd/internal"
	"github.com/mikeb26/swisstd/store"
	"github.com/mikeb26/swisstd/swiss"
)

//go:embed help.txt
var helpText string

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, args []string)

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":      handleHelp,
	"standings": handleStandings,
	"newround":  handleNewRound,
	"new_round": handleNewRound,
	"pairings":  handlePairings,
}

type envConfig struct {
	CacheDir    string `env:"SWISSTD_CACHE_DIR"`
	Concurrency int    `env:"SWISSTD_CONCURRENCY" envDefault:"8"`
}

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if handler, ok := commands[cmd]; ok {
		handler(ctx, os.Args[2:])
	} else {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf("%v", helpText)
}

func handleHelp(ctx context.Context, args []string) {
	usage()
}

// openDriver resolves the single location argument left after flag
// parsing.
func openDriver(ctx context.Context, fs *flag.FlagSet) (*swiss.Driver,
	store.Store) {

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Please provide exactly one tournament location.")
		fs.Usage()
		os.Exit(1)
	}

	var cfg envConfig
	if err := internal.ParseEnv(&cfg); err != nil {
		log.Fatalf("Error reading environment: %v", err)
	}
	if cfg.CacheDir == "" {
		if userCache, err := os.UserCacheDir(); err == nil {
			cfg.CacheDir = filepath.Join(userCache, "swisstd")
		}
	}

	st, err := store.Open(ctx, fs.Arg(0), store.Options{
		HTTPClient:  internal.NewCachedHttpClient(ctx, cfg.CacheDir),
		Concurrency: cfg.Concurrency,
	})
	if err != nil {
		log.Fatalf("Error opening tournament %v: %v", fs.Arg(0), err)
	}

	return swiss.NewDriver(st), st
}

func handleStandings(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("standings", flag.ExitOnError)
	tiebreak := fs.Bool("tiebreak", true,
		"Break score ties by strength of schedule")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	d, st := openDriver(ctx, fs)

	report, err := d.ComputeStandings(ctx, *tiebreak)
	if err != nil {
		log.Fatalf("Error computing standings for %v: %v", st.Location(), err)
	}
	fmt.Print(swiss.BuildStandingsOutput(report))
}

func handleNewRound(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("newround", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	d, st := openDriver(ctx, fs)

	round, err := d.GenerateNextRound(ctx)
	if err != nil {
		var unmatchable *swiss.UnmatchableError
		if errors.As(err, &unmatchable) {
			log.Fatalf("Error pairing next round for %v: %v (every remaining opponent has already been played)",
				st.Location(), err)
		}
		log.Fatalf("Error generating next round for %v: %v", st.Location(),
			err)
	}

	written, err := store.JoinLocation(st.Location(),
		store.RoundFileName(round.Number))
	if err != nil {
		written = st.Location()
	}
	fmt.Printf("\n\ngenerated new round in %v:\n\n", written)
	fmt.Print(swiss.BuildMatchupsOutput(round))
}

func handlePairings(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("pairings", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	d, st := openDriver(ctx, fs)

	round, err := d.CurrentRound(ctx)
	if errors.Is(err, swiss.ErrNoRounds) {
		fmt.Printf("No rounds have been paired yet in %v. Run '%s newround %v' to pair Round 1.\n",
			st.Location(), os.Args[0], fs.Arg(0))
		return
	}
	if err != nil {
		log.Fatalf("Error fetching pairings for %v: %v", st.Location(), err)
	}
	fmt.Print(swiss.BuildPairingsOutput(round))
}
