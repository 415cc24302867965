/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/swisstd/internal"
	"github.com/mikeb26/swisstd/store"
)

// botConfig is read from the environment at startup.
type botConfig struct {
	Token     string `env:"DISCORD_BOT_TOKEN,required"`
	PublicKey string `env:"DISCORD_PUBLIC_KEY,required"`
	AppID     string `env:"DISCORD_APP_ID,required"`

	// CmdID is the id of an already registered /swiss command; empty
	// registers a new one. CmdHash is the hash of the registered command
	// definition, used to skip needless updates.
	CmdID   string `env:"DISCORD_CMD_ID"`
	CmdHash string `env:"DISCORD_CMD_HASH"`

	// Base is the location tournaments are resolved under, e.g.
	// s3://club-tournaments or https://example.com/swiss/
	Base        string `env:"SWISSTD_BASE,required"`
	ListenAddr  string `env:"SWISSTD_LISTEN_ADDR" envDefault:":8080"`
	CacheDir    string `env:"SWISSTD_CACHE_DIR"`
	Concurrency int    `env:"SWISSTD_CONCURRENCY" envDefault:"8"`
}

var client *discordgo.Session
var botPubKey ed25519.PublicKey

// tournamentBase and storeOpts determine where /swiss looks up tournaments.
var tournamentBase string
var storeOpts store.Options

type TopLevelCommand string

const (
	SwissCmd TopLevelCommand = "swiss"
)

type CmdHandler func(ctx context.Context,
	i *discordgo.Interaction) *discordgo.InteractionResponse

var topLevelCmdHdlrs = map[TopLevelCommand]CmdHandler{
	SwissCmd: swissCmdHandler,
}

func interactionHandler(w http.ResponseWriter, r *http.Request) {
	if !discordgo.VerifyInteraction(r, botPubKey) {
		log.Printf("discordbot.int: failed to verify")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("discordbot.int: failed to read request body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var inter discordgo.Interaction
	if err := inter.UnmarshalJSON(body); err != nil {
		log.Printf("discordbot.int: failed to unmarshal interaction: err:%v body:%v",
			err, body)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp := &discordgo.InteractionResponse{}
	if inter.Type == discordgo.InteractionPing {
		resp.Type = discordgo.InteractionResponsePong
	} else if inter.Type == discordgo.InteractionApplicationCommand {
		hdlr, ok :=
			topLevelCmdHdlrs[TopLevelCommand(inter.ApplicationCommandData().Name)]
		if !ok {
			resp.Type = discordgo.InteractionResponseChannelMessageWithSource
			resp.Data = &discordgo.InteractionResponseData{
				Content: fmt.Sprintf("unknown command '%v'",
					inter.ApplicationCommandData().Name),
				Flags: discordgo.MessageFlagsEphemeral,
			}
		} else {
			resp = hdlr(r.Context(), &inter)
		}
	} else {
		log.Printf("discordbot.int: unimplemented interation type %v: inter:%v",
			inter.Type, inter)
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	rawResp, err := json.Marshal(resp)
	if err != nil {
		log.Printf("discordbot.int: failed to marshal resp: err:%v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	_, err = w.Write(rawResp)
	if err != nil {
		log.Printf("discordbot.int: failed to write resp: err:%v", err)
	}
}

func init() {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))
}

func loadConfig(ctx context.Context) botConfig {
	var cfg botConfig
	if err := internal.ParseEnv(&cfg); err != nil {
		log.Fatalf("discordbot.init: Failed to read config: %v", err)
	}

	pubKeyBytes, err := hex.DecodeString(cfg.PublicKey)
	if err != nil || len(pubKeyBytes) != ed25519.PublicKeySize {
		log.Fatalf("discordbot.init: Failed to parse public key: %v", err)
	}
	botPubKey = ed25519.PublicKey(pubKeyBytes)

	client, err = discordgo.New("Bot " + cfg.Token)
	if err != nil {
		log.Fatalf("discordbot.init: Failed to initialize discord client: %v", err)
	}

	if cfg.CacheDir == "" {
		if userCache, err := os.UserCacheDir(); err == nil {
			cfg.CacheDir = filepath.Join(userCache, "swisstd")
		}
	}
	tournamentBase = cfg.Base
	storeOpts = store.Options{
		HTTPClient:  internal.NewCachedHttpClient(ctx, cfg.CacheDir),
		Concurrency: cfg.Concurrency,
	}

	return cfg
}

func cmdRegistrationHash(cmd *discordgo.ApplicationCommand) string {
	cmdJson, err := json.Marshal(cmd)
	if err != nil {
		log.Fatalf("discordbot.reg: failed to marshal cmd: %v", err)
	}
	hash := sha256.Sum256(cmdJson)
	return hex.EncodeToString(hash[:])
}

func swissCommand() *discordgo.ApplicationCommand {
	tournamentOpt := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "tournament",
		Description: "Name of the tournament",
		Required:    true,
	}
	broadcastOpt := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        "broadcast",
		Description: "Share with the rest of the channel instead of only to you (default is false)",
		Required:    false,
	}

	return &discordgo.ApplicationCommand{
		Name:        string(SwissCmd),
		Description: "Swiss tournament standings and pairings; try /swiss help to start",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissHelpCmd),
				Description: "Show usage for swiss",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissStandingsCmd),
				Description: "Get current standings for a tournament",
				Options: []*discordgo.ApplicationCommandOption{
					tournamentOpt,
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "tiebreak",
						Description: "Break score ties by strength of schedule (default is true)",
						Required:    false,
					},
					broadcastOpt,
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissPairingsCmd),
				Description: "Get the latest round's pairings for a tournament",
				Options: []*discordgo.ApplicationCommandOption{
					tournamentOpt,
					broadcastOpt,
				},
			},
		},
	}
}

func registerSlashCommands(cfg botConfig) {
	cmdDef := swissCommand()

	if cfg.CmdID == "" {
		cmd, err := client.ApplicationCommandCreate(cfg.AppID, "", cmdDef)
		if err != nil {
			log.Printf("discordbot.reg: failed to register %v: %v", cmdDef.Name,
				err)
			return
		}

		log.Printf("discordbot.reg: registered %v(cmdID:%v); please set DISCORD_CMD_ID and DISCORD_CMD_HASH=%v",
			cmd.Name, cmd.ID, cmdRegistrationHash(cmdDef))
		return
	}

	hash := cmdRegistrationHash(cmdDef)
	if hash == cfg.CmdHash {
		return
	}
	cmd, err := client.ApplicationCommandEdit(cfg.AppID, "", cfg.CmdID, cmdDef)
	if err != nil {
		log.Printf("discordbot.reg: failed to update %v: %v", cmdDef.Name,
			err)
		return
	}

	log.Printf("discordbot.reg: updated %v(cmdID:%v); please set DISCORD_CMD_HASH=%v",
		cmd.Name, cmd.ID, hash)
}

func main() {
	cfg := loadConfig(context.Background())
	go registerSlashCommands(cfg)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	log.Printf("discordbot.main: starting server on %v%v serving %v", hostname,
		cfg.ListenAddr, tournamentBase)

	http.HandleFunc("/DiscordBot/Interaction", interactionHandler)
	if err := http.ListenAndServe(cfg.ListenAddr, nil); err != nil {
		log.Fatalf("discordbot.main: Serve failed: %v", err)
	}

	log.Printf("discordbot.main: exiting")
}
