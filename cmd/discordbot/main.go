/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
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
	"strings"

	"github.com/bwmarrin/discordgo"

	_ "embed"

	"github.com/mikeb26/boylstonchessclub-bracketbot/bcc"
	"github.com/mikeb26/boylstonchessclub-bracketbot/internal"
	"github.com/mikeb26/boylstonchessclub-bracketbot/s3store"
	"github.com/mikeb26/boylstonchessclub-bracketbot/store"
)

const (
	EnvBotToken  = "BRACKETBOT_TOKEN"
	EnvBotPubKey = "BRACKETBOT_PUBKEY"
	EnvBotAppId  = "BRACKETBOT_APPID"
	// EnvTdCmdId is unset until the /td command has been registered once
	EnvTdCmdId = "BRACKETBOT_TDCMDID"
)

var botPubKey ed25519.PublicKey
var botAppId string
var tdCmdId string

var client *discordgo.Session

type TopLevelCommand string

const (
	TdCmd TopLevelCommand = "td"
)

type CmdHandler func(ctx context.Context,
	i *discordgo.Interaction) *discordgo.InteractionResponse

var topLevelCmdHdlrs = map[TopLevelCommand]CmdHandler{
	TdCmd: tdCmdHandler,
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

	resp := dispatch(r.Context(), &inter)
	if resp == nil {
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

// dispatch returns nil for interaction types the bot does not handle.
func dispatch(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := &discordgo.InteractionResponse{}
	switch inter.Type {
	case discordgo.InteractionPing:
		resp.Type = discordgo.InteractionResponsePong
	case discordgo.InteractionApplicationCommand:
		name := inter.ApplicationCommandData().Name
		hdlr, ok := topLevelCmdHdlrs[TopLevelCommand(name)]
		if !ok {
			resp.Type = discordgo.InteractionResponseChannelMessageWithSource
			resp.Data = &discordgo.InteractionResponseData{
				Content: fmt.Sprintf("unknown command '%v'", name),
				Flags:   discordgo.MessageFlagsEphemeral,
			}
		} else {
			resp = hdlr(ctx, inter)
		}
	default:
		return nil
	}

	return resp
}

func init() {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))
}

func mustGetenv(name string) string {
	val := strings.TrimSpace(os.Getenv(name))
	if val == "" {
		log.Fatalf("discordbot.init: %v is not set", name)
	}

	return val
}

func initClient() {
	pubKeyBytes, err := hex.DecodeString(mustGetenv(EnvBotPubKey))
	if err != nil {
		log.Fatalf("discordbot.init: Failed to parse public key: %v", err)
	}
	botPubKey = ed25519.PublicKey(pubKeyBytes)
	botAppId = mustGetenv(EnvBotAppId)
	tdCmdId = strings.TrimSpace(os.Getenv(EnvTdCmdId))

	client, err = discordgo.New("Bot " + mustGetenv(EnvBotToken))
	if err != nil {
		log.Fatalf("discordbot.init: Failed to initialize discord client: %v", err)
	}
}

func initStore(ctx context.Context) {
	objects := s3store.New(ctx, internal.BracketBucket, true, true)
	if err := objects.Init(); err != nil {
		log.Printf("discordbot.init: bracket store unavailable, brackets will not survive a restart: %v",
			err)
		bracketStore = store.NewMemStore()
		return
	}
	bracketStore = store.NewS3Store(objects)
}

//go:embed lastupdate.hash
var lastCmdUpdateHash string

func shouldUpdateCmdRegistration(cmd *discordgo.ApplicationCommand) bool {
	cmdJson, err := json.Marshal(cmd)
	if err != nil {
		log.Printf("discordbot.reg: failed to marshal cmd: %v", err)
		return false
	}
	hasher := sha256.New()
	hasher.Write(cmdJson)
	hexString := hex.EncodeToString(hasher.Sum(nil))

	shouldUpdate := (hexString != strings.TrimSpace(lastCmdUpdateHash))
	if shouldUpdate {
		log.Printf("discordbot.reg: updating cmd reg; please update lastupdate.hash to %v",
			hexString)
	}

	return shouldUpdate
}

func eventIdOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "eventid",
		Description: "Event id of the tournament",
		Required:    true,
	}
}

func sectionOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "section",
		Description: "Section name, e.g. Open or U1800",
		Required:    required,
	}
}

func broadcastOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        "broadcast",
		Description: "Share with the rest of the channel instead of only to you (default is false)",
		Required:    false,
	}
}

func tdCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        string(TdCmd),
		Description: "Tournament director commands; try /td help to start",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(TdHelpCmd),
				Description: "Show usage for td",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(TdAboutCmd),
				Description: "Show information about boylstonchessclub-bracketbot",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(TdDrawCmd),
				Description: "Preview a seeded bracket draw from current registrations",
				Options: []*discordgo.ApplicationCommandOption{
					eventIdOption(),
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "shuffle",
						Description: "Randomize where each pairing sits (default is false)",
						Required:    false,
					},
					broadcastOption(),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(TdBracketCmd),
				Description: "Show the saved brackets for an event",
				Options: []*discordgo.ApplicationCommandOption{
					eventIdOption(),
					sectionOption(false),
					broadcastOption(),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(TdOpponentCmd),
				Description: "Show who a player is matched against",
				Options: []*discordgo.ApplicationCommandOption{
					eventIdOption(),
					sectionOption(true),
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "player",
						Description: "USCF member id (or name for unrated players)",
						Required:    true,
					},
					broadcastOption(),
				},
			},
		},
	}
}

func registerSlashCommands() {
	tdCmd := tdCommand()

	if tdCmdId == "" {
		cmd, err := client.ApplicationCommandCreate(botAppId, "", tdCmd)
		if err != nil {
			log.Printf("discordbot.reg: failed to register %v: %v", tdCmd.Name,
				err)
			return
		}

		log.Printf("discordbot.reg: registered %v(cmdID:%v); set %v to keep it",
			cmd.Name, cmd.ID, EnvTdCmdId)
	} else if shouldUpdateCmdRegistration(tdCmd) {
		cmd, err := client.ApplicationCommandEdit(botAppId, "", tdCmdId, tdCmd)
		if err != nil {
			log.Printf("discordbot.reg: failed to update %v: %v", tdCmd.Name,
				err)
			return
		}

		log.Printf("discordbot.reg: updated %v(cmdID:%v)", cmd.Name, cmd.ID)
	}
}

func main() {
	ctx := context.Background()

	initClient()
	initStore(ctx)
	bccClient = bcc.NewClient(ctx)
	go registerSlashCommands()

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	log.Printf("discordbot.main: starting server on %v:8080", hostname)

	http.HandleFunc("/DiscordBot/Interaction", interactionHandler)
	if err := http.ListenAndServe(":8080", nil); err != nil {
		log.Fatalf("discordbot.main: Serve failed: %v", err)
	}

	log.Printf("discordbot.main: exiting")
}
