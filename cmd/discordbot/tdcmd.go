/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
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
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/boylstonchessclub-bracketbot/bcc"
	"github.com/mikeb26/boylstonchessclub-bracketbot/bracket"
	"github.com/mikeb26/boylstonchessclub-bracketbot/internal"
	"github.com/mikeb26/boylstonchessclub-bracketbot/store"
)

type TdSubCommand string

const (
	TdAboutCmd    TdSubCommand = "about"
	TdHelpCmd     TdSubCommand = "help"
	TdDrawCmd     TdSubCommand = "draw"
	TdBracketCmd  TdSubCommand = "bracket"
	TdOpponentCmd TdSubCommand = "opponent"
)

var tdSubCmdHdlrs = map[TdSubCommand]CmdHandler{
	TdAboutCmd:    tdAboutCmdHandler,
	TdHelpCmd:     tdHelpCmdHandler,
	TdDrawCmd:     tdDrawCmdHandler,
	TdBracketCmd:  tdBracketCmdHandler,
	TdOpponentCmd: tdOpponentCmdHandler,
}

// set by main; tests substitute their own
var bccClient *bcc.Client
var bracketStore store.Store

// tdOptions holds the options of a /td subcommand.
type tdOptions struct {
	eventID    int64
	hasEventID bool
	section    string
	player     string
	shuffle    bool
	broadcast  bool
}

func parseTdOptions(inter *discordgo.Interaction) tdOptions {
	var opts tdOptions

	data := inter.ApplicationCommandData()
	if len(data.Options) == 0 {
		return opts
	}
	for _, opt := range data.Options[0].Options {
		switch opt.Name {
		case "eventid":
			opts.eventID = opt.IntValue()
			opts.hasEventID = true
		case "section":
			opts.section = strings.TrimSpace(opt.StringValue())
		case "player":
			opts.player = strings.TrimSpace(opt.StringValue())
		case "shuffle":
			opts.shuffle = opt.BoolValue()
		case "broadcast":
			opts.broadcast = opt.BoolValue()
		}
	}

	return opts
}

func newResponse() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
}

func tdCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := tdHelpCmdHandler
	if len(data.Options) > 0 {
		if subName := data.Options[0].Name; subName != "" {
			h, ok := tdSubCmdHdlrs[TdSubCommand(subName)]
			if ok {
				hdlr = h
			}
		}
	}
	return hdlr(ctx, inter)
}

//go:embed about.txt
var aboutText string

func tdAboutCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	resp.Data.Content = truncateContent(aboutText)

	return resp
}

//go:embed help.md
var helpText string

func tdHelpCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	resp.Data.Content = truncateContent(helpText)

	return resp
}

// tdDrawCmdHandler handles the /td draw command, previewing the brackets
// current registrations would produce. Nothing is saved.
func tdDrawCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	opts := parseTdOptions(inter)
	if !opts.hasEventID {
		resp.Data.Content = "Please provide an event ID."
		log.Printf("discordbot.draw: %v", resp.Data.Content)
		return resp
	}

	regs, err := bccClient.GetRegistrations(ctx, opts.eventID)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error fetching registrations for event %d: %v",
			opts.eventID, err)
		log.Printf("discordbot.draw: %v", resp.Data.Content)
		return resp
	}
	draws, err := bcc.BuildDraw(regs.EventID, regs.Entrants, bcc.DrawOptions{
		PlayersPerMatch: internal.DefaultPlayersPerMatch,
		Shuffle:         opts.shuffle,
	})
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error drawing brackets for event %d: %v",
			opts.eventID, err)
		log.Printf("discordbot.draw: %v", resp.Data.Content)
		return resp
	}

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("```\n%s```",
		truncateContent(bcc.BuildDrawOutput(draws)))
	if opts.broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// tdBracketCmdHandler handles the /td bracket command to display saved
// brackets
func tdBracketCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	opts := parseTdOptions(inter)
	if !opts.hasEventID {
		resp.Data.Content = "Please provide an event ID."
		log.Printf("discordbot.bracket: %v", resp.Data.Content)
		return resp
	}

	var ids []string
	if opts.section != "" {
		ids = []string{bcc.BracketID(opts.eventID, opts.section)}
	} else {
		var err error
		ids, err = bracketStore.List(ctx, fmt.Sprintf("%d/", opts.eventID))
		if err != nil {
			resp.Data.Content = fmt.Sprintf("Error listing brackets for event %d: %v",
				opts.eventID, err)
			log.Printf("discordbot.bracket: %v", resp.Data.Content)
			return resp
		}
	}
	if len(ids) == 0 {
		resp.Data.Content = fmt.Sprintf("No brackets have been drawn for event %d.",
			opts.eventID)
		return resp
	}

	brackets, err := store.LoadAll(ctx, bracketStore, ids, nil)
	if errors.Is(err, store.ErrNotFound) {
		resp.Data.Content = fmt.Sprintf("No bracket has been drawn for %v.",
			ids[0])
		return resp
	} else if err != nil {
		resp.Data.Content = fmt.Sprintf("Error loading brackets for event %d: %v",
			opts.eventID, err)
		log.Printf("discordbot.bracket: %v", resp.Data.Content)
		return resp
	}

	var sb strings.Builder
	for _, b := range brackets {
		sb.WriteString(bracket.BuildBracketOutput(b, nil))
		sb.WriteString("\n")
	}
	resp.Data.Content = fmt.Sprintf("```\n%s```", truncateContent(sb.String()))
	if opts.broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// tdOpponentCmdHandler handles the /td opponent command to display a
// player's match group in a saved bracket
func tdOpponentCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	opts := parseTdOptions(inter)
	if !opts.hasEventID || opts.section == "" || opts.player == "" {
		resp.Data.Content = "Please provide an event ID, section and player."
		log.Printf("discordbot.opponent: %v", resp.Data.Content)
		return resp
	}

	id := bcc.BracketID(opts.eventID, opts.section)
	rec, err := bracketStore.Load(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		resp.Data.Content = fmt.Sprintf("No bracket has been drawn for %v.", id)
		return resp
	} else if err != nil {
		resp.Data.Content = fmt.Sprintf("Error loading bracket %v: %v", id, err)
		log.Printf("discordbot.opponent: %v", resp.Data.Content)
		return resp
	}
	b, err := store.FromRecord(rec, nil)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error restoring bracket %v: %v", id, err)
		log.Printf("discordbot.opponent: %v", resp.Data.Content)
		return resp
	}

	idx := b.PlayerIndex(opts.player)
	if idx == bracket.InvalidIndex {
		resp.Data.Content = fmt.Sprintf("%v is not in bracket %v.", opts.player, id)
	} else if opps := b.Opponents(opts.player); len(opps) == 0 {
		resp.Data.Content = fmt.Sprintf("%v (slot %d) does not have an opponent yet.",
			opts.player, idx+1)
	} else {
		resp.Data.Content = fmt.Sprintf("%v (slot %d) plays %v", opts.player,
			idx+1, strings.Join(opps, ", "))
	}
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
