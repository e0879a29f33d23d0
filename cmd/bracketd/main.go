/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
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
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/mikeb26/boylstonchessclub-bracketbot/bcc"
	"github.com/mikeb26/boylstonchessclub-bracketbot/bracket"
	"github.com/mikeb26/boylstonchessclub-bracketbot/internal"
	"github.com/mikeb26/boylstonchessclub-bracketbot/s3store"
	"github.com/mikeb26/boylstonchessclub-bracketbot/store"
)

//go:embed help.txt
var helpText string

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, args []string)

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":      handleHelp,
	"draw":      handleDraw,
	"show":      handleShow,
	"add":       handleAdd,
	"withdraw":  handleWithdraw,
	"opponent":  handleOpponent,
	"reshuffle": handleReshuffle,
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

func handleDraw(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	eventID := fs.Int("eventid", 0, "Event ID to draw brackets for")
	ppm := fs.Int("ppm", internal.DefaultPlayersPerMatch, "Players per match")
	rounds := fs.Int("rounds", 0, "Rounds per bracket (0 sizes to each section)")
	shuffle := fs.Bool("shuffle", false, "Randomize where each pairing sits")
	seed := fs.Int64("seed", 0, "Random seed for --shuffle (0 uses the clock)")
	save := fs.Bool("save", false, "Save the drawn brackets")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *eventID <= 0 {
		fmt.Fprintln(os.Stderr, "Please provide a valid --eventid ID.")
		fs.Usage()
		os.Exit(1)
	}
	if *ppm <= 0 {
		fmt.Fprintln(os.Stderr, "Please provide a positive --ppm.")
		fs.Usage()
		os.Exit(1)
	}

	regs, err := bcc.NewClient(ctx).GetRegistrations(ctx, int64(*eventID))
	if err != nil {
		log.Fatalf("Error fetching registrations for event %d: %v", *eventID, err)
	}
	draws, err := bcc.BuildDraw(regs.EventID, regs.Entrants, bcc.DrawOptions{
		PlayersPerMatch: *ppm,
		Rounds:          *rounds,
		Shuffle:         *shuffle,
		Rand:            newRand(*seed),
	})
	if err != nil {
		log.Fatalf("Error drawing brackets for event %d: %v", *eventID, err)
	}

	if regs.Title != "" {
		fmt.Printf("%v (EventID:%d, via %v)\n\n", regs.Title, regs.EventID,
			regs.Source)
	}
	fmt.Print(bcc.BuildDrawOutput(draws))

	if !*save {
		fmt.Printf("Run '%s draw --eventid %d --save' to keep this draw\n",
			os.Args[0], *eventID)
		return
	}
	var brackets []*bracket.Bracket
	for _, d := range draws {
		brackets = append(brackets, d.Bracket)
	}
	if err := store.SaveAll(ctx, openStore(ctx), brackets); err != nil {
		log.Fatalf("Error saving brackets for event %d: %v", *eventID, err)
	}
	fmt.Printf("Saved %d bracket(s) for event %d\n", len(brackets), *eventID)
}

func handleShow(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	eventID := fs.Int("eventid", 0, "Event ID of the saved brackets")
	section := fs.String("section", "", "Only show this section")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *eventID <= 0 {
		fmt.Fprintln(os.Stderr, "Please provide a valid --eventid ID.")
		fs.Usage()
		os.Exit(1)
	}

	s := openStore(ctx)
	var ids []string
	if *section != "" {
		ids = []string{bcc.BracketID(int64(*eventID), *section)}
	} else {
		var err error
		ids, err = s.List(ctx, fmt.Sprintf("%d/", *eventID))
		if err != nil {
			log.Fatalf("Error listing brackets for event %d: %v", *eventID, err)
		}
	}
	if len(ids) == 0 {
		fmt.Printf("No saved brackets for event %d.\n", *eventID)
		return
	}

	brackets, err := store.LoadAll(ctx, s, ids, nil)
	if err != nil {
		log.Fatalf("Error loading brackets for event %d: %v", *eventID, err)
	}
	names := fetchNames(ctx, int64(*eventID))
	for _, b := range brackets {
		fmt.Print(bracket.BuildBracketOutput(b, names))
		fmt.Println()
	}
}

func handleAdd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	eventID := fs.Int("eventid", 0, "Event ID of the saved bracket")
	section := fs.String("section", "", "Section of the saved bracket")
	players := fs.String("players", "", "Comma separated player ids; several ids form one match")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	ids := splitIDs(*players)
	if *eventID <= 0 || len(ids) == 0 {
		fmt.Fprintln(os.Stderr, "Please provide a valid --eventid ID and --players.")
		fs.Usage()
		os.Exit(1)
	}

	s := openStore(ctx)
	b := loadBracket(ctx, s, int64(*eventID), *section)
	var err error
	if len(ids) == 1 {
		_, err = b.AddPlayer(ids[0])
	} else {
		_, err = b.AddMatch(ids)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to add %v to %v: %v\n",
			strings.Join(ids, ","), b.Config().ID(), describe(err, b))
		os.Exit(1)
	}
	saveBracket(ctx, s, b)
	fmt.Print(bracket.BuildBracketOutput(b, nil))
}

func handleWithdraw(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("withdraw", flag.ExitOnError)
	eventID := fs.Int("eventid", 0, "Event ID of the saved bracket")
	section := fs.String("section", "", "Section of the saved bracket")
	players := fs.String("players", "", "Comma separated player ids to remove")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	ids := splitIDs(*players)
	if *eventID <= 0 || len(ids) == 0 {
		fmt.Fprintln(os.Stderr, "Please provide a valid --eventid ID and --players.")
		fs.Usage()
		os.Exit(1)
	}

	s := openStore(ctx)
	b := loadBracket(ctx, s, int64(*eventID), *section)
	before := b.Len()
	b.RemovePlayers(ids...)
	if b.Len() == before {
		fmt.Printf("None of %v are in %v; nothing to do.\n",
			strings.Join(ids, ","), b.Config().ID())
		return
	}
	saveBracket(ctx, s, b)
	fmt.Printf("Withdrew %d player(s); %d open spot(s)\n", before-b.Len(),
		b.EmptySpots())
	fmt.Print(bracket.BuildBracketOutput(b, nil))
}

func handleOpponent(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("opponent", flag.ExitOnError)
	eventID := fs.Int("eventid", 0, "Event ID of the saved bracket")
	section := fs.String("section", "", "Section of the saved bracket")
	player := fs.String("player", "", "Player id")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *eventID <= 0 || *player == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --eventid ID and --player.")
		fs.Usage()
		os.Exit(1)
	}

	b := loadBracket(ctx, openStore(ctx), int64(*eventID), *section)
	idx := b.PlayerIndex(*player)
	if idx == bracket.InvalidIndex {
		fmt.Printf("%v is not in %v.\n", *player, b.Config().ID())
		return
	}
	opps := b.Opponents(*player)
	if len(opps) == 0 {
		fmt.Printf("%v (slot %d) does not have an opponent yet.\n", *player, idx+1)
		return
	}
	fmt.Printf("%v (slot %d) plays %v\n", *player, idx+1, strings.Join(opps, ", "))
}

func handleReshuffle(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("reshuffle", flag.ExitOnError)
	eventID := fs.Int("eventid", 0, "Event ID of the saved bracket")
	section := fs.String("section", "", "Section of the saved bracket")
	seed := fs.Int64("seed", 0, "Random seed (0 uses the clock)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *eventID <= 0 {
		fmt.Fprintln(os.Stderr, "Please provide a valid --eventid ID.")
		fs.Usage()
		os.Exit(1)
	}

	s := openStore(ctx)
	rec, err := s.Load(ctx, bcc.BracketID(int64(*eventID), *section))
	if err != nil {
		log.Fatalf("Error loading bracket: %v", err)
	}
	b, err := store.FromRecord(rec, newRand(*seed))
	if err != nil {
		log.Fatalf("Error restoring bracket: %v", err)
	}
	if !b.IsFull() {
		fmt.Printf("%v has %d open spot(s); only a full bracket can be reshuffled.\n",
			b.Config().ID(), b.EmptySpots())
		return
	}
	b.Shuffle()
	saveBracket(ctx, s, b)
	fmt.Print(bracket.BuildBracketOutput(b, nil))
}

func openStore(ctx context.Context) *store.S3Store {
	objects := s3store.New(ctx, internal.BracketBucket, true, true)
	if err := objects.Init(); err != nil {
		log.Fatalf("Error opening bracket store: %v", err)
	}
	return store.NewS3Store(objects)
}

func loadBracket(ctx context.Context, s store.Store, eventID int64,
	section string) *bracket.Bracket {

	id := bcc.BracketID(eventID, section)
	rec, err := s.Load(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		log.Fatalf("No saved bracket %v; run draw --save first", id)
	} else if err != nil {
		log.Fatalf("Error loading bracket %v: %v", id, err)
	}
	b, err := store.FromRecord(rec, nil)
	if err != nil {
		log.Fatalf("Error restoring bracket %v: %v", id, err)
	}
	return b
}

func saveBracket(ctx context.Context, s store.Store, b *bracket.Bracket) {
	if err := s.Save(ctx, store.ToRecord(b, time.Now())); err != nil {
		log.Fatalf("Error saving bracket %v: %v", b.Config().ID(), err)
	}
}

// fetchNames maps entrant ids to names; best effort since ids alone are
// still meaningful
func fetchNames(ctx context.Context, eventID int64) map[string]string {
	names := make(map[string]string)
	regs, err := bcc.NewClient(ctx).GetRegistrations(ctx, eventID)
	if err != nil {
		log.Printf("bracketd.show: unable to fetch names: %v", err)
		return names
	}
	for _, e := range regs.Entrants {
		names[e.ID] = e.Name
	}
	return names
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func describe(err error, b *bracket.Bracket) string {
	switch {
	case errors.Is(err, bracket.ErrInvalidMatch):
		return fmt.Sprintf("a match needs exactly %d players",
			b.Config().PlayersPerMatch())
	case errors.Is(err, bracket.ErrBracketIsFull):
		return fmt.Sprintf("only %d open spot(s)", b.EmptySpots())
	case errors.Is(err, bracket.ErrAlreadyInBracket):
		return "already in the bracket"
	default:
		return err.Error()
	}
}
