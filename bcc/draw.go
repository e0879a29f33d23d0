/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bcc

import (
	"fmt"
	"strings"

	"github.com/mikeb26/boylstonchessclub-bracketbot/bracket"
	"github.com/mikeb26/boylstonchessclub-bracketbot/internal"
)

// DrawOptions control how BuildDraw sizes and seeds each section.
type DrawOptions struct {
	// PlayersPerMatch defaults to internal.DefaultPlayersPerMatch
	PlayersPerMatch int
	// Rounds fixes the bracket depth; 0 sizes each section to its field
	Rounds int
	// Shuffle re-draws the position of every pairing once seeded. Only
	// brackets that end up full are affected.
	Shuffle bool
	// Rand is shared by every section's bracket; nil means time seeded
	Rand bracket.RandSource
}

// SectionDraw is the bracket drawn for one section of an event.
type SectionDraw struct {
	Section  string
	Bracket  *bracket.Bracket
	Unplaced []Entrant
	// Names maps bracket slot ids to display names
	Names map[string]string
}

// BracketID names the bracket for one section of an event.
func BracketID(eventID int64, section string) string {
	return fmt.Sprintf("%d/%v", eventID, sectionLabel(section))
}

// RoundsFor returns the fewest rounds whose bracket holds n entrants.
func RoundsFor(n int, playersPerMatch int) int {
	if playersPerMatch <= 0 {
		playersPerMatch = internal.DefaultPlayersPerMatch
	}
	rounds := 1
	for capacity := playersPerMatch; capacity < n; capacity *= 2 {
		rounds++
	}

	return rounds
}

// BuildDraw creates one bracket per section, seeded by rating. Entrants who
// requested a round 1 bye, and those left over once the field is split into
// complete matches, are reported as unplaced.
func BuildDraw(eventID int64, entrants []Entrant,
	opts DrawOptions) ([]SectionDraw, error) {

	ppm := opts.PlayersPerMatch
	if ppm == 0 {
		ppm = internal.DefaultPlayersPerMatch
	}

	sections, names := GroupBySection(entrants)
	draws := make([]SectionDraw, 0, len(names))
	for _, sec := range names {
		draw := SectionDraw{
			Section: sec,
			Names:   make(map[string]string),
		}

		var field []bracket.Seed
		byId := make(map[string]Entrant)
		for _, e := range sections[sec] {
			draw.Names[e.ID] = e.Name
			if e.Round1ByeRequested() {
				draw.Unplaced = append(draw.Unplaced, e)
				continue
			}
			byId[e.ID] = e
			field = append(field, e.Seed())
		}

		rounds := opts.Rounds
		if rounds == 0 {
			rounds = RoundsFor(len(field), ppm)
		}
		cfg, err := bracket.NewConfig(BracketID(eventID, sec), ppm, rounds)
		if err != nil {
			return nil, fmt.Errorf("unable to size %v section: %w",
				sectionLabel(sec), err)
		}
		draw.Bracket = bracket.New(cfg, opts.Rand)

		for _, s := range bracket.SeedByRating(draw.Bracket, field) {
			e, ok := byId[s.ID]
			if !ok {
				e = Entrant{ID: s.ID, Name: s.ID, Rating: s.Rating, Section: sec}
			}
			draw.Unplaced = append(draw.Unplaced, e)
		}
		if opts.Shuffle {
			draw.Bracket.Shuffle()
		}

		draws = append(draws, draw)
	}

	return draws, nil
}

// BuildDrawOutput formats every section's bracket followed by its unplaced
// entrants.
func BuildDrawOutput(draws []SectionDraw) string {
	var sb strings.Builder

	if len(draws) == 0 {
		sb.WriteString("No registrations found\n")
		return sb.String()
	}

	for _, d := range draws {
		if len(draws) > 1 {
			sb.WriteString(fmt.Sprintf("%s Section\n", sectionLabel(d.Section)))
		}
		sb.WriteString(bracket.BuildBracketOutput(d.Bracket, d.Names))
		if len(d.Unplaced) > 0 {
			sb.WriteString("Not placed:\n")
			for _, e := range d.Unplaced {
				reason := "field does not fill a match"
				if e.Round1ByeRequested() {
					reason = "round 1 bye requested"
				}
				sb.WriteString(fmt.Sprintf("  %s(%d) - %s\n", e.Name, e.Rating,
					reason))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
