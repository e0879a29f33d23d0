/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bcc

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/mikeb26/boylstonchessclub-bracketbot/bracket"
	"github.com/mikeb26/boylstonchessclub-bracketbot/internal"
)

type Source int

const (
	SourceAPI Source = iota
	SourceWebsite
)

func (s Source) String() string {
	if s == SourceAPI {
		return "api"
	} else if s == SourceWebsite {
		return "website"
	} else {
		return "?"
	}
}

// Entrant is one registered player as seen by the bracket draw.
type Entrant struct {
	// ID is the USCF member id, or the normalized name for players without
	// one. It is the identifier placed into bracket slots.
	ID          string
	Name        string
	Rating      int
	Section     string
	ByeRequests string
}

func (e Entrant) Seed() bracket.Seed {
	return bracket.Seed{ID: e.ID, Rating: e.Rating}
}

// Round1ByeRequested reports whether the entrant asked to sit out round 1.
func (e Entrant) Round1ByeRequested() bool {
	return round1ByeRequested(e.ByeRequests)
}

// Registrations is the entrant list for one event.
type Registrations struct {
	EventID  int64
	Title    string
	Entrants []Entrant
	Source   Source
}

// GetRegistrations fetches the API event detail and the public entries page
// concurrently. The API result is preferred; the website is used when the
// API fails or returns no entries.
func (c *Client) GetRegistrations(ctx context.Context,
	eventId int64) (*Registrations, error) {

	var viaApi, viaWeb *Registrations
	var apiErr, webErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		detail, err := c.GetEventDetail(gctx, eventId)
		if err != nil {
			apiErr = err
			return nil
		}
		viaApi = detailToRegistrations(detail)
		return nil
	})
	g.Go(func() error {
		url := fmt.Sprintf("%v/tournament/entries/%d", c.webBase, eventId)
		doc, err := c.fetchDoc(gctx, url)
		if err != nil {
			webErr = fmt.Errorf("unable to fetch entries page: %w", err)
			return nil
		}
		viaWeb = &Registrations{
			EventID:  eventId,
			Entrants: ParseEntriesPage(doc),
			Source:   SourceWebsite,
		}
		return nil
	})
	_ = g.Wait()

	if apiErr == nil && len(viaApi.Entrants) > 0 {
		return viaApi, nil
	}
	if webErr == nil && len(viaWeb.Entrants) > 0 {
		if apiErr != nil {
			log.Printf("bcc.registrations: api failed for %v, using website: %v",
				eventId, apiErr)
		}
		return viaWeb, nil
	}
	if apiErr == nil {
		// the event exists but nobody has registered yet
		return viaApi, nil
	}
	if webErr != nil {
		return nil, fmt.Errorf("unable to fetch registrations for %v: %w; %v",
			eventId, apiErr, webErr)
	}

	return viaWeb, nil
}

func detailToRegistrations(detail *EventDetail) *Registrations {
	regs := &Registrations{
		EventID: int64(detail.EventID),
		Title:   detail.Title,
		Source:  SourceAPI,
	}
	for _, entry := range detail.Entries {
		regs.Entrants = append(regs.Entrants, entryToEntrant(entry))
	}

	return regs
}

// Construct an Entrant from an API Entry
func entryToEntrant(entry Entry) Entrant {
	name := internal.NormalizeName(entry.FirstName + " " + entry.LastName)
	if name == "" {
		name = "Unknown"
	}

	return Entrant{
		ID:          entrantID(entry.UscfID, name),
		Name:        name,
		Rating:      internal.StrRatingToInt(entry.PrimaryRating),
		Section:     strings.TrimSpace(entry.SectionName),
		ByeRequests: entry.ByeRequests,
	}
}

func entrantID(uscfID int, name string) string {
	if uscfID > 0 {
		return strconv.Itoa(uscfID)
	}
	return name
}

var reUscfID = regexp.MustCompile(`MbrDtlMain\.php\?(\d{6,8})`)

// ParseEntriesPage extracts entrants from the members table of the public
// entries page. Columns are located by their header text.
func ParseEntriesPage(doc *goquery.Document) []Entrant {
	idIdx, secIdx, nameIdx, rateIdx, byesIdx := -1, -1, -1, -1, -1
	doc.Find("table#members thead th").Each(func(i int, s *goquery.Selection) {
		switch strings.ToLower(strings.TrimSpace(s.Text())) {
		case "uscf id":
			idIdx = i
		case "section":
			secIdx = i
		case "name":
			nameIdx = i
		case "rating":
			rateIdx = i
		case "byes":
			byesIdx = i
		}
	})
	if nameIdx < 0 {
		return nil
	}

	var entrants []Entrant
	doc.Find("table#members tbody tr").Each(func(_ int, s *goquery.Selection) {
		cells := s.Find("td")
		cell := func(idx int) *goquery.Selection {
			if idx < 0 || idx >= cells.Length() {
				return nil
			}
			return cells.Eq(idx)
		}

		nameSel := cell(nameIdx)
		if nameSel == nil {
			return
		}
		name := internal.NormalizeName(nameSel.Text())
		if name == "" {
			name = "Unknown"
		}

		e := Entrant{Name: name}
		uscfID := 0
		if sel := cell(idIdx); sel != nil {
			href, _ := sel.Find("a").Attr("href")
			if m := reUscfID.FindStringSubmatch(href); m != nil {
				uscfID, _ = strconv.Atoi(m[1])
			} else {
				uscfID, _ = strconv.Atoi(strings.TrimSpace(sel.Text()))
			}
		}
		e.ID = entrantID(uscfID, name)
		if sel := cell(secIdx); sel != nil {
			e.Section = strings.TrimSpace(sel.Text())
		}
		if sel := cell(rateIdx); sel != nil {
			e.Rating = internal.StrRatingToInt(sel.Text())
		}
		if sel := cell(byesIdx); sel != nil {
			e.ByeRequests = strings.TrimSpace(sel.Text())
		}
		entrants = append(entrants, e)
	})

	return entrants
}

var (
	reNumOnly   = regexp.MustCompile(`^\d+$`)
	reRoundList = regexp.MustCompile(`(?i)\b(?:round|rnd|rounds|rnds)\b[\s:]*((?:\d+(?:\s*[,&;/]\s*\d+)*))`)
	reDigits    = regexp.MustCompile(`\d+`)
)

func round1ByeRequested(req string) bool {
	s := strings.TrimSpace(req)
	if s == "" {
		return false
	}
	// If input is just a number, e.g., "1"
	if reNumOnly.MatchString(s) {
		if n, err := strconv.Atoi(s); err == nil && n == 1 {
			return true
		}
	}

	// Look for patterns like "round 1,5" or "rnds 1&4"
	if matches := reRoundList.FindStringSubmatch(strings.ToLower(s)); matches != nil {
		for _, m := range reDigits.FindAllString(matches[1], -1) {
			if n, err := strconv.Atoi(m); err == nil && n == 1 {
				return true
			}
		}
	}

	return false
}
