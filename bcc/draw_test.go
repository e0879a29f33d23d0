/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bcc

import (
	"fmt"
	"math/rand"
	"reflect"
	"strings"
	"testing"
)

func TestRoundsFor(t *testing.T) {
	cases := []struct {
		n, ppm, want int
	}{
		{n: 0, ppm: 2, want: 1},
		{n: 2, ppm: 2, want: 1},
		{n: 3, ppm: 2, want: 2},
		{n: 8, ppm: 2, want: 3},
		{n: 9, ppm: 2, want: 4},
		{n: 16, ppm: 4, want: 3},
		{n: 5, ppm: 0, want: 3},
	}
	for _, c := range cases {
		if got := RoundsFor(c.n, c.ppm); got != c.want {
			t.Errorf("RoundsFor(%d, %d) = %d; want %d", c.n, c.ppm, got, c.want)
		}
	}
}

func testEntrants() []Entrant {
	var entrants []Entrant
	for i := 1; i <= 8; i++ {
		entrants = append(entrants, Entrant{
			ID:      fmt.Sprintf("1000000%d", i),
			Name:    fmt.Sprintf("Open Player%d", i),
			Rating:  2300 - i*50,
			Section: "Open",
		})
	}
	entrants = append(entrants,
		Entrant{ID: "20000001", Name: "Reserve One", Rating: 1400, Section: "U1500"},
		Entrant{ID: "20000002", Name: "Reserve Two", Rating: 1300, Section: "U1500"},
		Entrant{ID: "20000003", Name: "Reserve Three", Rating: 1200, Section: "U1500"},
		Entrant{ID: "20000004", Name: "Reserve Four", Rating: 1100, Section: "U1500",
			ByeRequests: "1"},
	)
	return entrants
}

func TestBuildDraw(t *testing.T) {
	draws, err := BuildDraw(1312, testEntrants(), DrawOptions{})
	if err != nil {
		t.Fatalf("BuildDraw returned error: %v", err)
	}
	if len(draws) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(draws))
	}

	open := draws[0]
	if open.Section != "Open" || open.Bracket.Config().ID() != "1312/Open" {
		t.Errorf("unexpected first section %v", open.Bracket.Config())
	}
	if !open.Bracket.IsFull() || len(open.Unplaced) != 0 {
		t.Errorf("expected a full Open bracket, got %v unplaced %v",
			open.Bracket.Slots(), open.Unplaced)
	}
	if opps := open.Bracket.Opponents("10000001"); !reflect.DeepEqual(opps,
		[]string{"10000005"}) {
		t.Errorf("top seed opponents = %v; want [10000005]", opps)
	}

	reserve := draws[1]
	// three players left after the bye need a two round bracket
	if reserve.Bracket.Config().PlayersPerBracket() != 4 {
		t.Errorf("U1500 capacity = %d; want 4",
			reserve.Bracket.Config().PlayersPerBracket())
	}
	if got := reserve.Bracket.Slots(); !reflect.DeepEqual(got,
		[]string{"20000001", "20000002"}) {
		t.Errorf("U1500 slots = %v", got)
	}
	var unplaced []string
	for _, e := range reserve.Unplaced {
		unplaced = append(unplaced, e.ID)
	}
	if !reflect.DeepEqual(unplaced, []string{"20000004", "20000003"}) {
		t.Errorf("U1500 unplaced = %v", unplaced)
	}
}

func TestBuildDrawShuffleKeepsPairings(t *testing.T) {
	plain, err := BuildDraw(1312, testEntrants(), DrawOptions{})
	if err != nil {
		t.Fatalf("BuildDraw returned error: %v", err)
	}
	shuffled, err := BuildDraw(1312, testEntrants(), DrawOptions{
		Shuffle: true,
		Rand:    rand.New(rand.NewSource(42)),
	})
	if err != nil {
		t.Fatalf("BuildDraw returned error: %v", err)
	}

	for i := range plain {
		for _, id := range plain[i].Bracket.Slots() {
			want := plain[i].Bracket.Opponents(id)
			got := shuffled[i].Bracket.Opponents(id)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("%v opponents = %v after shuffle; want %v", id, got, want)
			}
		}
	}
}

func TestBuildDrawFixedRounds(t *testing.T) {
	draws, err := BuildDraw(7, testEntrants()[:8], DrawOptions{Rounds: 4})
	if err != nil {
		t.Fatalf("BuildDraw returned error: %v", err)
	}
	b := draws[0].Bracket
	if b.Config().PlayersPerBracket() != 16 || b.Len() != 8 || b.EmptySpots() != 8 {
		t.Errorf("unexpected bracket %v with %d players", b.Config(), b.Len())
	}

	if _, err := BuildDraw(7, testEntrants(), DrawOptions{Rounds: -1}); err == nil {
		t.Errorf("expected error for negative rounds")
	}
}

func TestBuildDrawOutput(t *testing.T) {
	draws, err := BuildDraw(1312, testEntrants(), DrawOptions{})
	if err != nil {
		t.Fatalf("BuildDraw returned error: %v", err)
	}
	out := BuildDrawOutput(draws)
	for _, want := range []string{
		"Open Section\n",
		"U1500 Section\n",
		"Open Player1(10000001)",
		"Reserve Four(1100) - round 1 bye requested",
		"Reserve Three(1200) - field does not fill a match",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%v", want, out)
		}
	}

	if out := BuildDrawOutput(nil); !strings.Contains(out, "No registrations") {
		t.Errorf("unexpected empty output %q", out)
	}
}
