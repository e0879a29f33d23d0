/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bracket

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"sort"
	"testing"
)

// fixedRand returns a canned sequence of values, each reduced mod n
type fixedRand struct {
	vals []int
	next int
}

func (r *fixedRand) Intn(n int) int {
	v := r.vals[r.next%len(r.vals)]
	r.next++
	return v % n
}

// lastRand always picks the highest index, leaving the order untouched
type lastRand struct{}

func (lastRand) Intn(n int) int { return n - 1 }

func newTestBracket(t *testing.T, ppm, rounds int, rng RandSource) *Bracket {
	t.Helper()
	cfg, err := NewConfig("test", ppm, rounds)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	return New(cfg, rng)
}

func fillBracket(t *testing.T, b *Bracket) []string {
	t.Helper()
	var ids []string
	for i := 1; i <= b.Config().PlayersPerBracket(); i++ {
		id := fmt.Sprintf("p%d", i)
		if _, err := b.AddPlayer(id); err != nil {
			t.Fatalf("AddPlayer(%v) returned error: %v", id, err)
		}
		ids = append(ids, id)
	}
	return ids
}

func TestAddPlayer(t *testing.T) {
	b := newTestBracket(t, 2, 3, nil)

	for i := 1; i <= 8; i++ {
		n, err := b.AddPlayer(fmt.Sprintf("p%d", i))
		if err != nil {
			t.Fatalf("AddPlayer #%d returned error: %v", i, err)
		}
		if n != i {
			t.Errorf("AddPlayer #%d = %d; want %d", i, n, i)
		}
	}
	if !b.IsFull() || b.EmptySpots() != 0 {
		t.Errorf("expected full bracket, EmptySpots() = %d", b.EmptySpots())
	}

	if _, err := b.AddPlayer("p9"); !errors.Is(err, ErrBracketIsFull) {
		t.Errorf("AddPlayer on full bracket err = %v; want ErrBracketIsFull", err)
	}
	if b.Len() != 8 {
		t.Errorf("Len() = %d after rejected add; want 8", b.Len())
	}
}

func TestAddPlayerRejects(t *testing.T) {
	b := newTestBracket(t, 2, 3, nil)

	if _, err := b.AddPlayer(""); !errors.Is(err, ErrInvalidPlayerID) {
		t.Errorf("AddPlayer(\"\") err = %v; want ErrInvalidPlayerID", err)
	}
	if _, err := b.AddPlayer("p1"); err != nil {
		t.Fatalf("AddPlayer returned error: %v", err)
	}
	before := b.Len()
	if _, err := b.AddPlayer("p1"); !errors.Is(err, ErrAlreadyInBracket) {
		t.Errorf("duplicate AddPlayer err = %v; want ErrAlreadyInBracket", err)
	}
	if b.Len() != before {
		t.Errorf("Len() = %d after duplicate; want %d", b.Len(), before)
	}
}

func TestAddMatch(t *testing.T) {
	cases := []struct {
		name      string
		existing  []string
		ids       []string
		wantErr   error
		wantSlots []string
	}{
		{
			name:      "valid pair",
			ids:       []string{"a", "b"},
			wantSlots: []string{"a", "b"},
		},
		{
			name:      "appends after existing",
			existing:  []string{"a", "b"},
			ids:       []string{"c", "d"},
			wantSlots: []string{"a", "b", "c", "d"},
		},
		{
			name:      "too many ids",
			ids:       []string{"a", "b", "c"},
			wantErr:   ErrInvalidMatch,
			wantSlots: []string{},
		},
		{
			name:      "too few ids",
			ids:       []string{"a"},
			wantErr:   ErrInvalidMatch,
			wantSlots: []string{},
		},
		{
			name:      "empty payload",
			ids:       []string{},
			wantErr:   ErrInvalidPlayerID,
			wantSlots: []string{},
		},
		{
			name:      "nil payload",
			ids:       nil,
			wantErr:   ErrInvalidPlayerID,
			wantSlots: []string{},
		},
		{
			name:      "empty id in payload",
			ids:       []string{"a", ""},
			wantErr:   ErrInvalidPlayerID,
			wantSlots: []string{},
		},
		{
			name:      "second id already present",
			existing:  []string{"x", "b"},
			ids:       []string{"a", "b"},
			wantErr:   ErrAlreadyInBracket,
			wantSlots: []string{"x", "b"},
		},
		{
			name:      "first id already present",
			existing:  []string{"a", "y"},
			ids:       []string{"a", "b"},
			wantErr:   ErrAlreadyInBracket,
			wantSlots: []string{"a", "y"},
		},
		{
			name:      "duplicate within payload",
			ids:       []string{"a", "a"},
			wantErr:   ErrAlreadyInBracket,
			wantSlots: []string{},
		},
		{
			name:      "not enough room",
			existing:  []string{"a", "b", "c"},
			ids:       []string{"d", "e"},
			wantErr:   ErrBracketIsFull,
			wantSlots: []string{"a", "b", "c"},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := newTestBracket(t, 2, 2, nil)
			for _, id := range c.existing {
				if _, err := b.AddPlayer(id); err != nil {
					t.Fatalf("AddPlayer(%v) returned error: %v", id, err)
				}
			}
			n, err := b.AddMatch(c.ids)
			if c.wantErr != nil {
				if !errors.Is(err, c.wantErr) {
					t.Errorf("AddMatch(%v) err = %v; want %v", c.ids, err, c.wantErr)
				}
			} else {
				if err != nil {
					t.Fatalf("AddMatch(%v) returned error: %v", c.ids, err)
				}
				if n != len(c.wantSlots) {
					t.Errorf("AddMatch(%v) = %d; want %d", c.ids, n, len(c.wantSlots))
				}
			}
			if got := b.Slots(); !reflect.DeepEqual(got, c.wantSlots) {
				t.Errorf("Slots() = %v; want %v", got, c.wantSlots)
			}
		})
	}
}

func TestGetMatch(t *testing.T) {
	b := newTestBracket(t, 2, 3, nil)
	ids := fillBracket(t, b)

	cases := []struct {
		index int
		want  []string
	}{
		{index: 0, want: ids[0:2]},
		{index: 1, want: ids[0:2]},
		{index: 2, want: ids[2:4]},
		{index: 3, want: ids[2:4]},
		{index: 6, want: ids[6:8]},
		{index: 7, want: ids[6:8]},
		{index: 8, want: []string{}},
		{index: 10, want: []string{}},
		{index: -1, want: []string{}},
	}
	for _, c := range cases {
		if got := b.GetMatch(c.index); !reflect.DeepEqual(got, c.want) {
			t.Errorf("GetMatch(%d) = %v; want %v", c.index, got, c.want)
		}
	}

	// the returned group must not alias the slots
	got := b.GetMatch(0)
	got[0] = "changed"
	if b.Slots()[0] != "p1" {
		t.Errorf("GetMatch result aliases bracket slots")
	}
}

func TestGetMatchPartialGroup(t *testing.T) {
	b := newTestBracket(t, 2, 3, nil)
	for _, id := range []string{"a", "b", "c"} {
		if _, err := b.AddPlayer(id); err != nil {
			t.Fatalf("AddPlayer(%v) returned error: %v", id, err)
		}
	}

	if got := b.GetMatch(1); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("GetMatch(1) = %v; want [a b]", got)
	}
	if got := b.GetMatch(2); len(got) != 0 {
		t.Errorf("GetMatch(2) on partial group = %v; want empty", got)
	}
	if got := b.Opponents("c"); len(got) != 0 {
		t.Errorf("Opponents(c) on partial group = %v; want empty", got)
	}
	if got := b.Opponents("b"); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Opponents(b) = %v; want [a]", got)
	}
	if got := b.Opponents("zz"); len(got) != 0 {
		t.Errorf("Opponents(zz) = %v; want empty", got)
	}
	if got := b.Matches(); len(got) != 1 {
		t.Errorf("Matches() = %v; want one group", got)
	}
}

func TestPlayerIndexAndRemove(t *testing.T) {
	b := newTestBracket(t, 2, 3, nil)
	fillBracket(t, b)

	if idx := b.PlayerIndex("p3"); idx != 2 {
		t.Errorf("PlayerIndex(p3) = %d; want 2", idx)
	}
	if idx := b.PlayerIndex(""); idx != InvalidIndex {
		t.Errorf("PlayerIndex(\"\") = %d; want InvalidIndex", idx)
	}
	if idx := b.PlayerIndex("nobody"); idx != InvalidIndex {
		t.Errorf("PlayerIndex(nobody) = %d; want InvalidIndex", idx)
	}

	b.RemovePlayers("p1")
	if b.Len() != 7 {
		t.Errorf("Len() = %d after removing p1; want 7", b.Len())
	}
	if idx := b.PlayerIndex("p1"); idx != InvalidIndex {
		t.Errorf("PlayerIndex(p1) = %d after removal; want InvalidIndex", idx)
	}
	if b.EmptySpots() != 1 {
		t.Errorf("EmptySpots() = %d; want 1", b.EmptySpots())
	}

	before := b.Slots()
	b.RemovePlayers("absent", "also-absent")
	b.RemovePlayers()
	if got := b.Slots(); !reflect.DeepEqual(got, before) {
		t.Errorf("removing absent ids changed slots: %v -> %v", before, got)
	}

	b.RemovePlayers("p8", "p4", "absent")
	want := []string{"p2", "p3", "p5", "p6", "p7"}
	if got := b.Slots(); !reflect.DeepEqual(got, want) {
		t.Errorf("Slots() = %v; want %v", got, want)
	}

	// removed players may register again
	if n, err := b.AddPlayer("p1"); err != nil || n != 6 {
		t.Errorf("re-adding p1 = (%d, %v); want (6, nil)", n, err)
	}
}

func TestClearPlayersRoundTrip(t *testing.T) {
	b := newTestBracket(t, 2, 3, rand.New(rand.NewSource(7)))
	fillBracket(t, b)
	b.Shuffle()
	orig := b.Slots()

	b.ClearPlayers()
	if b.Len() != 0 || b.EmptySpots() != 8 {
		t.Fatalf("ClearPlayers left %d players", b.Len())
	}
	for _, id := range orig {
		if _, err := b.AddPlayer(id); err != nil {
			t.Fatalf("AddPlayer(%v) returned error: %v", id, err)
		}
	}
	if got := b.Slots(); !reflect.DeepEqual(got, orig) {
		t.Errorf("round trip Slots() = %v; want %v", got, orig)
	}
}

func TestShuffleDeterministic(t *testing.T) {
	b := newTestBracket(t, 2, 3, &fixedRand{vals: []int{0}})
	fillBracket(t, b)

	b.Shuffle()
	// blocks [0 1 2 3] -> swap(3,0) -> swap(2,0) -> swap(1,0) -> [1 2 3 0]
	want := []string{"p3", "p4", "p5", "p6", "p7", "p8", "p1", "p2"}
	if got := b.Slots(); !reflect.DeepEqual(got, want) {
		t.Errorf("Shuffle() = %v; want %v", got, want)
	}

	b2 := newTestBracket(t, 2, 3, lastRand{})
	ids := fillBracket(t, b2)
	b2.Shuffle()
	if got := b2.Slots(); !reflect.DeepEqual(got, ids) {
		t.Errorf("identity Shuffle() = %v; want %v", got, ids)
	}
}

func TestShufflePreservesPairings(t *testing.T) {
	for _, ppm := range []int{1, 2, 3, 4} {
		t.Run(fmt.Sprintf("ppm%d", ppm), func(t *testing.T) {
			b := newTestBracket(t, ppm, 4, rand.New(rand.NewSource(int64(ppm))))
			ids := fillBracket(t, b)

			before := make(map[string][]string)
			for _, id := range ids {
				before[id] = b.Opponents(id)
			}

			for iter := 0; iter < 20; iter++ {
				b.Shuffle()
				got := b.Slots()
				if len(got) != len(ids) {
					t.Fatalf("Shuffle changed length: %d -> %d", len(ids), len(got))
				}
				sorted := append([]string(nil), got...)
				sort.Strings(sorted)
				want := append([]string(nil), ids...)
				sort.Strings(want)
				if !reflect.DeepEqual(sorted, want) {
					t.Fatalf("Shuffle changed the set of players: %v", got)
				}
				for _, id := range ids {
					if opps := b.Opponents(id); !reflect.DeepEqual(opps, before[id]) {
						t.Fatalf("Shuffle split pairing for %v: %v -> %v", id,
							before[id], opps)
					}
				}
			}
		})
	}
}

func TestShuffleNotFull(t *testing.T) {
	b := newTestBracket(t, 2, 3, &fixedRand{vals: []int{0}})
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		if _, err := b.AddPlayer(id); err != nil {
			t.Fatalf("AddPlayer(%v) returned error: %v", id, err)
		}
	}
	before := b.Slots()
	b.Shuffle()
	if got := b.Slots(); !reflect.DeepEqual(got, before) {
		t.Errorf("Shuffle on non-full bracket changed slots: %v -> %v", before, got)
	}

	empty := newTestBracket(t, 2, 3, nil)
	empty.Shuffle()
	if got := empty.Slots(); len(got) != 0 {
		t.Errorf("Shuffle on empty bracket = %v", got)
	}
}
