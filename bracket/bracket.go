/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bracket

import (
	"math/rand"
	"time"
)

// RandSource supplies the randomness used by Shuffle. *math/rand.Rand
// satisfies it.
type RandSource interface {
	// Intn returns a uniform value in [0,n)
	Intn(n int) int
}

// Bracket is the ordered first round slot sequence of one single elimination
// bracket. Slot i belongs to the match group starting at
// i - (i % PlayersPerMatch).
//
// A Bracket does no locking of its own; callers sharing one across
// goroutines must serialize access.
type Bracket struct {
	cfg   *Config
	slots []string
	rng   RandSource
}

// New returns an empty bracket governed by cfg. If rng is nil a time seeded
// generator private to this bracket is used.
func New(cfg *Config, rng RandSource) *Bracket {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Bracket{
		cfg:   cfg,
		slots: []string{},
		rng:   rng,
	}
}

func (b *Bracket) Config() *Config { return b.cfg }

func (b *Bracket) Len() int { return len(b.slots) }

func (b *Bracket) IsFull() bool {
	return len(b.slots) == b.cfg.PlayersPerBracket()
}

// Slots returns a copy of the current slot sequence.
func (b *Bracket) Slots() []string {
	out := make([]string, len(b.slots))
	copy(out, b.slots)

	return out
}

// AddPlayer appends id to the next open slot and returns the new slot count.
func (b *Bracket) AddPlayer(id string) (int, error) {
	if id == "" {
		return 0, ErrInvalidPlayerID
	}
	if b.PlayerIndex(id) != InvalidIndex {
		return 0, ErrAlreadyInBracket
	}
	if b.IsFull() {
		return 0, ErrBracketIsFull
	}
	b.slots = append(b.slots, id)

	return len(b.slots), nil
}

// AddMatch appends one complete match group. Every id is validated before
// any of them is appended.
func (b *Bracket) AddMatch(ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, ErrInvalidPlayerID
	}
	if len(ids) != b.cfg.PlayersPerMatch() {
		return 0, ErrInvalidMatch
	}
	if b.EmptySpots() < len(ids) {
		return 0, ErrBracketIsFull
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			return 0, ErrInvalidPlayerID
		}
		if _, dup := seen[id]; dup {
			return 0, ErrAlreadyInBracket
		}
		seen[id] = struct{}{}
		if b.PlayerIndex(id) != InvalidIndex {
			return 0, ErrAlreadyInBracket
		}
	}
	b.slots = append(b.slots, ids...)

	return len(b.slots), nil
}

// RemovePlayers drops every listed id that has a slot; the remaining
// players keep their relative order.
func (b *Bracket) RemovePlayers(ids ...string) {
	if len(ids) == 0 || len(b.slots) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	kept := b.slots[:0]
	for _, id := range b.slots {
		if _, ok := drop[id]; ok {
			continue
		}
		kept = append(kept, id)
	}
	// clear the tail so dropped ids are not retained by the backing array
	for i := len(kept); i < len(b.slots); i++ {
		b.slots[i] = ""
	}
	b.slots = kept
}

func (b *Bracket) ClearPlayers() {
	b.slots = b.slots[:0]
}

func (b *Bracket) EmptySpots() int {
	return b.cfg.PlayersPerBracket() - len(b.slots)
}

// PlayerIndex returns the zero based slot of id or InvalidIndex.
func (b *Bracket) PlayerIndex(id string) int {
	if id == "" {
		return InvalidIndex
	}
	for i, s := range b.slots {
		if s == id {
			return i
		}
	}

	return InvalidIndex
}

// GetMatch returns the match group containing slot index. Passing a
// player's own index yields that player and their opponents. The result is
// empty when index is negative or the group is not fully populated.
func (b *Bracket) GetMatch(index int) []string {
	if index < 0 {
		return []string{}
	}
	ppm := b.cfg.PlayersPerMatch()
	start := index - (index % ppm)
	end := start + ppm
	if end > len(b.slots) {
		return []string{}
	}

	group := make([]string, ppm)
	copy(group, b.slots[start:end])

	return group
}

// Opponents returns the other members of id's match group.
func (b *Bracket) Opponents(id string) []string {
	group := b.GetMatch(b.PlayerIndex(id))
	opps := make([]string, 0, len(group))
	for _, other := range group {
		if other != id {
			opps = append(opps, other)
		}
	}

	return opps
}

// Matches returns every fully populated match group in slot order.
func (b *Bracket) Matches() [][]string {
	ppm := b.cfg.PlayersPerMatch()
	matches := make([][]string, 0, len(b.slots)/ppm)
	for start := 0; start+ppm <= len(b.slots); start += ppm {
		matches = append(matches, b.GetMatch(start))
	}

	return matches
}

// Shuffle randomizes where each match group sits in the bracket while
// keeping every pairing intact. Whole groups are permuted with a
// Fisher-Yates pass over group indices. Brackets that are not full are left
// untouched.
func (b *Bracket) Shuffle() {
	if !b.IsFull() {
		return
	}
	ppm := b.cfg.PlayersPerMatch()
	order := make([]int, b.cfg.MatchCount())
	for i := range order {
		order[i] = i
	}
	for i := len(order) - 1; i > 0; i-- {
		j := b.rng.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}

	shuffled := make([]string, 0, len(b.slots))
	for _, blk := range order {
		shuffled = append(shuffled, b.slots[blk*ppm:(blk+1)*ppm]...)
	}
	b.slots = shuffled
}
