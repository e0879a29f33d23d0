/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bracket

import (
	"sort"
)

// Seed is one entrant as far as seeding is concerned.
type Seed struct {
	ID     string
	Rating int
}

// SeedByRating fills b with complete match groups built from seeds and
// returns the seeds that could not be placed.
//
// The field is sorted by rating and split into PlayersPerMatch tiers; match
// k takes the k-th player of every tier, so with two players per match the
// top seed meets the (n/2)-th seed, the 2nd seed the (n/2+1)-th, and so on.
// The listed order inside each match alternates between matches the same
// way round 1 colors alternate. Ties keep registration order. Players left
// over because the field does not divide evenly or the bracket fills up are
// the lowest rated ones.
func SeedByRating(b *Bracket, seeds []Seed) []Seed {
	var unplaced []Seed
	field := make([]Seed, 0, len(seeds))
	seen := make(map[string]struct{}, len(seeds))
	for _, s := range seeds {
		_, dup := seen[s.ID]
		if s.ID == "" || dup || b.PlayerIndex(s.ID) != InvalidIndex {
			unplaced = append(unplaced, s)
			continue
		}
		seen[s.ID] = struct{}{}
		field = append(field, s)
	}

	sort.SliceStable(field, func(i, j int) bool {
		return field[i].Rating > field[j].Rating
	})

	ppm := b.Config().PlayersPerMatch()
	n := len(field)
	if spots := b.EmptySpots(); n > spots {
		n = spots
	}
	n -= n % ppm
	unplaced = append(unplaced, field[n:]...)
	field = field[:n]

	tierSize := n / ppm
	reverse := false
	for k := 0; k < tierSize; k++ {
		group := make([]string, ppm)
		for t := 0; t < ppm; t++ {
			group[t] = field[t*tierSize+k].ID
		}
		if reverse {
			for i, j := 0, len(group)-1; i < j; i, j = i+1, j-1 {
				group[i], group[j] = group[j], group[i]
			}
		}
		reverse = !reverse

		if _, err := b.AddMatch(group); err != nil {
			for t := 0; t < ppm; t++ {
				unplaced = append(unplaced, field[t*tierSize+k])
			}
		}
	}

	return unplaced
}
