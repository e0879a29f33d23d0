/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bracket

import (
	"fmt"
)

// maxRounds bounds capacity so playersPerMatch << (rounds-1) cannot overflow
const maxRounds = 30

// Config holds the sizing parameters shared by every Bracket drawn for one
// section. It is never modified after NewConfig returns.
type Config struct {
	id                string
	playersPerMatch   int
	rounds            int
	playersPerBracket int
}

// NewConfig returns a Config whose capacity is
// playersPerMatch * 2^(rounds-1).
func NewConfig(id string, playersPerMatch int, rounds int) (*Config, error) {
	if playersPerMatch <= 0 {
		return nil, fmt.Errorf("%w: playersPerMatch %v must be positive",
			ErrInvalidConfig, playersPerMatch)
	}
	if rounds <= 0 || rounds > maxRounds {
		return nil, fmt.Errorf("%w: rounds %v must be in [1,%v]",
			ErrInvalidConfig, rounds, maxRounds)
	}
	capacity := playersPerMatch << uint(rounds-1)
	if capacity/playersPerMatch != 1<<uint(rounds-1) {
		return nil, fmt.Errorf("%w: %v players per match over %v rounds overflows",
			ErrInvalidConfig, playersPerMatch, rounds)
	}

	return &Config{
		id:                id,
		playersPerMatch:   playersPerMatch,
		rounds:            rounds,
		playersPerBracket: capacity,
	}, nil
}

func (c *Config) ID() string { return c.id }

func (c *Config) PlayersPerMatch() int { return c.playersPerMatch }

func (c *Config) Rounds() int { return c.rounds }

// PlayersPerBracket is the number of slots in the first round; always a
// multiple of PlayersPerMatch.
func (c *Config) PlayersPerBracket() int { return c.playersPerBracket }

// MatchCount is the number of first round match groups.
func (c *Config) MatchCount() int {
	return c.playersPerBracket / c.playersPerMatch
}

func (c *Config) String() string {
	return fmt.Sprintf("%v(%vx%v rounds, %v players)", c.id,
		c.playersPerMatch, c.rounds, c.playersPerBracket)
}
