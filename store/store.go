/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package store persists bracket draws as ordered
// (bracket id, position, competitor id) rows and rebuilds brackets by
// replaying those rows through AddPlayer.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mikeb26/boylstonchessclub-bracketbot/bracket"
	"github.com/mikeb26/boylstonchessclub-bracketbot/internal"
)

var ErrNotFound = errors.New("bracket not found")

// Row is one occupied slot.
type Row struct {
	BracketID    string `json:"bracketId"`
	Position     int    `json:"position"`
	CompetitorID string `json:"competitorId"`
}

// Record is everything needed to rebuild one bracket.
type Record struct {
	ID              string    `json:"id"`
	PlayersPerMatch int       `json:"playersPerMatch"`
	Rounds          int       `json:"rounds"`
	Updated         time.Time `json:"updated"`
	Rows            []Row     `json:"rows"`
}

// Store saves and loads bracket records by bracket id.
type Store interface {
	Save(ctx context.Context, rec *Record) error
	Load(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) error
	// List returns the stored ids beginning with prefix, sorted
	List(ctx context.Context, prefix string) ([]string, error)
}

// ToRecord captures b's configuration and current slots.
func ToRecord(b *bracket.Bracket, updated time.Time) *Record {
	cfg := b.Config()
	rec := &Record{
		ID:              cfg.ID(),
		PlayersPerMatch: cfg.PlayersPerMatch(),
		Rounds:          cfg.Rounds(),
		Updated:         updated.UTC(),
	}
	for pos, id := range b.Slots() {
		rec.Rows = append(rec.Rows, Row{
			BracketID:    cfg.ID(),
			Position:     pos,
			CompetitorID: id,
		})
	}

	return rec
}

// FromRecord rebuilds a bracket by adding each row's competitor in position
// order.
func FromRecord(rec *Record, rng bracket.RandSource) (*bracket.Bracket, error) {
	cfg, err := bracket.NewConfig(rec.ID, rec.PlayersPerMatch, rec.Rounds)
	if err != nil {
		return nil, fmt.Errorf("unable to restore bracket %v: %w", rec.ID, err)
	}

	rows := append([]Row(nil), rec.Rows...)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Position < rows[j].Position
	})

	b := bracket.New(cfg, rng)
	for _, r := range rows {
		if r.BracketID != rec.ID {
			return nil, fmt.Errorf("unable to restore bracket %v: row for %v at position %v",
				rec.ID, r.BracketID, r.Position)
		}
		if _, err := b.AddPlayer(r.CompetitorID); err != nil {
			return nil, fmt.Errorf("unable to restore bracket %v at position %v: %w",
				rec.ID, r.Position, err)
		}
	}

	return b, nil
}

// Custom unmarshaller to tolerate non-RFC3339, "null" and empty timestamps.
func (r *Record) UnmarshalJSON(data []byte) error {
	type Alias Record
	aux := &struct {
		Updated string `json:"updated"`
		*Alias
	}{
		Alias: (*Alias)(r),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("Record unmarshal: %w", err)
	}
	var err error
	r.Updated, err = internal.ParseDateOrZero(aux.Updated)
	if err != nil {
		return fmt.Errorf("parsing Record.Updated: %w", err)
	}
	return nil
}

// SaveAll saves every bracket concurrently and returns the first error.
func SaveAll(ctx context.Context, s Store, brackets []*bracket.Bracket) error {
	now := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for _, b := range brackets {
		rec := ToRecord(b, now)
		g.Go(func() error {
			if err := s.Save(gctx, rec); err != nil {
				return fmt.Errorf("unable to save bracket %v: %w", rec.ID, err)
			}
			return nil
		})
	}

	return g.Wait()
}

// LoadAll loads and rebuilds the listed brackets concurrently, preserving
// the order of ids. Every returned bracket shares rng.
func LoadAll(ctx context.Context, s Store, ids []string,
	rng bracket.RandSource) ([]*bracket.Bracket, error) {

	brackets := make([]*bracket.Bracket, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			rec, err := s.Load(gctx, id)
			if err != nil {
				return fmt.Errorf("unable to load bracket %v: %w", id, err)
			}
			b, err := FromRecord(rec, rng)
			if err != nil {
				return err
			}
			brackets[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return brackets, nil
}
