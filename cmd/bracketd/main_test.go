/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/mikeb26/boylstonchessclub-bracketbot/bracket"
)

func TestSplitIDs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"12846607", []string{"12846607"}},
		{" a, b ,,c ", []string{"a", "b", "c"}},
		{",", nil},
	}
	for _, tc := range tests {
		if got := splitIDs(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitIDs(%q) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	cfg, err := bracket.NewConfig("1312/Open", 2, 1)
	if err != nil {
		t.Fatalf("NewConfig failed: %v", err)
	}
	b := bracket.New(cfg, nil)
	if _, err := b.AddPlayer("p1"); err != nil {
		t.Fatalf("AddPlayer failed: %v", err)
	}

	tests := []struct {
		err  error
		want string
	}{
		{bracket.ErrInvalidMatch, "a match needs exactly 2 players"},
		{bracket.ErrBracketIsFull, "only 1 open spot(s)"},
		{fmt.Errorf("wrapped: %w", bracket.ErrAlreadyInBracket),
			"already in the bracket"},
		{bracket.ErrInvalidPlayerID, bracket.ErrInvalidPlayerID.Error()},
	}
	for _, tc := range tests {
		if got := describe(tc.err, b); got != tc.want {
			t.Errorf("describe(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestNewRandSeeded(t *testing.T) {
	a, b := newRand(42), newRand(42)
	for i := 0; i < 10; i++ {
		if x, y := a.Intn(1000), b.Intn(1000); x != y {
			t.Fatalf("same seed diverged at %d: %d != %d", i, x, y)
		}
	}
}
