/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bcc

import (
	"sort"
	"strconv"
	"strings"
)

const unnamedSection = "UNNAMED"

// SectionSorter implements sort.Interface for custom section ordering
// Order: "Open" first, then U<Number> sections descending by number, then
// others lexicographically
type SectionSorter []string

func (s SectionSorter) Len() int { return len(s) }

func (s SectionSorter) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

func (s SectionSorter) Less(i, j int) bool {
	a, b := s[i], s[j]
	// "Open" or "Championship" always first
	if a == "Open" && b != "Open" {
		return true
	}
	if b == "Open" && a != "Open" {
		return false
	}
	if a == "Championship" && b != "Championship" {
		return true
	}
	if b == "Championship" && a != "Championship" {
		return false
	}
	ua, ub := isUnderSection(a), isUnderSection(b)
	// Both U-sections: compare numeric suffix descending
	if ua && ub {
		ai, _ := strconv.Atoi(strings.TrimPrefix(a, "U"))
		bi, _ := strconv.Atoi(strings.TrimPrefix(b, "U"))
		return ai > bi
	}
	// U-sections before non-U (after Championship)
	if ua != ub {
		return ua
	}
	// Fallback lexicographical
	return a < b
}

func isUnderSection(s string) bool {
	if !strings.HasPrefix(s, "U") {
		return false
	}
	_, err := strconv.Atoi(strings.TrimPrefix(s, "U"))
	return err == nil
}

// GroupBySection buckets entrants by section and returns the section names
// in display order. Registration order is kept within each section.
func GroupBySection(entrants []Entrant) (map[string][]Entrant, []string) {
	sections := make(map[string][]Entrant)
	for _, e := range entrants {
		sections[e.Section] = append(sections[e.Section], e)
	}

	var names []string
	for sec := range sections {
		names = append(names, sec)
	}
	sort.Sort(SectionSorter(names))

	return sections, names
}

func sectionLabel(sec string) string {
	if sec == "" {
		return unnamedSection
	}
	return sec
}
