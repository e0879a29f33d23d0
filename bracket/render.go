/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bracket

import (
	"fmt"
	"strings"
)

const openSlot = "(open)"

// BuildBracketOutput formats the bracket as an aligned table with one row
// per match group. names maps player ids to display names; ids without an
// entry are printed as is.
func BuildBracketOutput(b *Bracket, names map[string]string) string {
	ppm := b.Config().PlayersPerMatch()
	slots := b.Slots()

	headers := make([]string, ppm+1)
	headers[0] = "Match"
	for i := 1; i <= ppm; i++ {
		headers[i] = fmt.Sprintf("Player %d", i)
	}

	var rows [][]string
	for m := 0; m < b.Config().MatchCount(); m++ {
		row := make([]string, ppm+1)
		row[0] = fmt.Sprintf("%d.", m+1)
		for i := 0; i < ppm; i++ {
			idx := m*ppm + i
			if idx >= len(slots) {
				row[i+1] = openSlot
				continue
			}
			row[i+1] = displayName(slots[idx], names)
		}
		rows = append(rows, row)
	}

	// Compute column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, r := range rows {
		for i, cell := range r {
			if l := len(cell); l > widths[i] {
				widths[i] = l
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%v: %v of %v players, %v open\n",
		b.Config().ID(), b.Len(), b.Config().PlayersPerBracket(),
		b.EmptySpots()))
	writeRow(&sb, headers, widths)
	for _, r := range rows {
		writeRow(&sb, r, widths)
	}

	return sb.String()
}

func writeRow(sb *strings.Builder, cells []string, widths []int) {
	for i, cell := range cells {
		if i > 0 {
			sb.WriteString("  ")
		}
		if i == len(cells)-1 {
			sb.WriteString(cell)
			continue
		}
		sb.WriteString(fmt.Sprintf("%-*s", widths[i], cell))
	}
	sb.WriteString("\n")
}

func displayName(id string, names map[string]string) string {
	if n, ok := names[id]; ok && n != "" && n != id {
		return fmt.Sprintf("%s(%s)", n, id)
	}
	return id
}
