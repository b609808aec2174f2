package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kritsadaw/asklaw/internal/domain"
)

// BuildGrounding merges retrieved passages into a single grounding block and
// derives the deduplicated, sorted citation list.
//
// The block keeps the store's similarity order, one passage per line tagged
// with its section number, blank-line separated for the generation prompt.
// Multiple passages can share a section number; the citation list collapses
// them to one label each.
func BuildGrounding(matches []domain.SectionMatch) (string, []string) {
	var block strings.Builder
	seen := make(map[string]struct{}, len(matches))

	for _, m := range matches {
		fmt.Fprintf(&block, "- Section %s: %s\n\n", m.SectionNumber, m.Text)
		seen[fmt.Sprintf("Section %s", m.SectionNumber)] = struct{}{}
	}

	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}

	return block.String(), sortCitations(labels)
}

// sortCitations orders labels ascending by the integer parsed from the
// trailing token. Labels without a parseable number sort last, among
// themselves in lexicographic order, which also serves as the overall
// fallback when nothing is numeric.
func sortCitations(labels []string) []string {
	sorted := make([]string, len(labels))
	copy(sorted, labels)

	// Lexicographic base order makes the stable numeric pass deterministic
	// regardless of map iteration order.
	sort.Strings(sorted)
	sort.SliceStable(sorted, func(i, j int) bool {
		ni, iok := trailingNumber(sorted[i])
		nj, jok := trailingNumber(sorted[j])
		switch {
		case iok && jok:
			return ni < nj
		case iok:
			return true
		default:
			return false
		}
	})

	return sorted
}

func trailingNumber(label string) (int, bool) {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return 0, false
	}
	return n, true
}
