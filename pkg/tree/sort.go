package tree

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sorter orders siblings: directories before files, then by a locale-aware,
// case-insensitive comparison of names. Names the collator treats as equal
// fall back to a byte comparison so the order is total.
//
// A Sorter is not safe for concurrent use.
type Sorter struct {
	collator *collate.Collator
}

// NewSorter returns a Sorter for the given BCP 47 locale. An empty or
// unparsable locale uses the root collation.
func NewSorter(locale string) *Sorter {
	tag := language.Und
	if locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			tag = parsed
		}
	}
	return &Sorter{collator: collate.New(tag, collate.IgnoreCase)}
}

// Less reports whether a sorts before b.
func (s *Sorter) Less(a, b *Node) bool {
	if a.IsDir() != b.IsDir() {
		return a.IsDir()
	}
	if c := s.collator.CompareString(a.Name, b.Name); c != 0 {
		return c < 0
	}
	return strings.Compare(a.Name, b.Name) < 0
}

// Sort orders nodes in place.
func (s *Sorter) Sort(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return s.Less(nodes[i], nodes[j])
	})
}
