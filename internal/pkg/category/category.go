// Package category normalizes the free-text category lists attached to collection points.
package category

import "strings"

// Separator delimits categories in a free-text list.
const Separator = ","

// Set is an ordered set of normalized category labels.
//
// A Set is immutable once built, so it can be shared between goroutines
// and between copies of a collection point.
type Set struct {
	labels []string
}

// Label normalizes a single category label: surrounding whitespace is trimmed
// and the result is lowercased.
func Label(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// New builds a Set from raw labels. Blank labels are dropped, duplicates
// collapse onto their first occurrence.
func New(raw ...string) Set {
	var labels []string
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		l := Label(r)
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		labels = append(labels, l)
	}
	return Set{labels: labels}
}

// Parse builds a Set from a comma-separated list such as "paper, Glass,,metal".
func Parse(list string) Set {
	if strings.TrimSpace(list) == "" {
		return Set{}
	}
	return New(strings.Split(list, Separator)...)
}

// Normalize returns the canonical form of a comma-separated list.
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(list string) string {
	return Parse(list).String()
}

// Contains reports whether the set holds the label, compared case-insensitively.
func (s Set) Contains(label string) bool {
	l := Label(label)
	if l == "" {
		return false
	}
	for _, have := range s.labels {
		if have == l {
			return true
		}
	}
	return false
}

// Labels returns the labels in insertion order.
func (s Set) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Len returns the number of labels.
func (s Set) Len() int {
	return len(s.labels)
}

// Equal reports whether both sets hold the same labels, ignoring order.
func (s Set) Equal(other Set) bool {
	if len(s.labels) != len(other.labels) {
		return false
	}
	for _, l := range s.labels {
		if !other.Contains(l) {
			return false
		}
	}
	return true
}

// String joins the labels with the separator, in insertion order.
func (s Set) String() string {
	return strings.Join(s.labels, Separator)
}
