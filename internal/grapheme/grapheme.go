// Package grapheme provides a fixed-length, grapheme-indexed edit buffer.
//
// This file provides grapheme cluster helpers for Unicode-aware text operations.
//
// Triple-Unit Model:
//
// Three units of text measurement are kept apart:
//
//  1. Bytes: the storage unit of Go strings. A single grapheme can be 1-25+ bytes.
//
//  2. Graphemes: the unit users perceive as a "character". A cluster may hold
//     several code points ("e" + combining acute = 1 grapheme). Buffer indices
//     and cursor positions are grapheme indices.
//
//  3. Display Columns: terminal cells a grapheme occupies. ASCII = 1 column,
//     emoji and CJK = 2 columns, combining-only clusters = 0 columns.
package grapheme

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Count returns the number of grapheme clusters in s.
// For example: "hello" = 5, "h😀llo" = 5, "👨‍👩‍👧‍👦" = 1.
func Count(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// Split returns the grapheme clusters of s in order.
func Split(s string) []string {
	if s == "" {
		return nil
	}
	out := make([]string, 0, len(s))
	state := -1
	for len(s) > 0 {
		cluster, rest, _, newState := uniseg.StepString(s, state)
		out = append(out, cluster)
		s = rest
		state = newState
	}
	return out
}

// IsSingle reports whether s is exactly one grapheme cluster.
func IsSingle(s string) bool {
	return s != "" && uniseg.GraphemeClusterCount(s) == 1
}

// Joins reports whether b would merge into a when written directly after it,
// i.e. the pair segments as a single cluster.
func Joins(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return uniseg.GraphemeClusterCount(a+b) < 2
}

// Width returns the display width of a single grapheme cluster in terminal
// cells. ASCII = 1, emoji = 2, CJK = 2.
func Width(cluster string) int {
	if cluster == "" {
		return 0
	}
	return runewidth.StringWidth(cluster)
}

// StringWidth returns the total display width of s in terminal cells.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// FirstRune returns the base rune of a cluster, or 0 for an empty cluster.
func FirstRune(cluster string) rune {
	for _, r := range cluster {
		return r
	}
	return 0
}

// IsLetter reports whether the cluster's base rune is a letter.
func IsLetter(cluster string) bool {
	return unicode.IsLetter(FirstRune(cluster))
}

// IsAlnum reports whether the cluster's base rune is a letter or a number.
func IsAlnum(cluster string) bool {
	r := FirstRune(cluster)
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// Join concatenates grapheme clusters into a single string.
func Join(clusters []string) string {
	var sb strings.Builder
	for _, c := range clusters {
		sb.WriteString(c)
	}
	return sb.String()
}
