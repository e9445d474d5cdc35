// Package multival is the single implementation of the multi-valued text
// field convention: several values packed into one cell.
//
// The canonical encoding is a newline-joined list. Decoding accepts comma,
// pipe, and newline interchangeably because the converters and the
// spreadsheet UI have historically written different separators. Every
// converter must go through this package so the delimiter behavior cannot
// drift between them.
package multival

import (
	"regexp"
	"strings"
)

// splitPattern matches any accepted delimiter: comma, pipe, or newline.
var splitPattern = regexp.MustCompile(`[,|\n]`)

// Decode splits a stored field into its values. Elements are trimmed and
// empties dropped. An empty or all-delimiter input yields nil.
func Decode(field string) []string {
	if field == "" {
		return nil
	}

	var values []string
	for _, part := range splitPattern.Split(field, -1) {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}
	return values
}

// Encode joins values into the canonical stored form: newline-joined,
// each element trimmed, empty elements dropped.
func Encode(values []string) string {
	var kept []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, "\n")
}

// Pair is one positional pairing of a default literal with a default URI.
// Either side may be empty when its source list is shorter.
type Pair struct {
	Literal string
	URI     string
}

// DecodePairs decodes two parallel list fields into positional pairs:
// index i of the literal list pairs with index i of the URI list. When one
// list is shorter the missing side is left empty, never padded.
func DecodePairs(literals, uris string) []Pair {
	ls := Decode(literals)
	us := Decode(uris)

	n := len(ls)
	if len(us) > n {
		n = len(us)
	}

	pairs := make([]Pair, 0, n)
	for i := 0; i < n; i++ {
		var p Pair
		if i < len(ls) {
			p.Literal = ls[i]
		}
		if i < len(us) {
			p.URI = us[i]
		}
		pairs = append(pairs, p)
	}
	return pairs
}
