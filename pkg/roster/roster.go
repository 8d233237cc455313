// Package roster sorts name/label records into a deterministic total order
// and numbers them.
//
// Ranking is delegated to an [order.Order]; the [Sorter] adds the tie-break
// keys selected by its [Strategy] and assigns 1-based sequence numbers in the
// final order.
package roster

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/rosterfmt/pkg/errors"
	"github.com/matzehuels/rosterfmt/pkg/order"
)

// Record is one roster row. Seq is zero until the record has been sorted.
type Record struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Seq   int    `json:"seq,omitempty"`
}

// Strategy selects the tie-break keys applied after the label rank.
type Strategy int

const (
	// Full breaks rank ties by name length in runes, then by name.
	Full Strategy = iota
	// Simple uses the label rank only; equal ranks keep their input order.
	Simple
)

// String returns the strategy name used by flags and config files.
func (s Strategy) String() string {
	switch s {
	case Full:
		return "full"
	case Simple:
		return "simple"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy parses "full" or "simple" (case-insensitive).
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full":
		return Full, nil
	case "simple":
		return Simple, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "invalid strategy: %q (must be one of: full, simple)", s)
}

// Sorter orders records by label rank plus the tie-breaks of its Strategy.
type Sorter struct {
	Order    *order.Order
	Strategy Strategy
}

// NewSorter returns a Sorter over o. A nil o uses [order.Default].
func NewSorter(o *order.Order, s Strategy) Sorter {
	if o == nil {
		o = order.Default()
	}
	return Sorter{Order: o, Strategy: s}
}

// key is the transient sort key of one record.
type key struct {
	unknown bool
	rank    int
	runes   int
}

// Sort returns the records in sorted order with Seq set to position+1.
// The input slice is not modified. The sort is stable.
//
// Unrecognized labels sort after every recognized label, even when an
// oversized label resolves to a rank above the sentinel.
func (s Sorter) Sort(records []Record) []Record {
	o := s.Order
	if o == nil {
		o = order.Default()
	}

	type item struct {
		rec Record
		key key
	}
	items := make([]item, len(records))
	for i, r := range records {
		rank, known := o.Resolve(r.Label)
		items[i] = item{rec: r, key: key{unknown: !known, rank: rank, runes: utf8.RuneCountInString(r.Name)}}
	}

	slices.SortStableFunc(items, func(a, b item) int {
		if c := compareBool(a.key.unknown, b.key.unknown); c != 0 {
			return c
		}
		if c := a.key.rank - b.key.rank; c != 0 {
			return c
		}
		if s.Strategy == Simple {
			return 0
		}
		if c := a.key.runes - b.key.runes; c != 0 {
			return c
		}
		return strings.Compare(a.rec.Name, b.rec.Name)
	})

	out := make([]Record, len(items))
	for i, it := range items {
		out[i] = it.rec
		out[i].Seq = i + 1
	}
	return out
}

// Unrecognized returns the distinct labels in records that o does not
// recognize, in first-seen order. Labels are reported as written.
func Unrecognized(o *order.Order, records []Record) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, r := range records {
		if _, known := o.Resolve(r.Label); known {
			continue
		}
		n := order.Normalize(r.Label)
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, r.Label)
	}
	return out
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}
