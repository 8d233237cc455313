package order

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/matzehuels/rosterfmt/pkg/errors"
)

// DefaultSizes is the reference list used by [Default]: children's numeric
// sizes ascending, then letter sizes, then the numbered oversized tiers.
var DefaultSizes = []string{
	"100", "110", "120", "130", "140", "150",
	"XS", "S", "M", "L", "XL",
	"2XL", "3XL", "4XL", "5XL", "6XL", "7XL", "8XL", "9XL", "10XL",
}

const (
	// DefaultBaseline is the reference entry that oversized labels extend.
	DefaultBaseline = "XL"

	// DefaultMarker is the size marker counted in oversized labels.
	DefaultMarker = 'X'

	// maxMultiplierDigits bounds numeric multipliers such as "12XL" so rank
	// arithmetic cannot overflow.
	maxMultiplierDigits = 6
)

// Order resolves labels to ranks against a fixed reference list.
type Order struct {
	entries  []string
	index    map[string]int
	baseline string
	marker   rune
	base     int // index of baseline in entries, -1 when the rule is off
}

// Option configures an [Order].
type Option func(*Order)

// WithOversized sets the baseline entry and marker rune of the oversized
// rule. The rule only applies when baseline is present in the reference list.
func WithOversized(baseline string, marker rune) Option {
	return func(o *Order) {
		o.baseline = Normalize(baseline)
		o.marker = marker
	}
}

// WithoutOversized disables the oversized rule; only exact matches rank.
func WithoutOversized() Option {
	return func(o *Order) {
		o.baseline = ""
	}
}

// New builds an Order from a reference list. Entries are normalized with
// [Normalize]; an empty list, a blank entry or two entries that normalize to
// the same label are configuration errors.
func New(entries []string, opts ...Option) (*Order, error) {
	if len(entries) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "reference order cannot be empty")
	}

	o := &Order{
		entries:  make([]string, len(entries)),
		index:    make(map[string]int, len(entries)),
		baseline: DefaultBaseline,
		marker:   DefaultMarker,
		base:     -1,
	}
	for _, opt := range opts {
		opt(o)
	}

	for i, e := range entries {
		n := Normalize(e)
		if n == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "reference order entry %d is blank", i)
		}
		if prev, ok := o.index[n]; ok {
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"reference order entries %d and %d both normalize to %q", prev, i, n)
		}
		o.entries[i] = n
		o.index[n] = i
	}

	if o.baseline != "" {
		if i, ok := o.index[o.baseline]; ok {
			o.base = i
		}
	}
	return o, nil
}

// MustNew is like [New] but panics on error. It is meant for package-level
// orders built from literals.
func MustNew(entries []string, opts ...Option) *Order {
	o, err := New(entries, opts...)
	if err != nil {
		panic(err)
	}
	return o
}

// Default returns an Order over [DefaultSizes] with the "XL"/'X' oversized
// rule.
func Default() *Order {
	return MustNew(DefaultSizes)
}

// Entries returns a copy of the normalized reference list.
func (o *Order) Entries() []string {
	out := make([]string, len(o.entries))
	copy(out, o.entries)
	return out
}

// Len returns the number of reference entries.
func (o *Order) Len() int { return len(o.entries) }

// Unknown returns the sentinel rank given to unrecognized labels.
func (o *Order) Unknown() int { return len(o.entries) }

// Rank returns the rank of label. Unrecognized labels get [Order.Unknown].
func (o *Order) Rank(label string) int {
	r, _ := o.Resolve(label)
	return r
}

// Resolve returns the rank of label and whether the label was recognized,
// either by exact match or by the oversized rule.
func (o *Order) Resolve(label string) (int, bool) {
	n := Normalize(label)
	if i, ok := o.index[n]; ok {
		return i, true
	}
	if r, ok := o.oversized(n); ok {
		return r, true
	}
	return o.Unknown(), false
}

// oversized applies the marker-counting rule to a normalized label that did
// not match the reference list exactly.
func (o *Order) oversized(label string) (int, bool) {
	if o.base < 0 || label == o.baseline || !strings.HasSuffix(label, o.baseline) {
		return 0, false
	}
	prefix := strings.TrimSuffix(label, o.baseline)

	// "XXL", "XXXL": every prefix rune is an extra marker.
	if strings.Trim(prefix, string(o.marker)) == "" {
		return o.base + utf8.RuneCountInString(prefix), true
	}

	// "12XL": a decimal multiplier of at least two.
	if len(prefix) > maxMultiplierDigits || !isDigits(prefix) || prefix[0] == '0' {
		return 0, false
	}
	n, err := strconv.Atoi(prefix)
	if err != nil || n < 2 {
		return 0, false
	}
	return o.base + n, true
}

// Normalize folds compatibility forms (full-width letters and digits) with
// NFKC, trims surrounding space and uppercases the label.
func Normalize(label string) string {
	return strings.ToUpper(strings.TrimSpace(norm.NFKC.String(label)))
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
