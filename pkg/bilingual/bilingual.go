// Package bilingual splits composite name fields that carry a CJK name
// followed by a Latin-script name, such as "张三John Smith".
//
// Splitting is a two-step heuristic. [Normalize] first inserts a space where
// a CJK run is immediately followed by a Latin letter. [Split] then matches
// the whole trimmed string against "CJK run, optional space, Latin letters,
// spaces and periods". Strings that do not fit, for example because a script
// is missing or digits or other punctuation appear, yield an empty [Field];
// that is an expected outcome, not an error.
package bilingual

import (
	"regexp"
	"strings"
)

// cjk is the CJK Unified Ideographs range recognised as the CJK script.
const cjk = `\x{4e00}-\x{9fa5}`

var (
	cjkThenLatin = regexp.MustCompile(`([` + cjk + `]+)([A-Za-z])`)
	composite    = regexp.MustCompile(`^([` + cjk + `]+)[\s\p{Zs}]*([A-Za-z\s\p{Zs}.]+)$`)
)

// Field is the result of splitting one composite value. Both parts are
// empty when the value could not be split.
type Field struct {
	Latin string `json:"latin"`
	CJK   string `json:"cjk"`
}

// Parsed reports whether the split succeeded.
func (f Field) Parsed() bool {
	return f.Latin != "" || f.CJK != ""
}

// Normalize inserts a space between a CJK run and a Latin letter that
// directly follows it: "张San" becomes "张 San".
func Normalize(s string) string {
	return cjkThenLatin.ReplaceAllString(s, "$1 $2")
}

// Split separates s into its CJK and Latin parts.
func Split(s string) Field {
	m := composite.FindStringSubmatch(strings.TrimSpace(Normalize(s)))
	if m == nil {
		return Field{}
	}
	return Field{
		Latin: strings.TrimSpace(m[2]),
		CJK:   strings.TrimSpace(m[1]),
	}
}

// Pair is one input row: the composite value and the column carried
// through unchanged.
type Pair struct {
	A string
	B string
}

// Row is one output row.
type Row struct {
	Field
	B         string
	Composite string // the source value, kept for manual review
}

// SplitAll splits every pair and returns the rows with the number that
// could not be split.
func SplitAll(pairs []Pair) (rows []Row, unparsed int) {
	rows = make([]Row, len(pairs))
	for i, p := range pairs {
		f := Split(p.A)
		if !f.Parsed() {
			unparsed++
		}
		rows[i] = Row{Field: f, B: p.B, Composite: p.A}
	}
	return rows, unparsed
}
