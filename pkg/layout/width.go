package layout

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/matzehuels/rosterfmt/pkg/errors"
)

const (
	DefaultFixedWidth = 15.0
	DefaultPadding    = 2
	DefaultScale      = 1.2
)

// WidthMode selects how column widths are computed.
type WidthMode int

const (
	// WidthFixed gives every occupied column the same width.
	WidthFixed WidthMode = iota
	// WidthFit sizes each column from its longest value.
	WidthFit
)

// Width is a column width policy. The zero value is a fixed width of
// DefaultFixedWidth.
type Width struct {
	Mode    WidthMode
	Fixed   float64 // WidthFixed only
	Padding int     // WidthFit only
	Scale   float64 // WidthFit only
}

// FixedWidth returns a policy giving every occupied column width w.
func FixedWidth(w float64) Width {
	return Width{Mode: WidthFixed, Fixed: w}
}

// FitWidth returns a policy sizing columns as (longest + padding) * scale.
func FitWidth(padding int, scale float64) Width {
	return Width{Mode: WidthFit, Padding: padding, Scale: scale}
}

// DefaultFitWidth is the fitted policy used for single-table output.
func DefaultFitWidth() Width {
	return FitWidth(DefaultPadding, DefaultScale)
}

func (w Width) withDefaults() Width {
	switch w.Mode {
	case WidthFixed:
		if w.Fixed == 0 {
			w.Fixed = DefaultFixedWidth
		}
	case WidthFit:
		if w.Scale == 0 {
			w.Scale = DefaultScale
		}
	}
	return w
}

// Validate checks the policy after defaults are applied.
func (w Width) Validate() error {
	w = w.withDefaults()
	switch w.Mode {
	case WidthFixed:
		if w.Fixed <= 0 || w.Fixed > 255 {
			return errors.New(errors.ErrCodeInvalidConfig, "column width must be in (0, 255], got %g", w.Fixed)
		}
	case WidthFit:
		if w.Padding < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "width padding cannot be negative, got %d", w.Padding)
		}
		if w.Scale <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "width scale must be positive, got %g", w.Scale)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown width mode %d", w.Mode)
	}
	return nil
}

// measure returns the width of one column holding values.
func (w Width) measure(values []string) float64 {
	if w.Mode == WidthFixed {
		return w.Fixed
	}
	longest := 0
	for _, v := range values {
		longest = max(longest, utf8.RuneCountInString(v))
	}
	// Round to two decimals so 1.2 multiples do not carry float noise.
	return math.Round(float64(longest+w.Padding)*w.Scale*100) / 100
}

func cellText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
