// Package config loads rosterfmt settings from a TOML file.
//
// Every field has a default, so a missing file is not an error. A typical
// file looks like:
//
//	[order]
//	sizes = ["S", "M", "L", "XL", "2XL"]
//
//	[layout]
//	rows_per_group = 30
//	strategy = "full"
//
//	[output]
//	dir = "out"
//
// Command-line flags override file values.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/rosterfmt/pkg/errors"
	"github.com/matzehuels/rosterfmt/pkg/layout"
	"github.com/matzehuels/rosterfmt/pkg/order"
	"github.com/matzehuels/rosterfmt/pkg/roster"
)

// Width policy names accepted in [layout].
const (
	WidthFixed = "fixed"
	WidthFit   = "fit"
)

// Config is the complete file configuration.
type Config struct {
	Order  Order  `toml:"order"`
	Layout Layout `toml:"layout"`
	Split  Split  `toml:"split"`
	Output Output `toml:"output"`
}

// Order configures label ranking.
type Order struct {
	Sizes     []string `toml:"sizes"`
	Baseline  string   `toml:"baseline"`
	Marker    string   `toml:"marker"`
	Oversized bool     `toml:"oversized"`
}

// Layout configures sorting and the sheet layout.
type Layout struct {
	// RowsPerGroup is the tiled group capacity. Zero leaves it to the
	// command line or an interactive prompt.
	RowsPerGroup int       `toml:"rows_per_group"`
	Strategy     string    `toml:"strategy"`
	Headers      [3]string `toml:"headers"`
	Width        string    `toml:"width"`
	FixedWidth   float64   `toml:"fixed_width"`
	Padding      int       `toml:"padding"`
	Scale        float64   `toml:"scale"`
}

// Split configures the bilingual splitter output.
type Split struct {
	KeepUnparsed bool   `toml:"keep_unparsed"`
	LatinHeader  string `toml:"latin_header"`
	CJKHeader    string `toml:"cjk_header"`
	// SourceHeader titles the middle column with the source's second
	// header instead of "B".
	SourceHeader bool `toml:"source_header"`
}

// Output configures where and how workbooks are written. An empty Sheet
// keeps the per-workflow default name.
type Output struct {
	Dir   string `toml:"dir"`
	Sheet string `toml:"sheet"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Order: Order{
			Sizes:     append([]string(nil), order.DefaultSizes...),
			Baseline:  order.DefaultBaseline,
			Marker:    string(order.DefaultMarker),
			Oversized: true,
		},
		Layout: Layout{
			Strategy:   roster.Full.String(),
			Headers:    layout.DefaultHeaders,
			Width:      WidthFixed,
			FixedWidth: layout.DefaultFixedWidth,
			Padding:    layout.DefaultPadding,
			Scale:      layout.DefaultScale,
		},
		Split: Split{
			LatinHeader: "English",
			CJKHeader:   "Chinese",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/rosterfmt/config.toml, falling back
// to the user configuration directory of the platform.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(dir, "rosterfmt", "config.toml")
}

// Load reads the file at path over the defaults. An empty path loads
// DefaultPath and tolerates its absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return Default(), nil
	}
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read config %s", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML data over the defaults and validates the result.
// Unknown keys are rejected so that typos do not silently fall back to
// defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if _, err := c.BuildOrder(); err != nil {
		return err
	}
	if c.Layout.RowsPerGroup != 0 {
		if err := errors.ValidateRowsPerGroup(c.Layout.RowsPerGroup); err != nil {
			return err
		}
	}
	if _, err := roster.ParseStrategy(c.Layout.Strategy); err != nil {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.strategy: %s", errors.UserMessage(err))
	}
	if _, err := c.TiledWidth(); err != nil {
		return err
	}
	if c.Output.Sheet != "" {
		if err := errors.ValidateSheetName(c.Output.Sheet); err != nil {
			return err
		}
	}
	return nil
}

// BuildOrder constructs the label order from [order].
func (c *Config) BuildOrder() (*order.Order, error) {
	if !c.Order.Oversized {
		return order.New(c.Order.Sizes, order.WithoutOversized())
	}
	if utf8.RuneCountInString(c.Order.Marker) != 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"order.marker must be a single character, got %q", c.Order.Marker)
	}
	marker, _ := utf8.DecodeRuneInString(strings.ToUpper(c.Order.Marker))
	return order.New(c.Order.Sizes, order.WithOversized(c.Order.Baseline, marker))
}

// Strategy returns the configured sort strategy.
func (c *Config) Strategy() roster.Strategy {
	s, err := roster.ParseStrategy(c.Layout.Strategy)
	if err != nil {
		return roster.Full
	}
	return s
}

// TiledWidth returns the width policy for tiled output.
func (c *Config) TiledWidth() (layout.Width, error) {
	var w layout.Width
	switch strings.ToLower(c.Layout.Width) {
	case WidthFixed, "":
		w = layout.FixedWidth(c.Layout.FixedWidth)
	case WidthFit:
		w = layout.FitWidth(c.Layout.Padding, c.Layout.Scale)
	default:
		return layout.Width{}, errors.New(errors.ErrCodeInvalidConfig,
			"layout.width must be %q or %q, got %q", WidthFixed, WidthFit, c.Layout.Width)
	}
	if err := w.Validate(); err != nil {
		return layout.Width{}, err
	}
	return w, nil
}

// FlatWidth returns the width policy for single-table output, which always
// fits columns to their content.
func (c *Config) FlatWidth() layout.Width {
	return layout.FitWidth(c.Layout.Padding, c.Layout.Scale)
}

// LayoutConfig returns the layout configuration for rows rows per group.
func (c *Config) LayoutConfig(rows int, flat bool) (layout.Config, error) {
	cfg := layout.Config{RowsPerGroup: rows, Headers: c.Layout.Headers}
	if flat {
		cfg.Width = c.FlatWidth()
		return cfg, cfg.Width.Validate()
	}
	w, err := c.TiledWidth()
	if err != nil {
		return layout.Config{}, err
	}
	cfg.Width = w
	return cfg, nil
}
