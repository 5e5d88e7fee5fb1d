package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config is the complete richdoc configuration.
type Config struct {
	Editor   Editor   `toml:"editor"`
	Markdown Markdown `toml:"markdown"`
	IME      IME      `toml:"ime"`
	Spelling Spelling `toml:"spelling"`
	Scripts  Scripts  `toml:"scripts"`
	Logging  Logging  `toml:"logging"`
}

// Editor configures the editing pipeline.
type Editor struct {
	MaxUndoEntries    int  `toml:"max_undo_entries"`
	MaxReactionPasses int  `toml:"max_reaction_passes"`
	MaxListIndent     int  `toml:"max_list_indent"`
	MarkdownShortcuts bool `toml:"markdown_shortcuts"`
}

// Markdown configures the Markdown codec.
type Markdown struct {
	// Syntax is "super_editor" or "normal".
	Syntax string `toml:"syntax"`
}

// IME configures the input method bridge.
type IME struct {
	Platform string `toml:"platform"`
	// Prefix is the invisible text placed before the document.
	Prefix string `toml:"prefix"`
}

// Spelling configures background spell checking.
type Spelling struct {
	Enabled bool `toml:"enabled"`
	// Dictionary is a word list file, one word per line.
	Dictionary string   `toml:"dictionary"`
	Words      []string `toml:"words"`
	Workers    int      `toml:"workers"`
}

// Scripts lists Lua reaction scripts.
type Scripts struct {
	Reactions []string `toml:"reactions"`
}

// Logging configures the logger.
type Logging struct {
	Level string `toml:"level"`
	// Format is "json" or "console".
	Format string `toml:"format"`
}

var (
	syntaxes  = []string{"super_editor", "normal"}
	platforms = []string{"android", "ios", "macos", "windows", "linux", "web"}
	levels    = []string{"debug", "info", "warn", "error"}
	formats   = []string{"json", "console"}
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: Editor{
			MaxUndoEntries:    1000,
			MaxReactionPasses: 16,
			MaxListIndent:     6,
			MarkdownShortcuts: true,
		},
		Markdown: Markdown{Syntax: "super_editor"},
		IME:      IME{Platform: "android", Prefix: "\u200B"},
		Spelling: Spelling{Workers: 2},
		Logging:  Logging{Level: "info", Format: "console"},
	}
}

// Load reads the TOML file at path over the defaults, then applies
// RICHDOC_* environment overrides and validates the result. A missing file
// is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			defer f.Close()
			if err := decode(cfg, f, path); err != nil {
				return nil, err
			}
		}
	}
	if err := ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse reads TOML from r over the defaults and validates it. Environment
// variables are not consulted.
func Parse(r io.Reader, source string) (*Config, error) {
	cfg := Default()
	if err := decode(cfg, r, source); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(cfg *Config, r io.Reader, source string) error {
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	err := dec.Decode(cfg)
	if err == nil {
		return nil
	}
	pe := &ParseError{Path: source, Message: err.Error(), Err: err}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		pe.Line, pe.Column = derr.Position()
	}
	var serr *toml.StrictMissingError
	if errors.As(err, &serr) {
		pe.Message = "unknown keys: " + strings.TrimSpace(serr.String())
	}
	return pe
}

// Validate checks enumerated and numeric settings.
func (c *Config) Validate() error {
	var errs []error
	oneOf := func(path, value string, allowed []string) {
		if !slices.Contains(allowed, strings.ToLower(value)) {
			errs = append(errs, &ValidationError{
				Path:    path,
				Message: "must be one of " + strings.Join(allowed, ", "),
				Value:   value,
			})
		}
	}
	positive := func(path string, value int) {
		if value <= 0 {
			errs = append(errs, &ValidationError{Path: path, Message: "must be positive", Value: value})
		}
	}

	oneOf("markdown.syntax", c.Markdown.Syntax, syntaxes)
	oneOf("ime.platform", c.IME.Platform, platforms)
	oneOf("logging.level", c.Logging.Level, levels)
	oneOf("logging.format", c.Logging.Format, formats)
	positive("editor.max_undo_entries", c.Editor.MaxUndoEntries)
	positive("editor.max_reaction_passes", c.Editor.MaxReactionPasses)
	positive("spelling.workers", c.Spelling.Workers)
	if c.Editor.MaxListIndent < 0 {
		errs = append(errs, &ValidationError{Path: "editor.max_list_indent", Message: "must not be negative", Value: c.Editor.MaxListIndent})
	}
	return errors.Join(errs...)
}

// Marshal renders the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
