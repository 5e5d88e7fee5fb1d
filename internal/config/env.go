package config

import (
	"fmt"
	"strconv"
	"strings"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "RICHDOC_"

// LookupFunc reports the value of an environment variable. os.LookupEnv
// satisfies it.
type LookupFunc func(key string) (string, bool)

type envSetter func(cfg *Config, value string) error

// envMapping maps variables (without prefix) to the setting they override.
var envMapping = map[string]envSetter{
	"LOG_LEVEL":           func(c *Config, v string) error { c.Logging.Level = strings.ToLower(v); return nil },
	"LOG_FORMAT":          func(c *Config, v string) error { c.Logging.Format = strings.ToLower(v); return nil },
	"MARKDOWN_SYNTAX":     func(c *Config, v string) error { c.Markdown.Syntax = strings.ToLower(v); return nil },
	"IME_PLATFORM":        func(c *Config, v string) error { c.IME.Platform = strings.ToLower(v); return nil },
	"SPELLING_DICTIONARY": func(c *Config, v string) error { c.Spelling.Dictionary = v; return nil },
	"MAX_UNDO": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		c.Editor.MaxUndoEntries = n
		return err
	},
	"SPELLING_ENABLED": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		c.Spelling.Enabled = b
		return err
	},
	"MARKDOWN_SHORTCUTS": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		c.Editor.MarkdownShortcuts = b
		return err
	},
}

// ApplyEnv overrides cfg with RICHDOC_* variables. Empty values count as
// set.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	for name, set := range envMapping {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		if err := set(cfg, strings.TrimSpace(v)); err != nil {
			return &ValidationError{
				Path:    EnvPrefix + name,
				Message: fmt.Sprintf("invalid value: %v", err),
				Value:   v,
			}
		}
	}
	return nil
}
