package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestParse(t *testing.T) {
	src := `
[editor]
max_undo_entries = 50

[markdown]
syntax = "normal"

[spelling]
enabled = true
words = ["richdoc", "goldmark"]

[scripts]
reactions = ["a.lua", "b.lua"]
`
	got, err := Parse(strings.NewReader(src), "test.toml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := Default()
	want.Editor.MaxUndoEntries = 50
	want.Markdown.Syntax = "normal"
	want.Spelling.Enabled = true
	want.Spelling.Words = []string{"richdoc", "goldmark"}
	want.Scripts.Reactions = []string{"a.lua", "b.lua"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantParse bool
	}{
		{"syntax error", "[editor\nmax_undo_entries = 1", true},
		{"unknown key", "[editor]\ntab_size = 4", true},
		{"wrong type", "[editor]\nmax_undo_entries = \"many\"", true},
		{"bad syntax name", "[markdown]\nsyntax = \"commonmark\"", false},
		{"zero undo", "[editor]\nmax_undo_entries = 0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src), "bad.toml")
			if err == nil {
				t.Fatal("Parse() error = nil")
			}
			var pe *ParseError
			if got := errors.As(err, &pe); got != tt.wantParse {
				t.Errorf("errors.As(ParseError) = %v, want %v (err = %v)", got, tt.wantParse, err)
			}
			if !tt.wantParse && !errors.Is(err, ErrValidationFailed) {
				t.Errorf("error = %v, want ErrValidationFailed", err)
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Parse(strings.NewReader("[editor]\nmax_undo_entries = = 3\n"), "pos.toml")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want ParseError", err)
	}
	if pe.Line != 2 {
		t.Errorf("Line = %d, want 2", pe.Line)
	}
	if !strings.Contains(pe.Error(), "pos.toml") {
		t.Errorf("Error() = %q, want file name", pe.Error())
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "richdoc.toml")
	if err := os.WriteFile(path, []byte("[logging]\nlevel = \"debug\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RICHDOC_LOG_FORMAT", "json")
	t.Setenv("RICHDOC_MAX_UNDO", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
	if cfg.Editor.MaxUndoEntries != 7 {
		t.Errorf("Editor.MaxUndoEntries = %d, want 7", cfg.Editor.MaxUndoEntries)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Markdown.Syntax != "super_editor" {
		t.Errorf("Markdown.Syntax = %q, want default", cfg.Markdown.Syntax)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"RICHDOC_MARKDOWN_SYNTAX":  "NORMAL",
		"RICHDOC_SPELLING_ENABLED": "true",
		"RICHDOC_IME_PLATFORM":     "ios",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	cfg := Default()
	if err := ApplyEnv(cfg, lookup); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if cfg.Markdown.Syntax != "normal" {
		t.Errorf("Markdown.Syntax = %q, want normal", cfg.Markdown.Syntax)
	}
	if !cfg.Spelling.Enabled {
		t.Error("Spelling.Enabled = false, want true")
	}
	if cfg.IME.Platform != "ios" {
		t.Errorf("IME.Platform = %q, want ios", cfg.IME.Platform)
	}

	env = map[string]string{"RICHDOC_MAX_UNDO": "lots"}
	if err := ApplyEnv(Default(), lookup); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("ApplyEnv() error = %v, want ErrValidationFailed", err)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Scripts.Reactions = []string{"x.lua"}
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got, err := Parse(strings.NewReader(string(data)), "marshal")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff(cfg, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "richdoc.toml")
	if err := os.WriteFile(path, []byte("[logging]\nlevel = \"info\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(cfg *Config, err error) {
			if err == nil {
				got <- cfg
			}
		})
	}()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("[logging]\nlevel = \"warn\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-got:
		if cfg.Logging.Level != "warn" {
			t.Errorf("reloaded level = %q, want warn", cfg.Logging.Level)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Error("Watch() did not return after cancel")
	}
}
