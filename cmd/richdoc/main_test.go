package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

// runCLI runs richdoc with a config path that does not exist, so only
// defaults apply.
func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	args = append([]string{"-c", filepath.Join(t.TempDir(), "none.toml")}, args...)
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFmt(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		syntax string
		want   string
	}{
		{"emphasis", "Some __bold__ text", "", "Some **bold** text\n"},
		{"header", "#   Title", "", "# Title\n"},
		{"strikethrough normal", "~~gone~~", "normal", "~~gone~~\n"},
		{"strikethrough super", "~~gone~~", "super_editor", "~gone~\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "doc.md", tt.input)
			args := []string{"fmt", path}
			if tt.syntax != "" {
				args = append(args, "--syntax", tt.syntax)
			}
			code, out, errOut := runCLI(t, args...)
			if code != 0 {
				t.Fatalf("exit code = %d, stderr = %s", code, errOut)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestFmtWrite(t *testing.T) {
	path := writeFile(t, "doc.md", "* a\n+ b")
	if code, _, errOut := runCLI(t, "fmt", "-w", path); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "* a\n* b\n"; string(got) != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestIMEReplay(t *testing.T) {
	doc := writeFile(t, "doc.md", "Hi")
	log := writeFile(t, "session.jsonl",
		`{"deltas":[{"oldText":"`+"\u200B"+`Hi","deltaText":"!","deltaStart":3,"deltaEnd":3,"selectionBase":4,"selectionExtent":4,"composingBase":-1,"composingExtent":-1}]}`+"\n")

	code, out, errOut := runCLI(t, "ime-replay", doc, log)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut)
	}
	md, state, ok := strings.Cut(out, "\n\n")
	if !ok {
		t.Fatalf("output = %q, want markdown and state", out)
	}
	if md != "Hi!" {
		t.Errorf("markdown = %q, want Hi!", md)
	}
	if got := gjson.Get(state, "text").String(); got != "\u200BHi!" {
		t.Errorf("state text = %q", got)
	}
}

func TestIMEReplayStrict(t *testing.T) {
	doc := writeFile(t, "doc.md", "Hi")
	// oldText claims a different value, and the offsets run past its end.
	log := writeFile(t, "session.jsonl",
		`{"deltas":[{"oldText":"x","deltaText":"!","deltaStart":5,"deltaEnd":5,"selectionBase":6,"selectionExtent":6}]}`+"\n")
	if code, _, _ := runCLI(t, "ime-replay", "--strict", doc, log); code == 0 {
		t.Error("exit code = 0 for a malformed session")
	}
}

func TestUndoDemo(t *testing.T) {
	code, out, errOut := runCLI(t, "undo-demo", "--text", "Hello world")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	var done, undone, redone int
	for _, l := range lines {
		switch {
		case strings.HasPrefix(l, "undo "):
			undone++
		case strings.HasPrefix(l, "do "):
			done++
		case strings.HasPrefix(l, "redo "):
			redone++
		}
	}
	if done != 7 {
		t.Errorf("do lines = %d, want 7", done)
	}
	// Moving the caret is not an undoable step.
	if undone != 6 {
		t.Errorf("undo lines = %d, want 6", undone)
	}
	if !strings.Contains(out, `"## **Hello** world"`) {
		t.Errorf("output missing bold header:\n%s", out)
	}
	if undone > 0 {
		if last := lines[len(lines)-2]; !strings.HasSuffix(last, `""`) {
			t.Errorf("last undo line = %q, want empty document", last)
		}
	}
	if redone != 1 {
		t.Fatalf("redo lines = %d, want 1", redone)
	}
	if last := lines[len(lines)-1]; !strings.Contains(last, "6 transactions") || !strings.Contains(last, "**Hello** world") {
		t.Errorf("redo line = %q, want all 6 transactions restored", last)
	}
	if strings.Contains(out, "undo  edit ") {
		t.Errorf("undo steps should carry request names:\n%s", out)
	}
}

// lockedBuffer is written by the watch command's goroutines while the test
// reads it.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, b *lockedBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(b.String(), want) {
		if time.Now().After(deadline) {
			t.Fatalf("output never contained %q:\n%s", want, b.String())
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestWatchReloadsConfig(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(doc, []byte("~~gone~~"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "richdoc.toml")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var out, errOut lockedBuffer
	done := make(chan int, 1)
	go func() {
		done <- run(ctx, []string{"-c", cfgPath, "watch", doc, "--debounce", "20ms"}, &out, &errOut)
	}()

	waitFor(t, &out, "\n~gone~\n")
	// Give the watchers time to register before the config appears.
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(cfgPath, []byte("[markdown]\nsyntax = \"normal\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, &out, "\n~~gone~~\n")

	cancel()
	select {
	case code := <-done:
		if code != 0 {
			t.Errorf("exit code = %d, stderr = %s", code, errOut.String())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
	if !strings.Contains(errOut.String(), "config reloaded") {
		t.Errorf("stderr missing reload message:\n%s", errOut.String())
	}
}

func TestVersion(t *testing.T) {
	code, out, _ := runCLI(t, "version")
	if code != 0 || !strings.HasPrefix(out, "richdoc ") {
		t.Errorf("version = %d, %q", code, out)
	}
}

func TestBadArguments(t *testing.T) {
	if code, _, _ := runCLI(t, "fmt"); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}
