package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/wrapped/internal/pipeline"
	"github.com/MikeSquared-Agency/wrapped/internal/tokens"
)

const sampleExport = `[{"id": "c1", "title": "Orders", "mapping": {
  "a": {"message": {"id": "m1", "author": {"role": "user"}, "create_time": 1772442000, "content": {"parts": ["Can you fix this query?"]}}},
  "b": {"message": {"id": "m2", "author": {"role": "assistant"}, "create_time": 1772442060, "content": {"parts": ["SELECT id FROM orders"]}}}
}}]`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newWatcher(t *testing.T, debounce time.Duration) (*Watcher, string, string) {
	t.Helper()
	in := t.TempDir()
	out := t.TempDir()
	state, err := LoadState(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	pipe := pipeline.New(tokens.Select(false, ""), nil, discardLogger())
	w := New(pipe, state, Options{Dir: in, OutDir: out, Timezone: "UTC", Debounce: debounce}, discardLogger())
	return w, in, out
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"conversations.json", true},
		{"/tmp/exports/my_conversations_2026.JSON", true},
		{"chatgpt-export.zip", true},
		{"Export.ZIP", true},
		{"user.json", false},
		{"conversations.json.tmp", false},
		{".conversations.json", false},
		{"notes.txt", false},
	}
	for _, tt := range tests {
		if got := Matches(tt.name); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestProcessFile_WritesReports(t *testing.T) {
	w, in, out := newWatcher(t, time.Second)
	path := filepath.Join(in, "conversations.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleExport), 0o644))

	dir, err := w.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(out, "conversations"), dir)

	for _, name := range []string{
		"chatgpt_wrapped_all_time.json",
		"chatgpt_wrapped_all_time.html",
		"chatgpt_messages_all_time.csv",
		"chatgpt_conversations_all_time.csv",
	} {
		require.FileExists(t, filepath.Join(dir, name))
	}

	require.Len(t, w.state.Processed, 1)
	require.FileExists(t, w.state.Path())
}

func TestProcessFile_SkipsDuplicateContent(t *testing.T) {
	w, in, _ := newWatcher(t, time.Second)
	first := filepath.Join(in, "conversations.json")
	second := filepath.Join(in, "conversations-copy.json")
	require.NoError(t, os.WriteFile(first, []byte(sampleExport), 0o644))
	require.NoError(t, os.WriteFile(second, []byte(sampleExport), 0o644))

	dir, err := w.ProcessFile(context.Background(), first)
	require.NoError(t, err)
	require.NotEmpty(t, dir)

	dir, err = w.ProcessFile(context.Background(), second)
	require.NoError(t, err)
	require.Empty(t, dir)
}

func TestProcessFile_RecordsErrors(t *testing.T) {
	w, in, _ := newWatcher(t, time.Second)
	path := filepath.Join(in, "conversations.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"nope": true}`), 0o644))

	_, err := w.ProcessFile(context.Background(), path)
	require.Error(t, err)
	require.Len(t, w.state.Errors, 1)
	require.Contains(t, w.state.Errors[0], "conversations.json")
	require.Empty(t, w.state.Processed)

	reloaded, err := LoadState(w.state.Path())
	require.NoError(t, err)
	require.Len(t, reloaded.Errors, 1)
}

func TestState_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	s, err := LoadState(path)
	require.NoError(t, err)
	require.False(t, s.IsProcessed("abc"))

	s.MarkProcessed("abc", "/out/abc")
	s.AddError("boom")
	require.NoError(t, s.Save())

	loaded, err := LoadState(path)
	require.NoError(t, err)
	require.True(t, loaded.IsProcessed("abc"))
	require.Equal(t, "/out/abc", loaded.Processed["abc"])
	require.Equal(t, []string{"boom"}, loaded.Errors)
	require.False(t, loaded.LastRunAt.IsZero())
}

func TestLoadState_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := LoadState(path)
	require.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	require.Equal(t, filepath.Join(home, "x", "y.json"), expandHome("~/x/y.json"))
	require.Equal(t, "/abs/path", expandHome("/abs/path"))
	require.Equal(t, "~user/file", expandHome("~user/file"))
}

func TestRun_ProcessesNewAndExistingExports(t *testing.T) {
	w, in, out := newWatcher(t, 50*time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(in, "conversations.json"), []byte(sampleExport), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(out, "conversations", "chatgpt_wrapped_all_time.json"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	other := `[{"id": "c2", "title": "Trip", "mapping": {
	  "a": {"message": {"id": "m1", "author": {"role": "user"}, "create_time": 1772442000, "content": {"parts": ["Plan a weekend trip"]}}}
	}}]`
	require.NoError(t, os.WriteFile(filepath.Join(in, "trip_conversations.json"), []byte(other), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "ignored.txt"), []byte("hello"), 0o644))

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(out, "trip_conversations", "chatgpt_wrapped_all_time.json"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	_, err := os.Stat(filepath.Join(out, "ignored"))
	require.True(t, os.IsNotExist(err))
}
