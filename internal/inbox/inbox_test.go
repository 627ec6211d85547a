package inbox

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/yildizm/TransformoDocs/internal/client"
	"github.com/yildizm/TransformoDocs/internal/flow"
)

type fakeProcessor struct {
	mu    sync.Mutex
	names []string
	fail  map[string]bool
}

func (f *fakeProcessor) Process(_ context.Context, file client.File) (*client.StructuredResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, file.Name())
	if f.fail[file.Name()] {
		return nil, errors.New("boom")
	}
	return client.DecodeResult([]byte(`{"content":"ok"}`))
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("data"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestNewWatcher_Validation(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	writeFile(t, file)

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "no dir", cfg: Config{Extensions: []string{"pdf"}}},
		{name: "missing dir", cfg: Config{Dir: filepath.Join(dir, "nope"), Extensions: []string{"pdf"}}},
		{name: "file", cfg: Config{Dir: file, Extensions: []string{"pdf"}}},
		{name: "no extensions", cfg: Config{Dir: dir}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewWatcher(tt.cfg, nil); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestWatcher_Allowed(t *testing.T) {
	w, err := NewWatcher(Config{Dir: t.TempDir(), Extensions: []string{"PDF", ".docx"}}, nil)
	if err != nil {
		t.Fatal(err)
	}

	for path, want := range map[string]bool{
		"a.pdf":      true,
		"b.PDF":      true,
		"c.docx":     true,
		"d.txt":      false,
		"noext":      false,
		"e.pdf.part": false,
	} {
		if got := w.Allowed(path); got != want {
			t.Errorf("Allowed(%s) = %v, want %v", path, got, want)
		}
	}
}

func TestWatcher_InitialScanAndNewFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "existing.pdf"))
	writeFile(t, filepath.Join(dir, "ignored.log"))

	w, err := NewWatcher(Config{Dir: dir, Extensions: []string{"pdf"}, InitialScan: true, Debounce: 20 * time.Millisecond}, nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	paths, _, err := w.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if got := receive(t, paths); filepath.Base(got) != "existing.pdf" {
		t.Errorf("Expected initial scan to emit existing.pdf, got %s", got)
	}

	writeFile(t, filepath.Join(dir, "skip.log"))
	writeFile(t, filepath.Join(dir, "new.pdf"))

	if got := receive(t, paths); filepath.Base(got) != "new.pdf" {
		t.Errorf("Expected new.pdf, got %s", got)
	}

	cancel()
	for range paths {
	}
}

func TestProcess_UsesFreshFlowPerFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.pdf")
	bad := filepath.Join(dir, "bad.pdf")
	writeFile(t, good)
	writeFile(t, bad)

	proc := &fakeProcessor{fail: map[string]bool{"bad.pdf": true}}
	paths := make(chan string, 3)
	paths <- bad
	paths <- good
	close(paths)

	var results []Result
	err := Process(context.Background(), paths, proc, nil, func(r Result) {
		results = append(results, r)
	})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Err == nil || results[0].State.Phase != flow.Failed || results[0].State.ErrorMessage != flow.MsgUploadFailed {
		t.Errorf("Expected first upload to fail, got %+v", results[0])
	}
	if results[1].Err != nil || results[1].State.Phase != flow.Succeeded {
		t.Errorf("A failed upload must not affect the next one, got %+v", results[1])
	}
	if results[1].State.SubmittedName != "good.pdf" {
		t.Errorf("Expected good.pdf, got %s", results[1].State.SubmittedName)
	}
}

func TestProcess_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Process(ctx, make(chan string), &fakeProcessor{}, nil, func(Result) {
		t.Error("Expected no results")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func receive(t *testing.T, paths <-chan string) string {
	t.Helper()
	select {
	case p, ok := <-paths:
		if !ok {
			t.Fatal("Channel closed")
		}
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for a path")
	}
	return ""
}
