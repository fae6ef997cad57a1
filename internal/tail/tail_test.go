package tail

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer for cross-goroutine assertions.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func appendLine(t *testing.T, path, line string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line + "\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
}

func TestFollowerStreamsAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	out := &syncBuffer{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- NewFollower(path, out, nil).Run(ctx) }()

	appendLine(t, path, "first")
	waitFor(t, func() bool { return strings.Contains(out.String(), "first") })

	appendLine(t, path, "second")
	waitFor(t, func() bool { return strings.Contains(out.String(), "second") })

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}

func TestFollowerSkipsExistingByDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	appendLine(t, path, "old content")

	out := &syncBuffer{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = NewFollower(path, out, nil).Run(ctx) }()

	appendLine(t, path, "new content")
	waitFor(t, func() bool { return strings.Contains(out.String(), "new content") })

	if strings.Contains(out.String(), "old content") {
		t.Error("default follow should start at end of file")
	}
}

func TestFollowerFromStartReplays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	appendLine(t, path, "old content")

	out := &syncBuffer{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := NewFollower(path, out, nil)
	f.FromStart = true
	go func() { _ = f.Run(ctx) }()

	waitFor(t, func() bool { return strings.Contains(out.String(), "old content") })
}

func TestFollowerWaitsForFileToAppear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "later.txt")
	out := &syncBuffer{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = NewFollower(path, out, nil).Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	appendLine(t, path, "arrived")
	waitFor(t, func() bool { return strings.Contains(out.String(), "arrived") })
}
