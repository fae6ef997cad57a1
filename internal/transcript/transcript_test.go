package transcript

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/luadbg/internal/logging"
)

// countingSpawner records viewer launches.
type countingSpawner struct {
	spawns int
	err    error
}

func (c *countingSpawner) Spawn(string) error {
	c.spawns++
	return c.err
}

func TestConsoleSinkWritesLines(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsoleSink(&buf)
	s.Write("hello")
	s.Write("world")

	if got := buf.String(); got != "hello\nworld\n" {
		t.Errorf("console output = %q", got)
	}
}

func TestConsoleSinkWatchIsNoop(t *testing.T) {
	s := NewConsoleSink(&bytes.Buffer{})
	s.Watch() // must not panic or block
}

func TestFileSinkAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	s := NewFileSink(path, &countingSpawner{}, logging.NullLogger)

	s.Write("first")
	s.Write("second")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	if string(data) != "first\nsecond\n" {
		t.Errorf("transcript = %q", data)
	}
}

func TestFileSinkSpawnsViewerOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	spawner := &countingSpawner{}
	s := NewFileSink(path, spawner, logging.NullLogger)

	s.Write("first")
	if spawner.spawns != 1 {
		t.Fatalf("first write should spawn exactly once, got %d", spawner.spawns)
	}

	for i := 0; i < 10; i++ {
		s.Write("more")
	}
	if spawner.spawns != 1 {
		t.Errorf("subsequent writes should not respawn, got %d", spawner.spawns)
	}
}

func TestFileSinkWatchRespawns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	spawner := &countingSpawner{}
	s := NewFileSink(path, spawner, logging.NullLogger)

	s.Write("first")
	s.Watch()
	if spawner.spawns != 2 {
		t.Errorf("explicit watch should respawn, got %d spawns", spawner.spawns)
	}
}

func TestFileSinkWatchBeforeFirstWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	spawner := &countingSpawner{}
	s := NewFileSink(path, spawner, logging.NullLogger)

	s.Watch()
	s.Write("first")
	if spawner.spawns != 1 {
		t.Errorf("watch consumes the one-shot, got %d spawns", spawner.spawns)
	}
}

func TestFileSinkSpawnFailureIsNonFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	spawner := &countingSpawner{err: errors.New("no terminal")}
	s := NewFileSink(path, spawner, logging.NullLogger)

	s.Write("first")
	s.Write("second")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	if !strings.Contains(string(data), "second") {
		t.Error("writes must continue after spawn failure")
	}
}

func TestFileSinkUnwritablePathDropsText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "deep", "out.txt")
	s := NewFileSink(path, &countingSpawner{}, logging.NullLogger)

	// Must not panic or return an error to the caller.
	s.Write("dropped")
}
