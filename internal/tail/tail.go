// Package tail follows an append-only transcript file, emitting appended
// content as it arrives. It backs the companion viewer process.
package tail

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/luadbg/internal/logging"
)

// pollInterval backs up fsnotify on filesystems that drop events.
const pollInterval = 500 * time.Millisecond

// Follower streams appended file content to a writer.
type Follower struct {
	path string
	out  io.Writer
	log  *logging.Logger

	// FromStart replays existing content before following; the default
	// starts at the current end of file.
	FromStart bool
}

// NewFollower creates a follower for path writing to out.
func NewFollower(path string, out io.Writer, log *logging.Logger) *Follower {
	if log == nil {
		log = logging.NullLogger
	}
	return &Follower{
		path: path,
		out:  out,
		log:  log.WithComponent("tail"),
	}
}

// Run follows the file until ctx is cancelled. The file may not exist yet;
// the follower waits for it to appear. Truncation restarts from the top.
func (f *Follower) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: the file itself may not exist yet, and append
	// events arrive for the parent on some platforms.
	dir := filepath.Dir(f.path)
	if err := watcher.Add(dir); err != nil {
		return err
	}

	var offset int64
	if !f.FromStart {
		if info, err := os.Stat(f.path); err == nil {
			offset = info.Size()
		}
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	// Emit anything already past the starting offset.
	offset = f.drain(offset)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != f.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				offset = f.drain(offset)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.log.Debug("watch error: %v", err)
		case <-ticker.C:
			offset = f.drain(offset)
		}
	}
}

// drain copies bytes from offset to EOF and returns the new offset. A
// shrunken file restarts from the beginning.
func (f *Follower) drain(offset int64) int64 {
	file, err := os.Open(f.path)
	if err != nil {
		return offset
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return offset
	}
	if info.Size() < offset {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset
	}

	n, err := io.Copy(f.out, file)
	if err != nil {
		f.log.Debug("copy error: %v", err)
	}
	return offset + n
}
