// Package artifact manages the transient files that hold data snapshots
// while an external inspection tool reads them.
//
// Every file created through Acquire is recorded in a process-wide live set
// until it is released, so that SweepAll can remove anything left behind by
// an early process termination.
package artifact

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/snapdump/snapdump/pkg/logflags"
)

const filePrefix = "snapdump-"

var liveMu sync.Mutex
var liveSet = make(map[string]bool)

// Handle owns exactly one transient file. It is not shared between
// concurrent exports; each command invocation acquires its own.
type Handle struct {
	path string
}

// Path returns the path of the transient file.
func (h *Handle) Path() string {
	return h.path
}

// Acquire creates a new unique empty file in dir and registers it in the
// live set. If dir is empty the system temporary directory is used.
func Acquire(dir string) (*Handle, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	for {
		name := filepath.Join(dir, filePrefix+suffix())
		f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err != nil {
			if os.IsExist(err) {
				// Somebody holds this timestamp already, take a fresh one.
				continue
			}
			return nil, err
		}
		f.Close()
		liveMu.Lock()
		liveSet[name] = true
		liveMu.Unlock()
		logflags.ExportLogger().Debugf("acquired artifact %s", name)
		return &Handle{path: name}, nil
	}
}

// suffix encodes the current high-resolution timestamp into a
// filesystem-safe alphabet.
func suffix() string {
	return strconv.FormatInt(time.Now().UnixNano(), 36)
}

// Release deletes the file and removes it from the live set. Releasing a
// handle whose file is already gone is not an error, and releasing twice is
// harmless.
func (h *Handle) Release() {
	if h == nil || h.path == "" {
		return
	}
	unlink(h.path)
	h.path = ""
}

func unlink(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logflags.ExportLogger().Errorf("could not remove artifact %s: %v", path, err)
	}
	liveMu.Lock()
	delete(liveSet, path)
	liveMu.Unlock()
}

// SweepAll removes every file still registered in the live set. It is meant
// to run when the process terminates early, before normal releases had a
// chance to happen.
func SweepAll() {
	liveMu.Lock()
	paths := make([]string, 0, len(liveSet))
	for path := range liveSet {
		paths = append(paths, path)
	}
	liveMu.Unlock()
	for _, path := range paths {
		unlink(path)
	}
}

// LiveCount returns the number of artifacts currently registered in the
// live set.
func LiveCount() int {
	liveMu.Lock()
	defer liveMu.Unlock()
	return len(liveSet)
}
