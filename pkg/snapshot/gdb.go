package snapshot

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/snapdump/snapdump/pkg/logflags"
)

// GDB implements Service by running a gdb batch session against a live
// process or a core file for every snapshot request.
type GDB struct {
	// Path to the gdb binary.
	Path string
	// PID of the process to attach to. If zero Executable (and optionally
	// Core) are used instead.
	PID int
	// Executable is the path of the debuggee binary.
	Executable string
	// Core is the path of a core file, examined together with Executable.
	Core string
}

// DumpValue implements Service.
func (g *GDB) DumpValue(path, expr string) error {
	return g.dump(fmt.Sprintf("dump binary value %s %s", path, expr))
}

// DumpMemory implements Service.
func (g *GDB) DumpMemory(path, start, end string) error {
	return g.dump(fmt.Sprintf("dump binary memory %s %s %s", path, start, end))
}

func (g *GDB) dump(dumpcmd string) error {
	args := g.batchArgs(dumpcmd)
	logflags.SnapshotLogger().Debugf("executing %s %s", g.Path, strings.Join(args, " "))
	cmd := exec.Command(g.Path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		if diag := gdbDiagnostic(stderr.String()); diag != "" {
			return fmt.Errorf("%s", diag)
		}
		return fmt.Errorf("gdb: %v", err)
	}
	// gdb --batch exits 0 even when the dump command itself failed, the
	// only evidence is the diagnostic on stderr.
	if diag := gdbDiagnostic(stderr.String()); diag != "" {
		return fmt.Errorf("%s", diag)
	}
	return nil
}

func (g *GDB) batchArgs(dumpcmd string) []string {
	args := []string{"--batch", "-nx", "-q"}
	if g.PID != 0 {
		args = append(args, "-p", strconv.Itoa(g.PID))
	} else {
		args = append(args, g.Executable)
		if g.Core != "" {
			args = append(args, g.Core)
		}
	}
	return append(args, "-ex", dumpcmd)
}

// gdbDiagnostic extracts the first error-looking line from gdb's stderr.
// Attach/detach chatter is ignored.
func gdbDiagnostic(stderr string) string {
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "warning:") {
			continue
		}
		if strings.HasPrefix(line, "[") { // e.g. [Inferior 1 detached]
			continue
		}
		return line
	}
	return ""
}
