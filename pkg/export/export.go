// Package export implements the data-export pipeline: it captures a
// snapshot of debuggee data into a transient artifact, hands the artifact
// to an external inspection tool and reports the tool's output back to the
// operator.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/snapdump/snapdump/pkg/artifact"
	"github.com/snapdump/snapdump/pkg/encoding"
	"github.com/snapdump/snapdump/pkg/logflags"
	"github.com/snapdump/snapdump/pkg/snapshot"
)

// Mode selects what kind of snapshot a command exports.
type Mode int

const (
	// ValueMode exports the value of a single evaluated expression.
	ValueMode Mode = iota
	// MemoryMode exports a start/end address range.
	MemoryMode
)

// Context carries the session state threaded through the dispatcher and the
// adapters: tool paths and the current default target encoding. It is owned
// by the terminal and mutated only between command invocations.
type Context struct {
	HexdumpPath string
	IconvPath   string
	XmllintPath string

	// TargetEncoding is the encoding the converter translates snapshots to.
	TargetEncoding string

	// TempDir is where artifacts are created; empty means the system
	// temporary directory.
	TempDir string
}

// Registry returns the encoding alias registry, loading it from the
// converter on first use. A failed load is permanent.
func (ctx *Context) Registry() (*encoding.Registry, error) {
	return encoding.Load(ctx.IconvPath)
}

// Adapter is one external-tool strategy plugged into a Command.
type Adapter interface {
	// ParseArguments splits the raw command line into the snapshot selector
	// and the tool-argument tail. Both are trimmed; the tail is forwarded
	// to Execute verbatim.
	ParseArguments(raw string) (selector, tail string)
	// Execute runs the tool over the populated artifact at path, writing
	// the report to out. It returns false if it produced no actionable
	// output, in which case the dispatcher prints the usage text.
	Execute(ctx *Context, path, tail string, out io.Writer) (bool, error)
	// Usage returns the usage line for this command form.
	Usage() string
}

// Command exports one snapshot per invocation and pipes it through its
// adapter's tool.
type Command struct {
	Mode    Mode
	Adapter Adapter
	Service snapshot.Service
}

// Run executes one command invocation: acquire an artifact, partition the
// arguments, snapshot the selected data, run the tool, report, release.
// The artifact is released on every exit path.
func (c *Command) Run(ctx *Context, raw string, out io.Writer) error {
	h, err := artifact.Acquire(ctx.TempDir)
	if err != nil {
		return err
	}
	defer h.Release()

	selector, tail := c.Adapter.ParseArguments(raw)
	logflags.ExportLogger().Debugf("selector: %q, tail: %q", selector, tail)

	if c.Mode == MemoryMode && len(strings.Fields(selector)) != 2 {
		return &UsageError{Usage: c.Adapter.Usage()}
	}

	if err := c.dump(selector, h.Path()); err != nil {
		return &SnapshotError{Err: err}
	}

	ok, err := c.Adapter.Execute(ctx, h.Path(), tail, out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(out, c.Adapter.Usage())
	}
	return nil
}

func (c *Command) dump(selector, path string) error {
	switch c.Mode {
	case MemoryMode:
		f := strings.Fields(selector)
		return c.Service.DumpMemory(path, f[0], f[1])
	default:
		return c.Service.DumpValue(path, selector)
	}
}
