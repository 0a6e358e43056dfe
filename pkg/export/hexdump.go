package export

import (
	"io"
	"strings"
)

// Hexdump pipes the artifact through the external byte-dump tool. Without a
// tool-argument tail it asks for the canonical hex+ASCII display; with a
// tail the tail's tokens are inserted between the tool name and the
// artifact path.
type Hexdump struct {
	Mode Mode
}

// ParseArguments implements Adapter.
func (a *Hexdump) ParseArguments(raw string) (selector, tail string) {
	return SplitMarker(raw, FlagMarker)
}

// Execute implements Adapter.
func (a *Hexdump) Execute(ctx *Context, path, tail string, out io.Writer) (bool, error) {
	var inv Invocation
	switch {
	case tail == "":
		inv = Exec(ctx.HexdumpPath, "-C", path)
	case strings.ContainsAny(tail, `'"\$`):
		// The flags use quoting, compose them as a shell-style line.
		inv = Shell(ctx.HexdumpPath + " " + tail + " " + path)
	default:
		args := append([]string{ctx.HexdumpPath}, strings.Fields(tail)...)
		inv = Exec(append(args, path)...)
	}
	return true, runTool(inv, out)
}

// Usage implements Adapter.
func (a *Hexdump) Usage() string {
	if a.Mode == MemoryMode {
		return "usage: hexdump memory START_ADDR END_ADDR [## FLAGS]"
	}
	return "usage: hexdump value EXPR [## FLAGS]"
}
