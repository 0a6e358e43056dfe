package export

import (
	"io"
)

// Xmllint pipes the artifact through the external document validator. The
// tail is always composed into a single shell-style line: validator flags
// (pretty-print switches, schema URLs) are not safely tokenizable by plain
// whitespace splitting.
type Xmllint struct {
	Mode Mode
}

// ParseArguments implements Adapter.
func (a *Xmllint) ParseArguments(raw string) (selector, tail string) {
	return SplitMarker(raw, FlagMarker)
}

// Execute implements Adapter.
func (a *Xmllint) Execute(ctx *Context, path, tail string, out io.Writer) (bool, error) {
	line := ctx.XmllintPath
	if tail != "" {
		line += " " + tail
	}
	line += " " + path
	return true, runTool(Shell(line), out)
}

// Usage implements Adapter.
func (a *Xmllint) Usage() string {
	if a.Mode == MemoryMode {
		return "usage: xmllint memory START_ADDR END_ADDR [## FLAGS]"
	}
	return "usage: xmllint value EXPR [## FLAGS]"
}
