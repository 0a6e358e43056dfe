package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/snapdump/snapdump/pkg/encoding"
)

// Iconv probes the artifact with one converter run per requested encoding
// alias, converting from the requested encoding to the session's target
// encoding. A decode failure for one alias does not stop the probing of the
// others.
type Iconv struct {
	Mode Mode
}

// ParseArguments implements Adapter.
func (a *Iconv) ParseArguments(raw string) (selector, tail string) {
	return SplitAliasPattern(raw)
}

// Execute implements Adapter.
func (a *Iconv) Execute(ctx *Context, path, tail string, out io.Writer) (bool, error) {
	reg, err := ctx.Registry()
	if err != nil {
		return false, err
	}

	type probe struct {
		alias     string
		canonical string
	}
	var probes []probe
	width := 0
	for _, token := range strings.Fields(tail) {
		alias := strings.TrimPrefix(token, encoding.AliasMarker)
		canonical, ok := reg.Resolve(alias)
		if !ok {
			// Unresolved aliases are reported and skipped, the siblings
			// are still probed.
			fmt.Fprintf(out, "unknown encoding: %s\n", alias)
			continue
		}
		if len(alias) > width {
			width = len(alias)
		}
		probes = append(probes, probe{alias, canonical})
	}
	if len(probes) == 0 {
		return false, nil
	}

	for _, p := range probes {
		stdout, stderr, err := Exec(ctx.IconvPath, "-t", ctx.TargetEncoding, "-f", p.canonical, path).capture()
		if err != nil {
			return false, err
		}
		fmt.Fprintf(out, "%*s: |%s|\n", width, p.alias, stdout)
		if len(stderr) > 0 {
			fmt.Fprintf(out, "\t%s\n", formatToolError(string(stderr)))
		}
	}
	return true, nil
}

// Usage implements Adapter.
func (a *Iconv) Usage() string {
	if a.Mode == MemoryMode {
		return "usage: iconv memory START_ADDR END_ADDR #ENCODING..."
	}
	return "usage: iconv value EXPR #ENCODING..."
}

// formatToolError reduces a converter diagnostic to its first line with the
// leading "tool-name:" prefix stripped.
func formatToolError(msg string) string {
	if i := strings.IndexByte(msg, '\n'); i > 0 {
		msg = msg[:i]
	}
	if i := strings.IndexByte(msg, ':'); i >= 0 {
		msg = msg[i+1:]
	}
	return strings.TrimSpace(msg)
}
