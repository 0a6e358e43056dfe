package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/cosiner/argv"

	"github.com/snapdump/snapdump/pkg/logflags"
)

// Invocation describes one external tool run. Direct-exec invocations carry
// discrete argument tokens; shell-composed invocations carry a single
// command line that is split with shell quoting rules before execution.
type Invocation struct {
	args  []string
	shell string
}

// Exec returns a direct-exec invocation.
func Exec(args ...string) Invocation {
	return Invocation{args: args}
}

// Shell returns a shell-composed invocation.
func Shell(cmdline string) Invocation {
	return Invocation{shell: cmdline}
}

// Argv returns the discrete argument tokens of the invocation, tokenizing
// shell-composed command lines with shell quoting rules.
func (inv Invocation) Argv() ([]string, error) {
	if inv.shell == "" {
		return inv.args, nil
	}
	v, err := argv.Argv(inv.shell,
		func(s string) (string, error) {
			return "", fmt.Errorf("backtick not supported in '%s'", s)
		},
		nil)
	if err != nil {
		return nil, err
	}
	if len(v) != 1 {
		return nil, fmt.Errorf("illegal tool command line '%s'", inv.shell)
	}
	return v[0], nil
}

// capture runs the tool synchronously and collects its stdout and stderr
// fully in memory. A non-zero exit status is not an error: tools emit
// diagnostics on stderr even on partial success. Only a failure to start
// the subprocess is reported, as a ToolLaunchError.
func (inv Invocation) capture() (stdout, stderr []byte, err error) {
	args, err := inv.Argv()
	if err != nil {
		return nil, nil, &ToolLaunchError{Err: err}
	}
	if len(args) == 0 {
		return nil, nil, &ToolLaunchError{Err: errors.New("empty tool command line")}
	}
	logflags.ToolLogger().Debugf("cmd: %q", args)
	cmd := exec.Command(args[0], args[1:]...)
	var outbuf, errbuf bytes.Buffer
	cmd.Stdout = &outbuf
	cmd.Stderr = &errbuf
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, nil, &ToolLaunchError{Tool: args[0], Err: err}
		}
	}
	logflags.ToolLogger().Debugf("exit status: %d", cmd.ProcessState.ExitCode())
	return outbuf.Bytes(), errbuf.Bytes(), nil
}

// runTool runs inv and writes its stdout verbatim to out, appending stderr
// if non-empty.
func runTool(inv Invocation, out io.Writer) error {
	stdout, stderr, err := inv.capture()
	if err != nil {
		return err
	}
	out.Write(stdout)
	if len(stderr) > 0 {
		out.Write(stderr)
	}
	return nil
}
