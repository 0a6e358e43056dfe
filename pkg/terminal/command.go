// Package terminal implements functions for responding to user
// input and dispatching to the appropriate export commands.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/snapdump/snapdump/pkg/config"
	"github.com/snapdump/snapdump/pkg/export"
	"github.com/snapdump/snapdump/pkg/snapshot"
)

type cmdfunc func(t *Term, args string) error

type command struct {
	aliases        []string
	builtinAliases []string
	helpMsg        string
	cmdFn          cmdfunc
}

// Returns true if the command string matches one of the aliases for this command
func (c command) match(cmdstr string) bool {
	for _, v := range c.aliases {
		if v == cmdstr {
			return true
		}
	}
	return false
}

// Commands represents the commands for the snapdump terminal process.
type Commands struct {
	cmds    []command
	service snapshot.Service
}

// DebugCommands returns a Commands struct with default commands defined.
func DebugCommands(service snapshot.Service) *Commands {
	c := &Commands{service: service}

	c.cmds = []command{
		{aliases: []string{"help", "h"}, cmdFn: c.help, helpMsg: `Prints the help message.

	help [command]

Type "help" followed by the name of a command for more information about it.`},
		{aliases: []string{"hexdump", "hd"}, cmdFn: c.hexdump, helpMsg: `Exports data and pipes it through the byte-dump tool.

	hexdump value <expr> [## <flags>]
	hexdump memory <start> <end> [## <flags>]

Without flags the canonical hex+ASCII display is requested. Everything after
the ## marker is handed to the tool, between the tool name and the exported
file.`},
		{aliases: []string{"iconv"}, cmdFn: c.iconv, helpMsg: `Exports data and probes it with the character-set converter.

	iconv value <expr> #<encoding>...
	iconv memory <start> <end> #<encoding>...
	iconv encoding [<encoding>]

Each requested #-tagged encoding is tried in turn, converting the exported
bytes from it to the current target encoding. Decoding failures are reported
per encoding and do not stop the remaining probes.

The third form prints the current target encoding, or changes it when an
argument is given. Use TAB to complete #-tagged encoding names.`},
		{aliases: []string{"xmllint", "xml"}, cmdFn: c.xmllint, helpMsg: `Exports data and pipes it through the document validator.

	xmllint value <expr> [## <flags>]
	xmllint memory <start> <end> [## <flags>]

Everything after the ## marker is handed to the validator verbatim, so
flags like --format or --schema <url> work as they do on a shell.`},
		{aliases: []string{"config"}, cmdFn: configureCmd, helpMsg: `Changes configuration parameters.

	config -list

Show all configuration parameters.

	config -save

Saves the configuration file to disk, overwriting the current configuration file.

	config <parameter> <value>

Changes the value of a configuration parameter. Valid parameters:
hexdump-path, iconv-path, xmllint-path, target-encoding, temp-dir.`},
		{aliases: []string{"source"}, cmdFn: c.sourceCommand, helpMsg: `Executes a file containing a list of snapdump commands.

	source <path>`},
		{aliases: []string{"exit", "quit", "q"}, cmdFn: exitCommand, helpMsg: "Exit snapdump."},
	}

	return c
}

// Find will look up the command function for the given command input.
// If it cannot find the command it will default to noCmdAvailable().
func (c *Commands) Find(cmdstr string) cmdfunc {
	if cmdstr == "" {
		return nullCommand
	}

	for _, v := range c.cmds {
		if v.match(cmdstr) {
			return v.cmdFn
		}
	}

	return noCmdAvailable
}

// Call takes a command to execute.
func (c *Commands) Call(cmdstr string, t *Term) (err error) {
	defer func() {
		if p := recover(); p != nil {
			// Report, then let the top level handler log the fault.
			fmt.Fprintln(os.Stderr, "error: an exception occurred during execution")
			panic(p)
		}
	}()
	vals := strings.SplitN(strings.TrimSpace(cmdstr), " ", 2)
	cmdname := vals[0]
	var args string
	if len(vals) > 1 {
		args = strings.TrimSpace(vals[1])
	}
	return c.Find(cmdname)(t, args)
}

// Merge takes aliases defined in the config struct and merges them with the default aliases.
func (c *Commands) Merge(allAliases map[string][]string) {
	for i := range c.cmds {
		if c.cmds[i].builtinAliases != nil {
			c.cmds[i].aliases = append(c.cmds[i].aliases[:0], c.cmds[i].builtinAliases...)
		}
	}
	for i := range c.cmds {
		if aliases, ok := allAliases[c.cmds[i].aliases[0]]; ok {
			if c.cmds[i].builtinAliases == nil {
				c.cmds[i].builtinAliases = make([]string, len(c.cmds[i].aliases))
				copy(c.cmds[i].builtinAliases, c.cmds[i].aliases)
			}
			c.cmds[i].aliases = append(c.cmds[i].aliases, aliases...)
		}
	}
}

var errNoCmd = errors.New("command not available")

func noCmdAvailable(t *Term, args string) error {
	return errNoCmd
}

func nullCommand(t *Term, args string) error {
	return nil
}

func (c *Commands) help(t *Term, args string) error {
	if args != "" {
		for _, cmd := range c.cmds {
			if cmd.match(args) {
				fmt.Fprintln(t.stdout, cmd.helpMsg)
				return nil
			}
		}
		return errNoCmd
	}

	fmt.Fprintln(t.stdout, "The following commands are available:")
	w := new(tabwriter.Writer)
	w.Init(t.stdout, 0, 8, 0, '-', 0)
	for _, cmd := range c.cmds {
		h := cmd.helpMsg
		if idx := strings.Index(h, "\n"); idx >= 0 {
			h = h[:idx]
		}
		if len(cmd.aliases) > 1 {
			fmt.Fprintf(w, "    %s (alias: %s) \t %s\n", cmd.aliases[0], strings.Join(cmd.aliases[1:], " | "), h)
		} else {
			fmt.Fprintf(w, "    %s \t %s\n", cmd.aliases[0], h)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(t.stdout, "Type help followed by a command for full documentation.")
	return nil
}

func (c *Commands) hexdump(t *Term, args string) error {
	sub, rest := export.SplitFirstToken(args)
	switch sub {
	case "value":
		return c.runExport(t, export.ValueMode, &export.Hexdump{Mode: export.ValueMode}, rest)
	case "memory":
		return c.runExport(t, export.MemoryMode, &export.Hexdump{Mode: export.MemoryMode}, rest)
	}
	return &export.UsageError{Usage: "usage: hexdump (value|memory) ..."}
}

func (c *Commands) iconv(t *Term, args string) error {
	sub, rest := export.SplitFirstToken(args)
	switch sub {
	case "value":
		return c.runExport(t, export.ValueMode, &export.Iconv{Mode: export.ValueMode}, rest)
	case "memory":
		return c.runExport(t, export.MemoryMode, &export.Iconv{Mode: export.MemoryMode}, rest)
	case "encoding":
		return c.iconvEncoding(t, rest)
	}
	return &export.UsageError{Usage: "usage: iconv (value|memory|encoding) ..."}
}

func (c *Commands) xmllint(t *Term, args string) error {
	sub, rest := export.SplitFirstToken(args)
	switch sub {
	case "value":
		return c.runExport(t, export.ValueMode, &export.Xmllint{Mode: export.ValueMode}, rest)
	case "memory":
		return c.runExport(t, export.MemoryMode, &export.Xmllint{Mode: export.MemoryMode}, rest)
	}
	return &export.UsageError{Usage: "usage: xmllint (value|memory) ..."}
}

func (c *Commands) runExport(t *Term, mode export.Mode, adapter export.Adapter, args string) error {
	cmd := &export.Command{Mode: mode, Adapter: adapter, Service: c.service}
	return cmd.Run(t.ctx, args, t.stdout)
}

// iconvEncoding prints or changes the target encoding of the converter.
func (c *Commands) iconvEncoding(t *Term, args string) error {
	args = strings.TrimSpace(args)
	if args == "" {
		fmt.Fprintln(t.stdout, t.ctx.TargetEncoding)
		return nil
	}
	reg, err := t.ctx.Registry()
	if err != nil {
		return err
	}
	canonical, ok := reg.Resolve(args)
	if !ok {
		if !reg.Validate(args) {
			return fmt.Errorf("unknown encoding: %s", args)
		}
		canonical = args
	}
	t.ctx.TargetEncoding = canonical
	t.conf.TargetEncoding = canonical
	return nil
}

func configureCmd(t *Term, args string) error {
	switch {
	case args == "-list" || args == "":
		return configureList(t)
	case args == "-save":
		return config.SaveConfig(t.conf)
	default:
		v := config.SplitQuotedFields(args, '\'')
		if len(v) != 2 {
			return errors.New("wrong number of arguments to \"config\"")
		}
		return configureSet(t, v[0], v[1])
	}
}

func configureList(t *Term) error {
	w := new(tabwriter.Writer)
	w.Init(t.stdout, 0, 8, 1, ' ', 0)
	fmt.Fprintf(w, "hexdump-path\t%s\n", t.ctx.HexdumpPath)
	fmt.Fprintf(w, "iconv-path\t%s\n", t.ctx.IconvPath)
	fmt.Fprintf(w, "xmllint-path\t%s\n", t.ctx.XmllintPath)
	fmt.Fprintf(w, "target-encoding\t%s\n", t.ctx.TargetEncoding)
	fmt.Fprintf(w, "temp-dir\t%s\n", t.ctx.TempDir)
	return w.Flush()
}

func configureSet(t *Term, name, value string) error {
	switch name {
	case "hexdump-path":
		t.conf.HexdumpPath = value
		t.ctx.HexdumpPath = value
	case "iconv-path":
		t.conf.IconvPath = value
		t.ctx.IconvPath = value
	case "xmllint-path":
		t.conf.XmllintPath = value
		t.ctx.XmllintPath = value
	case "target-encoding":
		return t.cmds.iconvEncoding(t, value)
	case "temp-dir":
		t.conf.TempDir = value
		t.ctx.TempDir = value
	default:
		return fmt.Errorf("unknown configuration parameter %q", name)
	}
	return nil
}

func (c *Commands) sourceCommand(t *Term, args string) error {
	if len(args) == 0 {
		return errors.New("wrong number of arguments: source <filename>")
	}
	return c.executeFile(t, args)
}

func (c *Commands) executeFile(t *Term, name string) error {
	fh, err := os.Open(name)
	if err != nil {
		return err
	}
	defer fh.Close()

	scanner := bufio.NewScanner(fh)
	lineno := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lineno++

		if line == "" || line[0] == '#' {
			continue
		}

		if err := c.Call(line, t); err != nil {
			if _, isExitRequest := err.(ExitRequestError); isExitRequest {
				return err
			}
			fmt.Fprintf(os.Stderr, "%s:%d: %v\n", name, lineno, err)
		}
	}

	return scanner.Err()
}

// ExitRequestError is returned when the user exits snapdump.
type ExitRequestError struct{}

func (ere ExitRequestError) Error() string {
	return ""
}

func exitCommand(t *Term, args string) error {
	return ExitRequestError{}
}
