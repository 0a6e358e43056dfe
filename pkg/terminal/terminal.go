package terminal

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-delve/liner"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/snapdump/snapdump/pkg/artifact"
	"github.com/snapdump/snapdump/pkg/config"
	"github.com/snapdump/snapdump/pkg/encoding"
	"github.com/snapdump/snapdump/pkg/export"
	"github.com/snapdump/snapdump/pkg/snapshot"
)

const historyFile string = ".snapdump_history"

const (
	defaultHexdumpPath = "/usr/bin/hexdump"
	defaultIconvPath   = "/usr/bin/iconv"
	defaultXmllintPath = "/usr/bin/xmllint"
)

// Term represents the terminal running snapdump.
type Term struct {
	conf     *config.Config
	ctx      *export.Context
	prompt   string
	line     *liner.State
	cmds     *Commands
	dumb     bool
	stdout   io.Writer
	InitFile string
}

// New returns a new Term.
func New(service snapshot.Service, conf *config.Config) *Term {
	cmds := DebugCommands(service)
	if conf != nil && conf.Aliases != nil {
		cmds.Merge(conf.Aliases)
	}

	if conf == nil {
		conf = &config.Config{}
	}

	var w io.Writer

	dumb := strings.ToLower(os.Getenv("TERM")) == "dumb"
	if dumb {
		w = os.Stdout
	} else {
		w = getColorableWriter()
	}

	return &Term{
		conf:   conf,
		ctx:    exportContext(conf),
		prompt: "(snapdump) ",
		line:   liner.NewLiner(),
		cmds:   cmds,
		dumb:   dumb,
		stdout: w,
	}
}

// exportContext builds the session context from the configuration file,
// filling in the defaults for everything left unset.
func exportContext(conf *config.Config) *export.Context {
	ctx := &export.Context{
		HexdumpPath:    conf.HexdumpPath,
		IconvPath:      conf.IconvPath,
		XmllintPath:    conf.XmllintPath,
		TargetEncoding: conf.TargetEncoding,
		TempDir:        conf.TempDir,
	}
	if ctx.HexdumpPath == "" {
		ctx.HexdumpPath = defaultHexdumpPath
	}
	if ctx.IconvPath == "" {
		ctx.IconvPath = defaultIconvPath
	}
	if ctx.XmllintPath == "" {
		ctx.XmllintPath = defaultXmllintPath
	}
	if ctx.TargetEncoding == "" {
		ctx.TargetEncoding = encoding.DefaultTargetEncoding()
	}
	return ctx
}

func getColorableWriter() io.Writer {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		return colorable.NewColorableStdout()
	}
	return os.Stdout
}

// Close returns the terminal to its previous mode.
func (t *Term) Close() {
	t.line.Close()
}

// sigSweep removes any artifacts still alive when the process is
// interrupted before normal releases could run.
func (t *Term) sigSweep(ch <-chan os.Signal) {
	for range ch {
		fmt.Println("interrupted")
		artifact.SweepAll()
		t.Close()
		os.Exit(1)
	}
}

// Run begins running snapdump in the terminal.
func (t *Term) Run() (int, error) {
	defer t.Close()

	// Sweep leftover artifacts if the process is terminated early.
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go t.sigSweep(ch)

	t.line.SetCompleter(t.complete)

	fullHistoryFile, err := config.GetConfigFilePath(historyFile)
	if err != nil {
		fmt.Printf("Unable to load history file: %v.", err)
	}

	f, err := os.Open(fullHistoryFile)
	if err != nil {
		f, err = os.Create(fullHistoryFile)
		if err != nil {
			fmt.Printf("Unable to open history file: %v. History will not be saved for this session.", err)
		}
	}
	if f != nil {
		t.line.ReadHistory(f)
		f.Close()
	}
	fmt.Println("Type 'help' for list of commands.")

	if t.InitFile != "" {
		err := t.cmds.executeFile(t, t.InitFile)
		if err != nil {
			if _, ok := err.(ExitRequestError); ok {
				return t.handleExit()
			}
			fmt.Fprintf(os.Stderr, "Error executing init file: %s\n", err)
		}
	}

	for {
		cmdstr, err := t.promptForInput()
		if err != nil {
			if err == io.EOF {
				fmt.Println("exit")
				return t.handleExit()
			}
			return 1, fmt.Errorf("prompt for input failed")
		}

		if err := t.cmds.Call(cmdstr, t); err != nil {
			if _, ok := err.(ExitRequestError); ok {
				return t.handleExit()
			}
			fmt.Fprintf(os.Stderr, "Command failed: %s\n", err)
		}
	}
}

// complete implements TAB completion: command names at the start of the
// line, #-tagged encoding aliases anywhere after.
func (t *Term) complete(line string) (c []string) {
	if i := strings.LastIndexAny(line, " \t"); i >= 0 {
		word := line[i+1:]
		if strings.HasPrefix(word, encoding.AliasMarker) {
			reg, err := t.ctx.Registry()
			if err != nil {
				return nil
			}
			head := line[:i+1]
			for _, alias := range reg.Completions(word[len(encoding.AliasMarker):]) {
				c = append(c, head+encoding.AliasMarker+alias)
			}
		}
		return
	}
	for _, cmd := range t.cmds.cmds {
		for _, alias := range cmd.aliases {
			if strings.HasPrefix(alias, strings.ToLower(line)) {
				c = append(c, alias)
			}
		}
	}
	return
}

func (t *Term) promptForInput() (string, error) {
	l, err := t.line.Prompt(t.prompt)
	if err != nil {
		return "", err
	}

	l = strings.TrimSuffix(l, "\n")
	if l != "" {
		t.line.AppendHistory(l)
	}

	return l, nil
}

func (t *Term) handleExit() (int, error) {
	fullHistoryFile, err := config.GetConfigFilePath(historyFile)
	if err != nil {
		fmt.Println("Error saving history file:", err)
	} else {
		if f, err := os.OpenFile(fullHistoryFile, os.O_RDWR, 0666); err == nil {
			_, err = t.line.WriteHistory(f)
			if err != nil {
				fmt.Println("readline history error:", err)
			}
			f.Close()
		}
	}

	artifact.SweepAll()
	return 0, nil
}
