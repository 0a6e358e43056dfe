// Package cmds implements the snapdump command line interface.
package cmds

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/snapdump/snapdump/pkg/artifact"
	"github.com/snapdump/snapdump/pkg/config"
	"github.com/snapdump/snapdump/pkg/logflags"
	"github.com/snapdump/snapdump/pkg/snapshot"
	"github.com/snapdump/snapdump/pkg/terminal"
	"github.com/snapdump/snapdump/pkg/version"
)

var (
	// log is whether to log debug statements.
	log bool
	// logOutput is a comma separated list of components that should produce debug output.
	logOutput string
	// initFile is the path to initialization file.
	initFile string
	// gdbPath is the path of the gdb binary used to take snapshots.
	gdbPath string

	// rootCommand is the root of the command tree.
	rootCommand *cobra.Command

	conf *config.Config
)

const snapdumpCommandLongDesc = `Snapdump exports snapshots of in-process data from a live debugging session
and pipes them through external inspection tools.

Data is selected either as an evaluated expression (value export) or as a
start/end address pair (memory export), written to a transient file, and
handed to a byte dumper, a character-set converter or a document validator.
The tool's output is reported back verbatim and the file is removed.`

// New returns an initialized command tree.
func New() *cobra.Command {
	conf = config.LoadConfig()

	rootCommand = &cobra.Command{
		Use:   "snapdump",
		Short: "Snapdump pipes debugger data snapshots through external inspection tools.",
		Long:  snapdumpCommandLongDesc,
	}
	rootCommand.PersistentFlags().BoolVarP(&log, "log", "", false, "Enable debug logging.")
	rootCommand.PersistentFlags().StringVarP(&logOutput, "log-output", "", "", "Comma separated list of components that should produce debug output (export, registry, snapshot, tool).")
	rootCommand.PersistentFlags().StringVarP(&initFile, "init", "", "", "Init file, executed by the terminal client.")
	rootCommand.PersistentFlags().StringVarP(&gdbPath, "gdb", "", "/usr/bin/gdb", "Path of the gdb binary used to take snapshots.")

	// 'attach' subcommand.
	attachCommand := &cobra.Command{
		Use:   "attach pid",
		Short: "Attach to a running process and begin inspecting its data.",
		Long:  "Attach to a running process and begin inspecting its data.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("you must provide a PID")
			}
			return nil
		},
		Run: attachCmd,
	}
	rootCommand.AddCommand(attachCommand)

	// 'core' subcommand.
	coreCommand := &cobra.Command{
		Use:   "core <executable> <core>",
		Short: "Inspect data from a program's core dump.",
		Long:  "Inspect data from a program's core dump.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("you must provide a core file and an executable")
			}
			return nil
		},
		Run: coreCmd,
	}
	rootCommand.AddCommand(coreCommand)

	// 'version' subcommand.
	versionCommand := &cobra.Command{
		Use:   "version",
		Short: "Prints version.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Snapdump Debugger Export Tool\n%s\n", version.SnapdumpVersion)
		},
	}
	rootCommand.AddCommand(versionCommand)

	return rootCommand
}

func attachCmd(cmd *cobra.Command, args []string) {
	pid, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid pid: %s\n", args[0])
		os.Exit(1)
	}
	os.Exit(execute(&snapshot.GDB{Path: gdbPath, PID: pid}))
}

func coreCmd(cmd *cobra.Command, args []string) {
	os.Exit(execute(&snapshot.GDB{Path: gdbPath, Executable: args[0], Core: args[1]}))
}

func execute(service snapshot.Service) int {
	if err := logflags.Setup(log, logOutput); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	// Whatever happens inside the terminal, leaked artifacts are removed.
	defer artifact.SweepAll()

	term := terminal.New(service, conf)
	term.InitFile = initFile

	status, err := term.Run()
	if err != nil {
		fmt.Println(err)
	}
	return status
}
