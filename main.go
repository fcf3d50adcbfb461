package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/quangloc99/scratch-run/internal/project"
	"github.com/quangloc99/scratch-run/internal/runner"
	"github.com/quangloc99/scratch-run/internal/vm"
)

var versionString = "Should be set when building, please use build.sh to build"

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "scratch-run <project>",
		Short:   "Run Scratch projects headless, with stdin and stdout as the console",
		Version: versionString,
		Args:    cobra.MaximumNArgs(1),

		// Errors are reported by main(), with usage only for usage errors
		SilenceUsage:  true,
		SilenceErrors: true,

		RunE: run,
	}

	rootCmd.Flags().Bool("check", false,
		"Validate the project file and exit without running it")
	rootCmd.Flags().Bool("interactive", false,
		"Answer asks as input lines arrive instead of buffering all input first")
	rootCmd.Flags().Bool("debug", false, "Print debug logs")
	rootCmd.Flags().Bool("trace", false, "Print trace logs")

	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	checkOnly, _ := cmd.Flags().GetBool("check")
	interactive, _ := cmd.Flags().GetBool("interactive")
	debug, _ := cmd.Flags().GetBool("debug")
	trace, _ := cmd.Flags().GetBool("trace")

	if trace {
		log.SetLevel(log.TraceLevel)
	} else if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if len(args) == 0 {
		return fmt.Errorf("missing project file argument")
	}
	filename := args[0]

	proj, err := project.Load(filename)
	if err != nil {
		return err
	}

	if checkOnly {
		// Load already validated the structure
		log.Debug("Project file checks out: ", filename)
		return nil
	}

	stdinIsTerminal := term.IsTerminal(int(os.Stdin.Fd()))

	return runner.Run(vm.NewInterpreter(), proj, runner.Options{
		Input:  os.Stdin,
		Output: os.Stdout,

		// A human typing can't be buffered to end-of-stream first
		Interactive: interactive || stdinIsTerminal,

		Turbo: true,
	})
}

func main() {
	log.SetOutput(os.Stderr)

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}
