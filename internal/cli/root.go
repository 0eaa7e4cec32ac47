// Package cli implements the cobra-based CLI commands for safecrate.
//
// Each subcommand (init, open, resume, remove, list) is defined in its own
// file within this package. This file defines the root command that serves
// as the parent for all subcommands and handles global flags.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/0xsecaas/safecrate/internal/model"
)

// Global flags, bound as persistent flags on the root command so every
// subcommand inherits them.
var (
	// jsonOutput switches command output from human-readable text to JSON.
	jsonOutput bool

	// verbose enables debug/trace output on stderr.
	verbose bool
)

// Version, Commit and Date are injected from main via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// NewRootCommand builds the root cobra command with all subcommands
// registered. The root itself only carries help text and the global flags.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "safecrate",
		Short: "Open and run untrusted code in isolated Docker containers",
		Long: `safecrate opens an untrusted source directory inside an isolated Docker
container built from a pre-baked toolchain+editor image, so browsing and
building someone else's code never runs on the host directly.

Each directory maps deterministically to one container (basename plus the
"_isolated" suffix), so open --keep-container, resume and remove always
address the same sandbox without any state file.

Note: container isolation is best-effort, not a security guarantee. For
truly hostile code, use a full virtual machine.`,

		// Errors are formatted by Execute (text or JSON per --json), so
		// cobra's own usage/error printing is suppressed.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewInitCommand())
	rootCmd.AddCommand(NewOpenCommand())
	rootCmd.AddCommand(NewResumeCommand())
	rootCmd.AddCommand(NewRemoveCommand())
	rootCmd.AddCommand(NewListCommand())

	return rootCmd
}

// Execute runs the root command and translates errors into process exit
// codes: a CLIError carries its own code, anything else exits 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		if cliErr, ok := err.(*model.CLIError); ok {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}
		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError writes an error to stderr in the active output format.
// stderr is used even in JSON mode; stdout is reserved for success output.
func printError(message string, underlying error) {
	if jsonOutput {
		errMap := map[string]interface{}{"message": message}
		if underlying != nil {
			errMap["detail"] = underlying.Error()
		}
		data, _ := json.MarshalIndent(map[string]interface{}{"error": errMap}, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}

// printJSON marshals v with indentation and writes it to stdout.
// Subcommands use this for their --json success output.
func printJSON(v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}
