// Package cli — remove.go implements the "safecrate remove" command.
//
// The remove command deletes the kept container associated with a
// directory. Without --force, removing a running container surfaces the
// engine's own refusal; with --force, the engine kills the container
// first.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0xsecaas/safecrate/internal/docker"
	"github.com/0xsecaas/safecrate/internal/sandbox"
)

// removeFlags holds the flag values for the remove command.
type removeFlags struct {
	// force removes the container even if it is currently running.
	force bool
}

// NewRemoveCommand creates the "remove" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewRemoveCommand() *cobra.Command {
	flags := &removeFlags{}

	cmd := &cobra.Command{
		Use:   "remove <dir>",
		Short: "Remove the container kept for a directory",
		Long: `Remove the container previously created for a directory.

The container name is derived from the directory exactly as "open"
derives it. A running container is only removed with --force.

Examples:
  safecrate remove ~/src/untrusted-pr
  safecrate remove --force ~/src/untrusted-pr`,

		// Exactly one positional argument (the directory) is required.
		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false,
		"Remove the container even if it is running")

	return cmd
}

// runRemove is the main logic function for the remove command.
func runRemove(ctx context.Context, dir string, flags *removeFlags) error {
	// Step 1: Derive the container name from the canonical path.
	containerName, err := sandbox.ContainerName(dir)
	if err != nil {
		return err
	}
	VerboseLog("Container name: %s", containerName)

	// Step 2: Remove via the SDK. Docker accepts the name directly, so no
	// lookup round-trip is needed; a missing container surfaces as the
	// engine's own "No such container" failure.
	cli, err := docker.NewClient(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	if err := docker.RemoveContainer(ctx, cli, containerName, flags.force); err != nil {
		return err
	}

	// Step 3: Confirmation naming the removed container.
	printRemoveResult(containerName)
	return nil
}

// printRemoveResult outputs the remove confirmation in text or JSON format.
func printRemoveResult(containerName string) {
	if IsJSONOutput() {
		printJSON(map[string]interface{}{
			"action":    "removed",
			"container": containerName,
		})
		return
	}

	fmt.Printf("Removed container %q\n", containerName)
}
