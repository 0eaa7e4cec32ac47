// Package cli — resume.go implements the "safecrate resume" command.
//
// Resume reattaches to a container previously created with
// `open --keep-container`. The existence check runs first, through the
// Docker SDK: if no container with the derived name exists, the command
// fails with guidance and the engine's start operation is never invoked.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0xsecaas/safecrate/internal/docker"
	"github.com/0xsecaas/safecrate/internal/model"
	"github.com/0xsecaas/safecrate/internal/sandbox"
)

// NewResumeCommand creates the "resume" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewResumeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resume <dir>",
		Short: "Reattach to a previously kept container",
		Long: `Start and attach to the container previously created for a directory.

The container name is derived from the directory exactly as "open" derives
it, so resume finds the container without any state file. The session's
filesystem and installed tooling are preserved across resumes.

Fails if the directory was never opened with --keep-container.

Examples:
  safecrate resume ~/src/untrusted-pr`,

		// Exactly one positional argument (the directory) is required.
		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runResume(cmd.Context(), args[0])
		},
	}

	return cmd
}

// runResume is the main logic function for the resume command.
func runResume(ctx context.Context, dir string) error {
	// Step 1: Derive the container name from the canonical path — the
	// same pure derivation open used when keeping the container.
	containerName, err := sandbox.ContainerName(dir)
	if err != nil {
		return err
	}
	VerboseLog("Container name: %s", containerName)

	// Step 2: Existence check via the SDK before touching the engine's
	// start operation. FindContainerByName post-filters for an exact
	// match, so a different project with a similar name never resumes.
	cli, err := docker.NewClient(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	info, err := docker.FindContainerByName(ctx, cli, containerName)
	if err != nil {
		return err
	}
	if info == nil {
		return model.NewCLIError(model.ExitNoContainer,
			fmt.Sprintf("no existing container to resume for this directory — run `safecrate open %s --keep-container` first", dir))
	}
	VerboseLog("Found container %s (%s, %s)", info.ContainerName, shortID(info.ContainerID), info.State)

	// Step 3: Start and attach interactively, inheriting the terminal's
	// streams. Blocks until the container exits again.
	args := sandbox.StartArgs(containerName)
	VerboseLog("Running docker %v", args)
	return docker.RunEngine(ctx, args,
		fmt.Sprintf("failed to resume container %q", containerName))
}

// shortID truncates a container ID for log output, tolerating the short
// IDs some engine versions report.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
