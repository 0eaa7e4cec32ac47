// Package cli — open.go implements the "safecrate open" command.
//
// The open command is the primary user-facing operation. It mounts the
// target directory at /workspace inside a fresh container of the base
// image and hands the terminal to the in-container command (an editor by
// default).
//
// Orchestration steps:
//  1. Canonicalize the directory and derive the container name
//  2. Resolve layered settings (defaults < global < project < flags)
//  3. Parse and validate --publish bindings, probe host ports
//  4. Construct the engine's run invocation
//  5. Execute interactively, inheriting the terminal's streams
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/0xsecaas/safecrate/internal/config"
	"github.com/0xsecaas/safecrate/internal/docker"
	"github.com/0xsecaas/safecrate/internal/model"
	"github.com/0xsecaas/safecrate/internal/port"
	"github.com/0xsecaas/safecrate/internal/sandbox"
)

// openFlags holds the flag values for the open command.
// These are bound to cobra flags in NewOpenCommand.
type openFlags struct {
	cmd           string   // --cmd: shell command to run inside the container
	keepContainer bool     // --keep-container: don't remove the container on exit
	noNetwork     bool     // --no-network: disable container networking
	publish       []string // --publish: host:container[/proto] port bindings
}

// NewOpenCommand creates the "open" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewOpenCommand() *cobra.Command {
	flags := &openFlags{}

	cmd := &cobra.Command{
		Use:   "open <dir>",
		Short: "Open a directory in an isolated container",
		Long: `Open a directory inside an isolated container of the base image.

The directory is bind-mounted at /workspace and the given command (an
editor by default) runs there with the terminal attached. The container
is removed on exit unless --keep-container is set, in which case it can
later be reattached with "safecrate resume" and cleaned up with
"safecrate remove".

Defaults for --cmd, --keep-container, --no-network and --publish can be
set in the global config file or a per-project .safecrate.json.

Examples:
  safecrate open ~/src/untrusted-pr
  safecrate open --cmd "cargo build" ~/src/untrusted-pr
  safecrate open --keep-container --no-network ~/src/untrusted-pr
  safecrate open --publish 8080:3000 ~/src/webapp`,

		// Args validates that exactly one positional argument (the
		// directory) is provided.
		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpen(cmd.Context(), args[0], flags, cmd)
		},
	}

	// Register command-specific flags. The --cmd default shown in help is
	// the built-in one; config files may override it.
	cmd.Flags().StringVar(&flags.cmd, "cmd", config.Defaults().Cmd,
		"Command to run inside the container")
	cmd.Flags().BoolVar(&flags.keepContainer, "keep-container", false,
		"Do not remove the container after exit")
	cmd.Flags().BoolVar(&flags.noNetwork, "no-network", false,
		"Disable network access inside the container")
	cmd.Flags().StringArrayVar(&flags.publish, "publish", nil,
		"Publish a container port to the host (host:container[/proto], repeatable)")

	return cmd
}

// runOpen is the main orchestration function for the open command.
func runOpen(ctx context.Context, dir string, flags *openFlags, cmd *cobra.Command) error {
	// Step 1: Canonicalize the directory; everything downstream (name,
	// mount, labels) works on the resolved path.
	canonicalDir, err := sandbox.CanonicalDir(dir)
	if err != nil {
		return err
	}
	VerboseLog("Project directory: %s", canonicalDir)

	containerName, err := sandbox.ContainerName(canonicalDir)
	if err != nil {
		return err
	}
	VerboseLog("Container name: %s", containerName)

	// Step 2: Resolve layered settings, then apply only the flags the
	// user actually passed on top (cobra's Changed distinguishes an
	// explicit --keep-container=false from the flag being absent).
	settings, err := config.Load(canonicalDir)
	if err != nil {
		return err
	}
	applyOpenFlags(&settings, flags, cmd)
	VerboseLog("Effective settings: image=%s cmd=%q keep=%v no-network=%v publish=%v",
		settings.Image, settings.Cmd, settings.KeepContainer, settings.NoNetwork, settings.Publish)

	// Step 3: Parse and validate the publish specs.
	publishes, err := parsePublishSpecs(settings.Publish)
	if err != nil {
		return err
	}

	// Probe the host ports up front so a taken port fails with a clear
	// message instead of a docker error mid-startup.
	if err := checkPublishPorts(publishes); err != nil {
		return err
	}

	// Step 4: Assemble the session and the engine invocation.
	sess := &model.Session{
		Dir:           canonicalDir,
		ContainerName: containerName,
		Image:         settings.Image,
		Command:       settings.Cmd,
		Interactive:   stdinIsTerminal(),
		KeepContainer: settings.KeepContainer,
		NoNetwork:     settings.NoNetwork,
		Publishes:     publishes,
		CreatedAt:     time.Now().UTC(),
	}

	// Labels are only worth writing on kept containers: auto-removed ones
	// are gone before list or resume could ever read them.
	var labelArgs []string
	if sess.KeepContainer {
		labelArgs = docker.SortedLabelArgs(docker.BuildLabels(sess))
	}

	args := sandbox.RunArgs(sess, labelArgs)
	VerboseLog("Running docker %v", args)

	// Step 5: Execute, inheriting the terminal's streams so the editor
	// session is fully interactive. Blocks until the container exits.
	if err := docker.RunEngine(ctx, args, fmt.Sprintf("failed to open container %q", containerName)); err != nil {
		return err
	}

	if sess.KeepContainer {
		printOpenResult(sess)
	}
	return nil
}

// applyOpenFlags overrides settings with the flags the user explicitly
// passed. Flags left at their defaults do not override config file values.
func applyOpenFlags(settings *config.Settings, flags *openFlags, cmd *cobra.Command) {
	if cmd.Flags().Changed("cmd") {
		settings.Cmd = flags.cmd
	}
	if cmd.Flags().Changed("keep-container") {
		settings.KeepContainer = flags.keepContainer
	}
	if cmd.Flags().Changed("no-network") {
		settings.NoNetwork = flags.noNetwork
	}
	if cmd.Flags().Changed("publish") {
		settings.Publish = flags.publish
	}
}

// parsePublishSpecs converts raw host:container[/proto] strings into
// validated PortBindings, rejecting duplicates within the session.
func parsePublishSpecs(specs []string) ([]model.PortBinding, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	bindings := make([]model.PortBinding, 0, len(specs))
	for _, spec := range specs {
		b, err := model.ParsePortBinding(spec)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitGeneralError, "invalid --publish flag", err)
		}
		bindings = append(bindings, b)
	}

	if err := model.ValidatePortBindings(bindings); err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "invalid --publish flags", err)
	}
	return bindings, nil
}

// checkPublishPorts verifies every requested host port can currently be
// bound, returning ExitPortConflict naming the busy ports otherwise.
func checkPublishPorts(bindings []model.PortBinding) error {
	if len(bindings) == 0 {
		return nil
	}

	ports := make([]int, len(bindings))
	protocols := make([]string, len(bindings))
	for i, b := range bindings {
		ports[i] = b.HostPort
		protocols[i] = b.Protocol
	}

	scanner := port.NewScanner()
	if busy := scanner.UnavailablePorts(ports, protocols); len(busy) > 0 {
		return model.NewCLIError(model.ExitPortConflict,
			fmt.Sprintf("host port(s) already in use: %v", busy))
	}
	return nil
}

// stdinIsTerminal reports whether stdin is attached to a terminal.
// When it is not (open invoked from a script or pipe), the engine
// invocation drops -it so docker does not refuse with "the input device
// is not a TTY".
func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// printOpenResult reports the kept container after the session ends, so
// the user knows what to resume or remove later. Sessions without
// --keep-container print nothing: the container is already gone.
func printOpenResult(sess *model.Session) {
	if IsJSONOutput() {
		printJSON(map[string]interface{}{
			"action":    "opened",
			"dir":       sess.Dir,
			"container": sess.ContainerName,
			"kept":      true,
		})
		return
	}

	fmt.Printf("Container %q kept.\n", sess.ContainerName)
	fmt.Printf("  Resume with: safecrate resume %s\n", sess.Dir)
	fmt.Printf("  Remove with: safecrate remove %s\n", sess.Dir)
}
