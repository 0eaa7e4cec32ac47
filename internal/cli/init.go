// Package cli — init.go implements the "safecrate init" command.
//
// The init command builds the base image (safecrate_default) every later
// `open` session runs from. By default it uses the embedded Dockerfile
// template (Rust toolchain + Neovim); --dockerfile substitutes a custom
// one. The build itself is delegated to `docker build` as a subprocess so
// its progress output streams to the terminal unmodified.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0xsecaas/safecrate/internal/docker"
	"github.com/0xsecaas/safecrate/internal/image"
	"github.com/0xsecaas/safecrate/internal/sandbox"
)

// initFlags holds the flag values for the init command.
type initFlags struct {
	// dockerfile is an optional custom Dockerfile path overriding the
	// embedded template.
	dockerfile string
}

// NewInitCommand creates the "init" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Build the safecrate base image",
		Long: `Build the base image used for all open sessions.

Without flags, the bundled Dockerfile template (Rust toolchain + Neovim,
unprivileged user) is written to a temporary file and built. A custom
Dockerfile can be substituted with --dockerfile.

The image is tagged "safecrate_default" and the current working directory
is used as the build context.

Examples:
  safecrate init
  safecrate init --dockerfile ./Dockerfile.custom`,

		Args: cobra.NoArgs,

		// RunE is used instead of Run so we can return errors. Cobra will
		// pass them to the Execute error handler in root.go.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.dockerfile, "dockerfile", "",
		"Custom Dockerfile (overrides the bundled template)")

	return cmd
}

// runInit is the main logic function for the init command.
// It resolves the Dockerfile, invokes the engine's build operation, and
// prints the success banner with the standing security disclaimer.
func runInit(ctx context.Context, flags *initFlags) error {
	// Step 1: Resolve the Dockerfile to build from.
	dockerfilePath := flags.dockerfile
	if dockerfilePath == "" {
		path, err := image.Materialize()
		if err != nil {
			return err
		}
		dockerfilePath = path
		VerboseLog("Wrote bundled Dockerfile template to %s", dockerfilePath)
	} else {
		VerboseLog("Using custom Dockerfile %s", dockerfilePath)
	}

	// Step 2: Build the image. The current working directory is the build
	// context, matching what `docker build .` would do by hand.
	args := sandbox.BuildArgs(sandbox.ImageName, dockerfilePath, ".")
	VerboseLog("Running docker %v", args)

	// A failed build hard-fails the command: no image means open cannot
	// work, so pretending success would only defer the error.
	if err := docker.RunEngine(ctx, args, "Docker build failed"); err != nil {
		return err
	}

	// Step 3: Success banner plus the standing security disclaimer.
	printInitResult()
	return nil
}

// printInitResult outputs the init success banner. The disclaimer is part
// of the contract: isolation is best-effort, and users opening genuinely
// hostile code should reach for a full VM instead.
func printInitResult() {
	if IsJSONOutput() {
		printJSON(map[string]interface{}{
			"action": "init",
			"image":  sandbox.ImageName,
			"warning": "Running untrusted code in Docker is not 100% secure; " +
				"for maximum safety use a full virtual machine.",
		})
		return
	}

	fmt.Println()
	fmt.Printf("Built the base image %q\n", sandbox.ImageName)
	fmt.Println()
	fmt.Println("WARNING: Running untrusted code in Docker is NOT 100% secure.")
	fmt.Println("  Container escape is still possible. For maximum safety, run inside")
	fmt.Println("  a full VM (e.g., VMware, VirtualBox, QEMU).")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  safecrate open UNTRUSTED_CODE_DIR")
}
