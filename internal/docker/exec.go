package docker

import (
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/0xsecaas/safecrate/internal/model"
)

// engineBinary is the container engine executable invoked for streaming
// and interactive operations.
const engineBinary = "docker"

// RunEngine executes the docker binary with the given arguments, inheriting
// the caller's stdin/stdout/stderr. This is how the interactive operations
// (run, start -ai) hand the terminal to the in-container editor, and how
// build streams its progress output.
//
// The call blocks until the child process exits — for an interactive
// session that can be arbitrarily long. No timeout is applied and no signal
// handlers are installed: signal delivery and cleanup are the engine's
// responsibility.
//
// failureMsg is the user-facing context attached when the engine reports a
// non-zero exit status (ExitEngineFailure). A missing docker binary is
// reported separately as ExitDockerNotRunning.
func RunEngine(ctx context.Context, args []string, failureMsg string) error {
	cmd := exec.CommandContext(ctx, engineBinary, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	// exec.ErrNotFound means the docker binary itself is missing from PATH,
	// which deserves a clearer message than a generic command failure.
	if errors.Is(err, exec.ErrNotFound) {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			"docker binary not found — is Docker installed?",
			err,
		)
	}

	// Any other error is the engine reporting a non-zero exit status (the
	// engine has already written its own diagnostics to stderr, which the
	// user saw directly thanks to stream inheritance).
	return model.WrapCLIError(model.ExitEngineFailure, failureMsg, err)
}
