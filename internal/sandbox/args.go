package sandbox

import (
	"github.com/0xsecaas/safecrate/internal/model"
)

// RunArgs constructs the full argument list for the engine's "run"
// invocation from a Session. The returned slice starts with "run" (the
// caller prepends the engine binary) and ends with the in-container shell
// command, matching:
//
//	run -it [--rm] --name <name> --network <bridge|none>
//	    [--label k=v]... [-p host:container/proto]...
//	    -v <dir>:/workspace -w /workspace <image> sh -c <cmd>
//
// Flag semantics:
//   - Session.Interactive: adds -it so the user's terminal drives the
//     in-container process (editor sessions). The CLI clears it when
//     stdin is not a terminal, e.g. when open is scripted.
//   - Session.KeepContainer: omits --rm, so the container survives exit
//     and can later be addressed by resume/remove.
//   - Session.NoNetwork: selects --network none. The network flag is
//     always emitted explicitly; relying on the engine default would make
//     the isolation behavior depend on daemon configuration.
//
// Labels are supplied by the caller (they only make sense for kept
// containers, which are the ones discovered later by list and resume).
// Map iteration order is randomized in Go, so the caller passes labels as
// a pre-sorted slice of "key=value" strings to keep the argv deterministic.
func RunArgs(sess *model.Session, labels []string) []string {
	args := []string{"run"}

	if sess.Interactive {
		args = append(args, "-it")
	}
	if !sess.KeepContainer {
		args = append(args, "--rm")
	}
	args = append(args, "--name", sess.ContainerName)

	// Always pin the network mode. "none" disables networking entirely;
	// "bridge" is the engine's standard NAT network.
	if sess.NoNetwork {
		args = append(args, "--network", "none")
	} else {
		args = append(args, "--network", "bridge")
	}

	for _, l := range labels {
		args = append(args, "--label", l)
	}

	for i := range sess.Publishes {
		args = append(args, "-p", sess.Publishes[i].String())
	}

	args = append(args, "-v", sess.Dir+":"+WorkspaceDir)
	args = append(args, "-w", WorkspaceDir)
	args = append(args, sess.Image)
	args = append(args, "sh", "-c", sess.Command)

	return args
}

// StartArgs constructs the argument list for resuming a kept container:
// "start -a -i <name>". The -a flag attaches the caller's stdout/stderr
// to the container, -i forwards stdin, so the resumed editor session is
// fully interactive again.
func StartArgs(containerName string) []string {
	return []string{"start", "-ai", containerName}
}

// BuildArgs constructs the argument list for building the base image:
// "build -t <image> -f <dockerfile> <contextDir>".
func BuildArgs(image, dockerfile, contextDir string) []string {
	return []string{"build", "-t", image, "-f", dockerfile, contextDir}
}
