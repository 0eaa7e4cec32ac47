package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/0xsecaas/safecrate/internal/model"
)

const (
	// ImageName is the fixed tag of the base image built by `safecrate init`
	// and used for every `open` session.
	ImageName = "safecrate_default"

	// NameSuffix is appended to the project directory basename to form the
	// container name. The suffix marks safecrate containers as such in
	// plain `docker ps` output.
	NameSuffix = "isolated"

	// WorkspaceDir is the fixed in-container mount point for the project
	// directory. It is also used as the container's working directory.
	WorkspaceDir = "/workspace"
)

// CanonicalDir resolves dir to a canonical absolute path: symlinks, "." and
// ".." are all resolved, and the path must name an existing directory.
//
// Returns a CLIError with ExitInvalidPath when the directory does not exist,
// is not a directory, or cannot be resolved.
func CanonicalDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", model.WrapCLIError(model.ExitInvalidPath,
			fmt.Sprintf("invalid directory %q", dir), err)
	}

	// EvalSymlinks both resolves symlinks and verifies existence: it fails
	// with a *PathError when any path component is missing.
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", model.WrapCLIError(model.ExitInvalidPath,
			fmt.Sprintf("directory %q does not exist or cannot be resolved", dir), err)
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return "", model.WrapCLIError(model.ExitInvalidPath,
			fmt.Sprintf("cannot stat %q", canonical), err)
	}
	if !info.IsDir() {
		return "", model.NewCLIError(model.ExitInvalidPath,
			fmt.Sprintf("%q is not a directory", canonical))
	}

	return canonical, nil
}

// ContainerName derives the container name for a project directory:
// the canonicalized basename plus the fixed "_isolated" suffix.
//
// The derivation is deterministic — the same directory always produces the
// same name regardless of how the path was spelled on the command line.
// Basenames containing the suffix literal get no special treatment, and
// two distinct directories with the same basename intentionally map to the
// same container.
func ContainerName(dir string) (string, error) {
	canonical, err := CanonicalDir(dir)
	if err != nil {
		return "", err
	}
	return containerNameFor(canonical), nil
}

// containerNameFor computes the name from an already-canonical path.
// Split out from ContainerName so the pure derivation is testable without
// touching the filesystem.
func containerNameFor(canonical string) string {
	base := sanitizeName(filepath.Base(canonical))
	return base + "_" + NameSuffix
}

// sanitizeName reduces a directory basename to the character set Docker
// accepts for container names: [a-zA-Z0-9][a-zA-Z0-9_.-]*.
//
// Disallowed runes are dropped, leading non-alphanumerics are trimmed, and
// an empty result falls back to "project" so the derived name is always
// valid (a directory named "日本語" still gets a usable container).
func sanitizeName(base string) string {
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		}
	}

	// Docker requires the first character to be alphanumeric.
	name := strings.TrimLeft(b.String(), "-_.")
	if name == "" {
		name = "project"
	}
	return name
}
