package image

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/0xsecaas/safecrate/internal/model"
)

// defaultTemplate is the bundled Dockerfile for the safecrate base image.
// go:embed compiles the file into the binary, so init works without any
// installation step or data directory.
//
//go:embed Dockerfile.template
var defaultTemplate []byte

// materializedName is the filename used when writing the embedded template
// out for `docker build -f`.
const materializedName = "Dockerfile.safecrate"

// DefaultTemplate returns the bundled Dockerfile content.
func DefaultTemplate() []byte {
	return defaultTemplate
}

// Materialize writes the embedded default template to a fixed path in the
// system temp directory and returns that path for use as the -f argument
// of `docker build`.
//
// The file is overwritten on every call. Reusing a fixed name (rather than
// os.CreateTemp) keeps repeated init runs from littering the temp dir,
// and the content is identical for a given binary anyway.
func Materialize() (string, error) {
	path := filepath.Join(os.TempDir(), materializedName)
	if err := os.WriteFile(path, defaultTemplate, 0o644); err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError,
			"failed to write temporary Dockerfile", err)
	}
	return path, nil
}
