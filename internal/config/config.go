package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/0xsecaas/safecrate/internal/model"
	"github.com/0xsecaas/safecrate/internal/sandbox"
)

// ProjectFileName is the per-project settings file looked up in the
// directory being opened.
const ProjectFileName = ".safecrate.json"

// globalFileName is the global settings file under the user config dir.
const globalFileName = "config.yaml"

// Settings holds the effective configuration for an open session after
// all layers have been merged. Zero values are never ambiguous here
// because Defaults() fills every field before merging starts.
type Settings struct {
	// Image is the base image tag used for open sessions.
	Image string

	// Cmd is the shell command run inside the container.
	Cmd string

	// KeepContainer preserves the container after exit.
	KeepContainer bool

	// NoNetwork disables container networking.
	NoNetwork bool

	// Publish holds raw "host:container[/proto]" specs, parsed and
	// validated by the cli layer via model.ParsePortBinding.
	Publish []string
}

// Defaults returns the built-in settings layer: the fixed base image and
// an editor opened on the workspace, everything else off.
func Defaults() Settings {
	return Settings{
		Image: sandbox.ImageName,
		Cmd:   "nvim .",
	}
}

// fileSettings mirrors Settings with pointer fields so that "not set in
// this file" is distinguishable from an explicit false/empty. The same
// struct deserializes both layers: yaml tags for the global file, json
// tags for the project file.
type fileSettings struct {
	Image         *string  `yaml:"image,omitempty" json:"image,omitempty"`
	Cmd           *string  `yaml:"cmd,omitempty" json:"cmd,omitempty"`
	KeepContainer *bool    `yaml:"keep_container,omitempty" json:"keepContainer,omitempty"`
	NoNetwork     *bool    `yaml:"no_network,omitempty" json:"noNetwork,omitempty"`
	Publish       []string `yaml:"publish,omitempty" json:"publish,omitempty"`
}

// merge applies the file layer on top of s. Only fields present in the
// file override; publish specs replace the lower layer wholesale rather
// than appending, so a project file can also clear inherited publishes
// with an empty array (an explicit empty list decodes as a non-nil
// empty slice in both YAML and JSON).
func (s *Settings) merge(f *fileSettings) {
	if f.Image != nil {
		s.Image = *f.Image
	}
	if f.Cmd != nil {
		s.Cmd = *f.Cmd
	}
	if f.KeepContainer != nil {
		s.KeepContainer = *f.KeepContainer
	}
	if f.NoNetwork != nil {
		s.NoNetwork = *f.NoNetwork
	}
	if f.Publish != nil {
		s.Publish = f.Publish
	}
}

// Load resolves the effective settings for a project directory by merging
// the global file (if any) and the project file (if any) over the
// defaults. Flag overrides happen later in the cli layer, which knows
// which flags the user actually passed.
func Load(projectDir string) (Settings, error) {
	settings := Defaults()

	globalPath, err := GlobalPath()
	if err == nil {
		if err := applyGlobalFile(&settings, globalPath); err != nil {
			return Settings{}, err
		}
	}

	if err := applyProjectFile(&settings, filepath.Join(projectDir, ProjectFileName)); err != nil {
		return Settings{}, err
	}

	return settings, nil
}

// GlobalPath returns the location of the global config file:
// <user-config-dir>/safecrate/config.yaml.
func GlobalPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "safecrate", globalFileName), nil
}

// applyGlobalFile merges the YAML global file at path into settings.
// A missing file is not an error; an unreadable or malformed one is.
func applyGlobalFile(settings *Settings, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return model.WrapCLIError(model.ExitConfigInvalid,
			fmt.Sprintf("failed to read global config %s", path), err)
	}

	var f fileSettings
	if err := yaml.Unmarshal(data, &f); err != nil {
		return model.WrapCLIError(model.ExitConfigInvalid,
			fmt.Sprintf("invalid YAML in %s", path), err)
	}

	settings.merge(&f)
	return nil
}

// applyProjectFile merges the JSONC project file at path into settings.
// A missing file is not an error; an unreadable or malformed one is.
//
// The file is translated from JSONC to plain JSON before unmarshalling,
// so // and /* */ comments as well as trailing commas are accepted.
func applyProjectFile(settings *Settings, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return model.WrapCLIError(model.ExitConfigInvalid,
			fmt.Sprintf("failed to read project config %s", path), err)
	}

	var f fileSettings
	if err := json.Unmarshal(jsonc.ToJSON(data), &f); err != nil {
		return model.WrapCLIError(model.ExitConfigInvalid,
			fmt.Sprintf("invalid JSONC in %s", path), err)
	}

	settings.merge(&f)
	return nil
}
