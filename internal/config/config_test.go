package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaults verifies the built-in settings layer.
func TestDefaults(t *testing.T) {
	s := Defaults()

	assert.Equal(t, "safecrate_default", s.Image)
	assert.Equal(t, "nvim .", s.Cmd)
	assert.False(t, s.KeepContainer)
	assert.False(t, s.NoNetwork)
	assert.Empty(t, s.Publish)
}

// TestApplyGlobalFile verifies that the YAML global layer overrides only
// the fields it sets.
func TestApplyGlobalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
image: my-crate:latest
keep_container: true
publish:
  - "8080:3000"
`), 0o644))

	settings := Defaults()
	require.NoError(t, applyGlobalFile(&settings, path))

	assert.Equal(t, "my-crate:latest", settings.Image)
	assert.True(t, settings.KeepContainer)
	assert.Equal(t, []string{"8080:3000"}, settings.Publish)
	// Untouched fields keep their defaults.
	assert.Equal(t, "nvim .", settings.Cmd)
	assert.False(t, settings.NoNetwork)
}

// TestApplyGlobalFile_Missing verifies a missing global file contributes
// nothing and raises no error.
func TestApplyGlobalFile_Missing(t *testing.T) {
	settings := Defaults()
	err := applyGlobalFile(&settings, filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, Defaults(), settings)
}

// TestApplyGlobalFile_Malformed verifies invalid YAML is an error rather
// than a silent fallback to defaults.
func TestApplyGlobalFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("image: [unclosed"), 0o644))

	settings := Defaults()
	assert.Error(t, applyGlobalFile(&settings, path))
}

// TestApplyProjectFile verifies the JSONC project layer, including
// comments and trailing commas.
func TestApplyProjectFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProjectFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{
  // this project builds untrusted PRs, never give it network access
  "noNetwork": true,
  "cmd": "cargo build", // overrides the editor default
}`), 0o644))

	settings := Defaults()
	require.NoError(t, applyProjectFile(&settings, path))

	assert.True(t, settings.NoNetwork)
	assert.Equal(t, "cargo build", settings.Cmd)
	assert.Equal(t, "safecrate_default", settings.Image)
}

// TestApplyProjectFile_ExplicitFalse verifies that an explicit false in
// the project file overrides a true from a lower layer — the pointer
// fields must distinguish "unset" from "false".
func TestApplyProjectFile_ExplicitFalse(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProjectFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"keepContainer": false}`), 0o644))

	settings := Defaults()
	settings.KeepContainer = true // pretend the global layer set it

	require.NoError(t, applyProjectFile(&settings, path))
	assert.False(t, settings.KeepContainer)
}

// TestApplyProjectFile_ClearsPublish verifies that an explicit empty
// publish array clears inherited specs rather than being ignored.
func TestApplyProjectFile_ClearsPublish(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProjectFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"publish": []}`), 0o644))

	settings := Defaults()
	settings.Publish = []string{"8080:3000"}

	require.NoError(t, applyProjectFile(&settings, path))
	assert.Empty(t, settings.Publish)
}

// TestApplyProjectFile_Malformed verifies broken JSONC is an error.
func TestApplyProjectFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProjectFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"cmd": `), 0o644))

	settings := Defaults()
	assert.Error(t, applyProjectFile(&settings, path))
}

// TestLoad_ProjectOverridesDefaults verifies the end-to-end layering for
// a project directory carrying a settings file.
func TestLoad_ProjectOverridesDefaults(t *testing.T) {
	// Point the user config dir at an empty temp dir so a developer's real
	// global config cannot leak into the test (effective on Linux; the
	// file simply won't exist elsewhere either).
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFileName), []byte(`{
  "image": "my-crate:pinned",
  "publish": ["9090:9090/tcp"]
}`), 0o644))

	settings, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "my-crate:pinned", settings.Image)
	assert.Equal(t, []string{"9090:9090/tcp"}, settings.Publish)
	assert.Equal(t, "nvim .", settings.Cmd)
}

// TestLoad_NoFiles verifies defaults survive when neither layer exists.
func TestLoad_NoFiles(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	settings, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Defaults().Image, settings.Image)
	assert.Equal(t, Defaults().Cmd, settings.Cmd)
}
