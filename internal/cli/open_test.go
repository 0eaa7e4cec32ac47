package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xsecaas/safecrate/internal/config"
	"github.com/0xsecaas/safecrate/internal/model"
)

// TestApplyOpenFlags_OnlyChangedFlagsOverride verifies the flag layer of
// the settings precedence: flags the user did not pass leave config file
// values alone, flags they did pass win.
func TestApplyOpenFlags_OnlyChangedFlagsOverride(t *testing.T) {
	// Arrange: settings as a project file might leave them.
	settings := config.Settings{
		Image:         "my-crate:pinned",
		Cmd:           "cargo build",
		KeepContainer: true,
		NoNetwork:     true,
		Publish:       []string{"8080:3000"},
	}

	// Simulate `safecrate open --cmd "ls"` — only --cmd was passed.
	cmd := NewOpenCommand()
	require.NoError(t, cmd.Flags().Set("cmd", "ls"))

	flags := &openFlags{cmd: "ls"}
	applyOpenFlags(&settings, flags, cmd)

	// The passed flag overrides; everything else is untouched.
	assert.Equal(t, "ls", settings.Cmd)
	assert.True(t, settings.KeepContainer)
	assert.True(t, settings.NoNetwork)
	assert.Equal(t, []string{"8080:3000"}, settings.Publish)
}

// TestApplyOpenFlags_ExplicitFalseOverrides verifies that an explicit
// --keep-container=false beats a true from the config layers.
func TestApplyOpenFlags_ExplicitFalseOverrides(t *testing.T) {
	settings := config.Settings{KeepContainer: true}

	cmd := NewOpenCommand()
	require.NoError(t, cmd.Flags().Set("keep-container", "false"))

	flags := &openFlags{keepContainer: false}
	applyOpenFlags(&settings, flags, cmd)

	assert.False(t, settings.KeepContainer)
}

// TestApplyOpenFlags_NothingPassed verifies config values survive a bare
// invocation.
func TestApplyOpenFlags_NothingPassed(t *testing.T) {
	settings := config.Settings{
		Cmd:       "cargo build",
		NoNetwork: true,
	}

	cmd := NewOpenCommand()
	flags := &openFlags{cmd: config.Defaults().Cmd}
	applyOpenFlags(&settings, flags, cmd)

	assert.Equal(t, "cargo build", settings.Cmd)
	assert.True(t, settings.NoNetwork)
}

// TestParsePublishSpecs verifies spec parsing and duplicate rejection.
func TestParsePublishSpecs(t *testing.T) {
	t.Run("empty input yields no bindings", func(t *testing.T) {
		bindings, err := parsePublishSpecs(nil)
		require.NoError(t, err)
		assert.Nil(t, bindings)
	})

	t.Run("valid specs parse in order", func(t *testing.T) {
		bindings, err := parsePublishSpecs([]string{"8080:3000", "5353:53/udp"})
		require.NoError(t, err)
		assert.Equal(t, []model.PortBinding{
			{HostPort: 8080, ContainerPort: 3000, Protocol: "tcp"},
			{HostPort: 5353, ContainerPort: 53, Protocol: "udp"},
		}, bindings)
	})

	t.Run("malformed spec fails with general error", func(t *testing.T) {
		_, err := parsePublishSpecs([]string{"not-a-port"})
		require.Error(t, err)

		var cliErr *model.CLIError
		require.True(t, errors.As(err, &cliErr))
		assert.Equal(t, model.ExitGeneralError, cliErr.Code)
	})

	t.Run("duplicate host port fails", func(t *testing.T) {
		_, err := parsePublishSpecs([]string{"8080:3000", "8080:4000"})
		assert.Error(t, err)
	})
}

// TestCheckPublishPorts_NoBindings verifies the no-op fast path: no
// publishes means no probing and no error.
func TestCheckPublishPorts_NoBindings(t *testing.T) {
	assert.NoError(t, checkPublishPorts(nil))
}
