// Package config implements layered settings for the safecrate CLI.
//
// Effective settings are resolved in precedence order:
//
//	built-in defaults
//	  < global config file  ($XDG_CONFIG_HOME/safecrate/config.yaml)
//	  < project file        (<dir>/.safecrate.json)
//	  < command-line flags  (applied by the cli package)
//
// The global file is YAML. The project file is JSONC (JSON with Comments),
// parsed via github.com/tidwall/jsonc, matching the common practice of
// commenting per-project tool configuration. Both files are optional; a
// missing file simply contributes nothing.
package config
