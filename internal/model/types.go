package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SessionStatus represents the lifecycle state of a sandbox container as
// reported by the container engine. The state transitions are:
//
//	[absent] → created (open --keep-container) → stopped ⇄ running → [removed]
//
// safecrate never tracks these transitions itself — every status value is
// read back from Docker at the moment a command runs.
type SessionStatus string

const (
	// StatusRunning indicates the sandbox container is currently running.
	StatusRunning SessionStatus = "running"

	// StatusStopped indicates the sandbox container exists but is not
	// running. Its filesystem and installed tooling are preserved, which
	// is what makes `safecrate resume` useful.
	StatusStopped SessionStatus = "stopped"
)

// String returns the string representation of SessionStatus.
// This method satisfies the fmt.Stringer interface.
func (s SessionStatus) String() string {
	return string(s)
}

// IsValid checks whether the SessionStatus value is one of the
// predefined valid states.
func (s SessionStatus) IsValid() bool {
	switch s {
	case StatusRunning, StatusStopped:
		return true
	default:
		return false
	}
}

// ParseSessionStatus converts a string to a SessionStatus.
// Returns an error if the string does not match any valid status.
func ParseSessionStatus(s string) (SessionStatus, error) {
	status := SessionStatus(strings.ToLower(s))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid session status: %q (valid: running, stopped)", s)
	}
	return status, nil
}

// Session represents one sandbox session — an untrusted project directory
// paired with the container that opens it. This is the primary aggregate
// entity in the domain.
//
// A Session only outlives the `open` invocation that created it when the
// container was kept (--keep-container). Kept containers carry the full
// Session encoded as Docker labels, so `list` and `resume` can reconstruct
// this struct from container inspection alone.
type Session struct {
	// Dir is the canonicalized absolute path of the project directory
	// mounted into the container.
	Dir string `json:"dir"`

	// ContainerName is the engine-side name derived from Dir. It is a pure
	// function of the canonical path: the same directory always maps to
	// the same container.
	ContainerName string `json:"containerName"`

	// Image is the base image the container was created from.
	Image string `json:"image"`

	// Command is the shell command executed inside the container
	// (default: open the editor on the workspace).
	Command string `json:"command"`

	// Status is the engine-reported lifecycle state. Only meaningful for
	// sessions reconstructed from existing containers.
	Status SessionStatus `json:"status,omitempty"`

	// Interactive records whether the session drives a terminal: when set,
	// the engine invocation allocates a TTY and forwards stdin (-it).
	// Determined by the CLI from whether stdin is a terminal.
	Interactive bool `json:"interactive"`

	// KeepContainer records whether the container survives exit.
	KeepContainer bool `json:"keepContainer"`

	// NoNetwork records whether the container was started without
	// network access.
	NoNetwork bool `json:"noNetwork"`

	// Publishes holds host-to-container port bindings requested via
	// --publish. Empty for the common editor-only session.
	Publishes []PortBinding `json:"publishes,omitempty"`

	// CreatedAt is the timestamp when the session was created.
	CreatedAt time.Time `json:"createdAt"`
}

// PortBinding represents a single host-to-container port mapping requested
// for a sandbox session via the --publish flag.
type PortBinding struct {
	// HostPort is the port number on the host machine (1-65535).
	HostPort int `json:"hostPort"`

	// ContainerPort is the port number inside the container (1-65535).
	ContainerPort int `json:"containerPort"`

	// Protocol is the network protocol for the binding.
	// Defaults to "tcp". Also supports "udp".
	Protocol string `json:"protocol"`
}

// ParsePortBinding parses a --publish flag value of the form
// "host:container" or "host:container/proto" into a PortBinding.
//
// The accepted grammar deliberately mirrors the docker CLI's -p flag for
// the subset safecrate supports: no IP binding, no port ranges.
func ParsePortBinding(s string) (PortBinding, error) {
	spec := s
	proto := "tcp"

	// Split off an optional "/proto" suffix first.
	if idx := strings.IndexByte(spec, '/'); idx >= 0 {
		proto = strings.ToLower(spec[idx+1:])
		spec = spec[:idx]
	}

	parts := strings.Split(spec, ":")
	if len(parts) != 2 {
		return PortBinding{}, fmt.Errorf("invalid publish spec %q: expected host:container[/proto]", s)
	}

	hostPort, err := strconv.Atoi(parts[0])
	if err != nil {
		return PortBinding{}, fmt.Errorf("invalid publish spec %q: host port %q is not a number", s, parts[0])
	}
	containerPort, err := strconv.Atoi(parts[1])
	if err != nil {
		return PortBinding{}, fmt.Errorf("invalid publish spec %q: container port %q is not a number", s, parts[1])
	}

	b := PortBinding{HostPort: hostPort, ContainerPort: containerPort, Protocol: proto}
	if err := b.Validate(); err != nil {
		return PortBinding{}, fmt.Errorf("invalid publish spec %q: %w", s, err)
	}
	return b, nil
}

// Validate checks whether the PortBinding has valid field values.
// It verifies port number ranges and protocol values.
func (b *PortBinding) Validate() error {
	if b.HostPort < 1 || b.HostPort > 65535 {
		return fmt.Errorf("host port %d out of range (1-65535)", b.HostPort)
	}
	if b.ContainerPort < 1 || b.ContainerPort > 65535 {
		return fmt.Errorf("container port %d out of range (1-65535)", b.ContainerPort)
	}
	if b.Protocol == "" {
		b.Protocol = "tcp"
	}
	if b.Protocol != "tcp" && b.Protocol != "udp" {
		return fmt.Errorf("invalid protocol %q (valid: tcp, udp)", b.Protocol)
	}
	return nil
}

// String returns the binding formatted the way docker's -p flag expects it:
// "hostPort:containerPort/protocol".
func (b *PortBinding) String() string {
	proto := b.Protocol
	if proto == "" {
		proto = "tcp"
	}
	return fmt.Sprintf("%d:%d/%s", b.HostPort, b.ContainerPort, proto)
}

// ValidatePortBindings checks a slice of PortBindings for individual
// validity and host-port uniqueness within the same session.
func ValidatePortBindings(bindings []PortBinding) error {
	// Track seen host ports to detect duplicates within the same session.
	// Key: "hostPort/protocol".
	seen := make(map[string]bool)

	for i := range bindings {
		if err := bindings[i].Validate(); err != nil {
			return err
		}

		// Different protocols on the same port are allowed
		// (e.g., 3000/tcp and 3000/udp).
		key := fmt.Sprintf("%d/%s", bindings[i].HostPort, bindings[i].Protocol)
		if seen[key] {
			return fmt.Errorf("host port %s is published twice", key)
		}
		seen[key] = true
	}
	return nil
}

// ContainerInfo holds runtime information about a Docker container.
// This data is fetched dynamically from the Docker API, not persisted.
type ContainerInfo struct {
	// ContainerID is the unique Docker container identifier.
	ContainerID string `json:"containerId"`

	// ContainerName is the human-readable Docker container name
	// (without the leading "/" the Docker API reports).
	ContainerName string `json:"containerName"`

	// State is the engine-reported state string (e.g., "running", "exited").
	State string `json:"state"`

	// Labels is the full set of Docker labels on the container,
	// including the safecrate.* session labels.
	Labels map[string]string `json:"labels,omitempty"`
}

// Status maps the engine's state string onto the session lifecycle:
// "running" stays running, everything else (created, exited, paused, dead)
// counts as stopped for resume purposes.
func (c *ContainerInfo) Status() SessionStatus {
	if c.State == "running" {
		return StatusRunning
	}
	return StatusStopped
}

// ExitCode defines standard CLI exit codes. These codes allow scripts and
// CI systems to programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitInvalidPath indicates the target directory does not exist or
	// could not be canonicalized.
	ExitInvalidPath ExitCode = 2

	// ExitDockerNotRunning indicates the Docker daemon is not accessible
	// or the docker binary is not installed.
	ExitDockerNotRunning ExitCode = 3

	// ExitEngineFailure indicates a docker command was invoked but
	// reported a non-zero exit status.
	ExitEngineFailure ExitCode = 4

	// ExitNoContainer indicates no kept container exists for the target
	// directory (resume without a prior `open --keep-container`).
	ExitNoContainer ExitCode = 5

	// ExitConfigInvalid indicates a configuration file could not be
	// parsed or contained invalid values.
	ExitConfigInvalid ExitCode = 6

	// ExitPortConflict indicates a requested --publish host port is
	// already in use on the host.
	ExitPortConflict ExitCode = 7
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
