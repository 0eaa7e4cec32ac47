package docker

import (
	"context"
	"fmt"
	"net"
	"os"
	"runtime"
	"time"

	"github.com/docker/docker/client"

	"github.com/0xsecaas/safecrate/internal/model"
)

// pingTimeout bounds the daemon liveness check in NewClient. Docker Desktop
// on macOS can take a couple of seconds to answer the first request.
const pingTimeout = 5 * time.Second

// Client wraps the Docker Engine SDK client used for queries and removal.
// Interactive and streaming operations go through RunEngine instead.
type Client struct {
	inner *client.Client
}

// NewClient connects to the Docker daemon and verifies it is responding.
//
// The connection string comes from DOCKER_HOST when set; otherwise the
// platform's known socket locations are probed. A missing socket and an
// unresponsive daemon both surface as ExitDockerNotRunning, so callers get
// one failure mode for "Docker is not available" regardless of cause.
func NewClient(ctx context.Context) (*Client, error) {
	host := os.Getenv("DOCKER_HOST")
	if host == "" {
		detected, err := resolveHost()
		if err != nil {
			return nil, model.WrapCLIError(model.ExitDockerNotRunning, "Docker socket not found", err)
		}
		host = detected
	}

	inner, err := client.NewClientWithOpts(
		client.WithHost(host),
		// Negotiate the API version instead of pinning one, so the same
		// binary works against old and new daemons.
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to create Docker client for host %q", host),
			err,
		)
	}

	c := &Client{inner: inner}
	if err := c.ping(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// resolveHost probes the platform's known Docker socket locations and
// returns the connection string for the first one present. Probing is a
// cheap existence check; actual liveness is verified by the ping that
// follows in NewClient.
func resolveHost() (string, error) {
	if runtime.GOOS == "windows" {
		// Named pipes don't stat, so probe with a short dial.
		pipePath := `//./pipe/docker_engine`
		conn, err := net.DialTimeout("pipe", pipePath, time.Second)
		if err != nil {
			return "", fmt.Errorf("Docker named pipe not found at %s: %w", pipePath, err)
		}
		conn.Close()
		return "npipe://" + pipePath, nil
	}

	candidates := []string{"/var/run/docker.sock"}
	if runtime.GOOS == "darwin" {
		// Newer Docker Desktop versions only create the per-user socket.
		if home, err := os.UserHomeDir(); err == nil {
			candidates = append(candidates, home+"/.docker/run/docker.sock")
		}
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return "unix://" + path, nil
		}
	}
	return "", fmt.Errorf("Docker socket not found at any of %v — is Docker running?", candidates)
}

// ping verifies the daemon answers within pingTimeout.
func (c *Client) ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if _, err := c.inner.Ping(pingCtx); err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			"Docker daemon is not responding — is Docker running?",
			err,
		)
	}
	return nil
}

// Close releases the SDK client's resources. Safe to call more than once.
func (c *Client) Close() error {
	if c.inner != nil {
		return c.inner.Close()
	}
	return nil
}

// Inner exposes the underlying SDK client for container queries.
func (c *Client) Inner() *client.Client {
	return c.inner
}
