package port

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIsPortAvailable_FreePort verifies that a port just released by a
// closed listener reports as available.
func TestIsPortAvailable_FreePort(t *testing.T) {
	// Arrange: grab an ephemeral port from the OS, then release it.
	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	p := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	scanner := NewScanner()

	// Act + Assert: the released port should be available again.
	assert.True(t, scanner.IsPortAvailable(p, "tcp"))
}

// TestIsPortAvailable_BusyPort verifies that a port held by a live
// listener reports as unavailable.
func TestIsPortAvailable_BusyPort(t *testing.T) {
	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer func() { _ = listener.Close() }()
	p := listener.Addr().(*net.TCPAddr).Port

	scanner := NewScanner()

	assert.False(t, scanner.IsPortAvailable(p, "tcp"))
}

// TestIsPortAvailable_UDP verifies the UDP probe path.
func TestIsPortAvailable_UDP(t *testing.T) {
	conn, err := net.ListenPacket("udp", ":0")
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	p := conn.LocalAddr().(*net.UDPAddr).Port

	scanner := NewScanner()

	assert.False(t, scanner.IsPortAvailable(p, "udp"),
		"a bound UDP port should report unavailable")
}

// TestIsPortAvailable_UnknownProtocol verifies the fail-safe for
// unrecognized protocols.
func TestIsPortAvailable_UnknownProtocol(t *testing.T) {
	scanner := NewScanner()
	assert.False(t, scanner.IsPortAvailable(8080, "sctp"))
}

// TestUnavailablePorts verifies that only the busy subset is reported.
func TestUnavailablePorts(t *testing.T) {
	// One busy port, one free port.
	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer func() { _ = listener.Close() }()
	busy := listener.Addr().(*net.TCPAddr).Port

	free, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	freePort := free.Addr().(*net.TCPAddr).Port
	require.NoError(t, free.Close())

	scanner := NewScanner()
	used := scanner.UnavailablePorts(
		[]int{busy, freePort},
		[]string{"tcp", "tcp"},
	)

	assert.Equal(t, []int{busy}, used)
}
