package port

import (
	"fmt"
	"net"
)

// Scanner checks whether specific ports are available on the host machine.
//
// It uses the operating system's network stack (net.Listen / net.ListenPacket)
// to determine if a port is free: if the bind succeeds, the port was
// available. The struct is currently stateless, but is defined as a struct
// so that future options (e.g., bind address) can be added without breaking
// the API, and so it is injectable as a dependency in tests.
type Scanner struct{}

// NewScanner creates a new Scanner instance.
func NewScanner() *Scanner {
	return &Scanner{}
}

// IsPortAvailable checks whether a single port is free on the host machine.
//
// For TCP, it attempts net.Listen("tcp", ":port"). For UDP, it attempts
// net.ListenPacket("udp", ":port"). The probe listener is closed
// immediately; only availability was being tested.
//
// The bind targets all interfaces (":port" rather than "127.0.0.1:port")
// because Docker publishes ports on 0.0.0.0, so the same address space
// must be checked to avoid false positives.
//
// Returns true if the port is free, false if it is in use or the protocol
// is unknown.
func (s *Scanner) IsPortAvailable(port int, protocol string) bool {
	addr := fmt.Sprintf(":%d", port)

	switch protocol {
	case "tcp":
		listener, err := net.Listen("tcp", addr)
		if err != nil {
			return false
		}
		defer func() { _ = listener.Close() }()
		return true

	case "udp":
		// UDP is connectionless, so ListenPacket is the equivalent probe.
		conn, err := net.ListenPacket("udp", addr)
		if err != nil {
			return false
		}
		defer func() { _ = conn.Close() }()
		return true

	default:
		// Unknown protocol — treat as unavailable to fail safe.
		return false
	}
}

// UnavailablePorts returns the subset of the given (port, protocol) pairs
// that are currently in use on the host. The pairs are supplied as parallel
// slices; callers typically derive them from a session's publish bindings.
//
// An empty result means every requested host port can be bound, so the
// engine invocation will not fail on a port that some other process holds.
func (s *Scanner) UnavailablePorts(ports []int, protocols []string) []int {
	var used []int
	for i, p := range ports {
		proto := "tcp"
		if i < len(protocols) && protocols[i] != "" {
			proto = protocols[i]
		}
		if !s.IsPortAvailable(p, proto) {
			used = append(used, p)
		}
	}
	return used
}
