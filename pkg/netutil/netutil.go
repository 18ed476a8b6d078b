// Package netutil provides network and naming utility helpers used across Skiff.
package netutil

import (
	"context"
	"fmt"
	"net"
	"regexp"
	"time"
)

var (
	// serviceNameRegex enforces DNS-label-safe service names; unit names are
	// derived from these, so anything systemd would reject is rejected here.
	serviceNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9\-]{0,62}$`)

	// releaseIDRegex matches timestamp-derived release directory names.
	// Fixed width keeps lexical order equal to chronological order.
	releaseIDRegex = regexp.MustCompile(`^\d{14}$`)
)

// IsValidServiceName returns true if name is a DNS-label-safe service name.
func IsValidServiceName(name string) bool {
	return serviceNameRegex.MatchString(name)
}

// IsValidReleaseID returns true if id is a fixed-width timestamp identifier.
func IsValidReleaseID(id string) bool {
	return releaseIDRegex.MatchString(id)
}

// ProbeTCP dials host:port and returns nil if successful within the timeout.
func ProbeTCP(ctx context.Context, host string, port int, timeout time.Duration) error {
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("tcp probe to %s failed: %w", addr, err)
	}
	conn.Close()
	return nil
}
