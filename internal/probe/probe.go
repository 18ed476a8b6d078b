// Package probe provides connectivity checks for the deployment target:
// a raw TCP reachability probe and an SSH round-trip echo.
package probe

import (
	"context"
	"fmt"
	"strings"
	"time"

	v1 "github.com/skiffd/skiff/api/v1"
	"github.com/skiffd/skiff/internal/core/logger"
	"github.com/skiffd/skiff/internal/remote"
	"github.com/skiffd/skiff/pkg/netutil"
	"github.com/skiffd/skiff/pkg/sshutil"
)

// DefaultTimeout bounds a single probe attempt.
const DefaultTimeout = 10 * time.Second

// echoSentinel is the marker a healthy SSH round trip must echo back.
const echoSentinel = "__skiff_probe__"

// Checker probes the session target.
type Checker struct {
	target v1.Target
	exec   *remote.Runner
	log    *logger.Logger
}

// NewChecker constructs a Checker.
func NewChecker(target v1.Target, exec *remote.Runner, log *logger.Logger) *Checker {
	return &Checker{target: target, exec: exec, log: log}
}

// CheckTCP verifies the SSH port accepts connections.
func (c *Checker) CheckTCP(ctx context.Context) error {
	_, host := sshutil.SplitUserHost(c.target.Host, c.target.User)
	port := c.target.Port
	if port == 0 {
		port = sshutil.DefaultPort
	}
	return netutil.ProbeTCP(ctx, host, port, DefaultTimeout)
}

// CheckSSH performs a full SSH round trip: authenticate, run an echo, and
// verify the sentinel comes back on stdout.
func (c *Checker) CheckSSH(ctx context.Context) error {
	out, err := c.exec.Run(ctx, remote.Line("echo "+echoSentinel))
	if err != nil {
		return fmt.Errorf("ssh probe: %w", err)
	}
	if !strings.Contains(out, echoSentinel) {
		return fmt.Errorf("ssh probe: unexpected response %q", strings.TrimSpace(out))
	}
	return nil
}

// Status runs both probes and folds them into a HostStatus.
func (c *Checker) Status(ctx context.Context) v1.HostStatus {
	if err := c.CheckTCP(ctx); err != nil {
		c.log.Debug("probe.tcp failed", "err", err)
		return v1.HostOffline
	}
	if err := c.CheckSSH(ctx); err != nil {
		c.log.Debug("probe.ssh failed", "err", err)
		return v1.HostOffline
	}
	return v1.HostOnline
}
