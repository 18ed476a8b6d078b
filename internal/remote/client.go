// Package remote: the SSH transport — a persistent, keepalive-checked
// connection to the single deployment target with host key pinning.
package remote

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	v1 "github.com/skiffd/skiff/api/v1"
	"github.com/skiffd/skiff/internal/core/logger"
	"github.com/skiffd/skiff/internal/core/state"
	"github.com/skiffd/skiff/pkg/errs"
	"github.com/skiffd/skiff/pkg/sshutil"
)

// SSHTransport implements Transport over a cached SSH connection. The
// connection is verified with a lightweight keepalive before reuse and
// redialled transparently when dead.
type SSHTransport struct {
	target v1.Target
	db     *state.DB // host key pinning; nil disables pinning
	log    *logger.Logger

	mu     sync.Mutex
	client *ssh.Client
	cancel context.CancelFunc
}

// NewSSHTransport constructs an SSHTransport for the session's target.
func NewSSHTransport(target v1.Target, db *state.DB, log *logger.Logger) *SSHTransport {
	return &SSHTransport{target: target, db: db, log: log}
}

// Exec runs script on the target, returning captured stdout and stderr.
func (t *SSHTransport) Exec(ctx context.Context, script string, stdin io.Reader) (string, string, error) {
	client, err := t.connect(ctx)
	if err != nil {
		return "", "", err
	}
	stdout, stderr, _, err := sshutil.RunScript(client, script, stdin)
	return stdout, stderr, err
}

// Close tears down the cached connection. Idempotent.
func (t *SSHTransport) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client != nil {
		t.cancel()
		t.client.Close()
		t.client = nil
		t.log.Info("ssh disconnected", "host", t.target.Host)
	}
}

// connect returns the cached SSH connection, dialling if needed.
func (t *SSHTransport) connect(ctx context.Context) (*ssh.Client, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.client != nil {
		// Verify connection is still alive with a lightweight keepalive
		if _, _, err := t.client.Conn.SendRequest("keepalive@skiff", true, nil); err == nil {
			return t.client, nil
		}
		// Connection dead — drop it and redial
		t.cancel()
		t.client.Close()
		t.client = nil
	}

	client, err := t.dial()
	if err != nil {
		return nil, err
	}

	connCtx, cancel := context.WithCancel(context.Background())
	t.client = client
	t.cancel = cancel

	// Background keepalive goroutine
	go t.keepalive(connCtx, client)

	t.log.Info("ssh connected", "host", t.target.Host)
	return client, nil
}

// dial opens a new SSH connection to the target.
func (t *SSHTransport) dial() (*ssh.Client, error) {
	if t.target.Key == "" {
		return nil, errs.Newf(errs.ErrHostConnect, "remote.dial",
			"no SSH key configured for host %q", t.target.Host)
	}

	user, host := sshutil.SplitUserHost(t.target.Host, t.target.User)
	port := t.target.Port
	if port == 0 {
		port = sshutil.DefaultPort
	}
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))

	cfg, err := sshutil.ClientConfig(user, t.target.Key, "")
	if err != nil {
		return nil, errs.Wrap(err, errs.ErrHostConnect, "remote.dial").WithResource(host)
	}

	// Pin the host key: verify against the recorded fingerprint when one
	// exists, otherwise capture the key for trust-on-first-use. An unreadable
	// trust store refuses the connection outright — degrading to
	// trust-on-first-use here would let recordTrust overwrite the pinned
	// fingerprint with whatever key was presented.
	var seenKey ssh.PublicKey
	trust, err := t.trustRecord(host)
	if err != nil {
		return nil, errs.Wrap(err, errs.ErrStateRead, "remote.dial").
			WithResource(host).
			WithAdvice("The state database is unreadable, so the pinned host key cannot be verified")
	}
	cfg.HostKeyCallback = func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		seenKey = key
		if trust == nil {
			return nil
		}
		got := sshutil.FingerprintMD5(key)
		if got != trust.KeyFingerprint {
			return errs.Newf(errs.ErrHostKeyMismatch, "remote.dial",
				"host key mismatch for %s: got %s, expected %s", hostname, got, trust.KeyFingerprint)
		}
		return nil
	}

	client, err := sshutil.Dial(addr, cfg)
	if err != nil {
		return nil, errs.Wrap(err, errs.ErrHostConnect, "remote.dial").
			WithResource(host).
			WithAdvice("Check the host address, key path, and that sshd is reachable")
	}

	t.recordTrust(host, trust, seenKey)
	return client, nil
}

// trustRecord loads the pinned host key record, tolerating a nil state DB.
func (t *SSHTransport) trustRecord(host string) (*v1.HostTrust, error) {
	if t.db == nil {
		return nil, nil
	}
	return t.db.GetHostTrust(host)
}

// recordTrust persists the observed host key on first contact and refreshes
// last-seen on later connects.
func (t *SSHTransport) recordTrust(host string, prior *v1.HostTrust, key ssh.PublicKey) {
	if t.db == nil || key == nil {
		return
	}
	now := time.Now().UTC()
	rec := v1.HostTrust{
		Host:           host,
		KeyFingerprint: sshutil.FingerprintMD5(key),
		HostKey:        sshutil.EncodeHostKey(host, key),
		FirstSeen:      now,
		LastSeen:       now,
	}
	if prior != nil {
		rec.FirstSeen = prior.FirstSeen
	} else {
		t.log.Info("host key recorded", "host", host, "fingerprint", rec.KeyFingerprint)
	}
	if err := t.db.PutHostTrust(rec); err != nil {
		t.log.Warn("host trust persist failed", "host", host, "err", err)
	}
}

// keepalive sends periodic keepalive packets to prevent session timeout.
func (t *SSHTransport) keepalive(ctx context.Context, client *ssh.Client) {
	ticker := time.NewTicker(sshutil.KeepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, _, err := client.Conn.SendRequest("keepalive@skiff", true, nil); err != nil {
				t.log.Warn("ssh keepalive failed, connection may be dead",
					"host", t.target.Host, "err", err)
				return
			}
		}
	}
}
