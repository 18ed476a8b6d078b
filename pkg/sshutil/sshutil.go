// Package sshutil provides reusable SSH client helpers for Skiff's remote layer.
package sshutil

import (
	"bytes"
	"crypto/md5"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// DefaultPort is the standard SSH port.
const DefaultPort = 22

// ConnectTimeout is the default dial timeout for SSH connections.
// It governs connection establishment only, not command duration.
const ConnectTimeout = 15 * time.Second

// KeepAliveInterval is how often a keepalive packet is sent to the server.
const KeepAliveInterval = 15 * time.Second

// ClientConfig builds an ssh.ClientConfig from a private key file.
// If knownHostsFile is non-empty, strict host key verification is enabled.
func ClientConfig(user, keyPath, knownHostsFile string) (*ssh.ClientConfig, error) {
	keyData, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("read key %q: %w", keyPath, err)
	}

	signer, err := ssh.ParsePrivateKey(keyData)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	cfg := &ssh.ClientConfig{
		User:    user,
		Auth:    []ssh.AuthMethod{ssh.PublicKeys(signer)},
		Timeout: ConnectTimeout,
	}

	if knownHostsFile != "" {
		hostKeyCallback, err := knownhosts.New(knownHostsFile)
		if err != nil {
			return nil, fmt.Errorf("load known_hosts %q: %w", knownHostsFile, err)
		}
		cfg.HostKeyCallback = hostKeyCallback
	} else {
		// Warn: insecure — only used for first-trust scenarios
		cfg.HostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec
	}

	return cfg, nil
}

// Dial establishes an SSH connection to addr (host:port) using cfg.
func Dial(addr string, cfg *ssh.ClientConfig) (*ssh.Client, error) {
	client, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return nil, fmt.Errorf("ssh dial %q: %w", addr, err)
	}
	return client, nil
}

// RunScript executes a shell script body on the remote host with stdout and
// stderr captured separately. A non-nil stdin is piped to the remote command's
// standard input (the write-a-file-via-tee pattern). The exit status is 0 on
// success, the remote exit code on ssh.ExitError, and -1 on transport failure.
func RunScript(client *ssh.Client, script string, stdin io.Reader) (stdout, stderr string, exit int, err error) {
	session, err := client.NewSession()
	if err != nil {
		return "", "", -1, fmt.Errorf("new session: %w", err)
	}
	defer session.Close()

	var outBuf, errBuf bytes.Buffer
	session.Stdout = &outBuf
	session.Stderr = &errBuf
	if stdin != nil {
		session.Stdin = stdin
	}

	runErr := session.Run(script)
	stdout, stderr = outBuf.String(), errBuf.String()
	if runErr != nil {
		if exitErr, ok := runErr.(*ssh.ExitError); ok {
			return stdout, stderr, exitErr.ExitStatus(), runErr
		}
		return stdout, stderr, -1, runErr
	}
	return stdout, stderr, 0, nil
}

// SplitUserHost splits a "user@host" destination. When dest carries no user,
// fallbackUser is returned.
func SplitUserHost(dest, fallbackUser string) (user, host string) {
	if i := strings.LastIndex(dest, "@"); i != -1 {
		return dest[:i], dest[i+1:]
	}
	return fallbackUser, dest
}

// FingerprintMD5 computes the legacy MD5 fingerprint of an SSH public key.
func FingerprintMD5(key ssh.PublicKey) string {
	sum := md5.Sum(key.Marshal()) //nolint:gosec
	parts := make([]string, len(sum))
	for i, b := range sum {
		parts[i] = fmt.Sprintf("%02x", b)
	}
	return strings.Join(parts, ":")
}

// EncodeHostKey serialises an ssh.PublicKey to a base64 known_hosts-style line.
func EncodeHostKey(host string, key ssh.PublicKey) string {
	return fmt.Sprintf("%s %s %s",
		host,
		key.Type(),
		base64.StdEncoding.EncodeToString(key.Marshal()),
	)
}
