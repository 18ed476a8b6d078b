package sshutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitUserHost(t *testing.T) {
	tests := []struct {
		dest     string
		fallback string
		wantUser string
		wantHost string
	}{
		{"deploy@192.168.7.2", "root", "deploy", "192.168.7.2"},
		{"board.local", "root", "root", "board.local"},
		{"board.local", "", "", "board.local"},
		// Last @ wins so user parts containing @ still resolve the host.
		{"me@work@board.local", "root", "me@work", "board.local"},
	}

	for _, tt := range tests {
		user, host := SplitUserHost(tt.dest, tt.fallback)
		assert.Equal(t, tt.wantUser, user, "dest %q", tt.dest)
		assert.Equal(t, tt.wantHost, host, "dest %q", tt.dest)
	}
}

func TestClientConfigMissingKey(t *testing.T) {
	_, err := ClientConfig("deploy", "/nonexistent/id_ed25519", "")
	assert.Error(t, err)
}
