package remote

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	v1 "github.com/skiffd/skiff/api/v1"
	"github.com/skiffd/skiff/internal/core/state"
	"github.com/skiffd/skiff/pkg/errs"
)

// writeTestKey generates a throwaway ed25519 private key file.
func writeTestKey(t *testing.T) string {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	block, err := ssh.MarshalPrivateKey(priv, "")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id_ed25519")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0600))
	return path
}

func TestDialRefusesUnreadableTrustStore(t *testing.T) {
	db, err := state.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	require.NoError(t, db.Close()) // reads now fail

	target := v1.Target{
		Host: "deploy@127.0.0.1",
		Key:  writeTestKey(t),
		Port: 1,
	}
	tr := NewSSHTransport(target, db, nil)

	// The pinned-key lookup fails before any network contact; the dial must
	// refuse rather than degrade to trust-on-first-use.
	_, err = tr.dial()
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrStateRead))
}

func TestDialRequiresKey(t *testing.T) {
	tr := NewSSHTransport(v1.Target{Host: "deploy@127.0.0.1"}, nil, nil)

	_, err := tr.dial()
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrHostConnect))
}
