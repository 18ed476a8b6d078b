package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/skiffd/skiff/api/v1"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestHostTrustLifecycle(t *testing.T) {
	db := openTestDB(t)

	// Never-seen host reads back as nil without error.
	trust, err := db.GetHostTrust("board.local")
	require.NoError(t, err)
	assert.Nil(t, trust)

	now := time.Now().UTC().Truncate(time.Second)
	want := v1.HostTrust{
		Host:           "board.local",
		KeyFingerprint: "aa:bb:cc:dd",
		HostKey:        "ssh-ed25519 AAAA...",
		FirstSeen:      now,
		LastSeen:       now,
	}
	require.NoError(t, db.PutHostTrust(want))

	trust, err = db.GetHostTrust("board.local")
	require.NoError(t, err)
	require.NotNil(t, trust)
	assert.Equal(t, want, *trust)

	// Upsert replaces the record.
	want.LastSeen = now.Add(time.Hour)
	require.NoError(t, db.PutHostTrust(want))
	trust, err = db.GetHostTrust("board.local")
	require.NoError(t, err)
	assert.Equal(t, want.LastSeen, trust.LastSeen)

	require.NoError(t, db.ForgetHost("board.local"))
	trust, err = db.GetHostTrust("board.local")
	require.NoError(t, err)
	assert.Nil(t, trust)
}

func TestOpHistory(t *testing.T) {
	db := openTestDB(t)

	started := time.Now().UTC().Truncate(time.Second)
	ops := []v1.OpRecord{
		{ID: "restart-1", Op: "restart", Service: "app", StartedAt: started, Result: "success"},
		{ID: "switch-2", Op: "switch", Service: "app", Release: "20240101120000", StartedAt: started, Result: "failure", Error: "exit status 1"},
		{ID: "prune-3", Op: "prune", Service: "worker", StartedAt: started, Result: "success"},
	}
	for _, op := range ops {
		require.NoError(t, db.PutOp(op))
	}

	all, err := db.ListOps("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	appOps, err := db.ListOps("app")
	require.NoError(t, err)
	require.Len(t, appOps, 2)
	for _, op := range appOps {
		assert.Equal(t, "app", op.Service)
	}

	none, err := db.ListOps("db")
	require.NoError(t, err)
	assert.Empty(t, none)
}
