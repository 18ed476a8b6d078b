package netutil

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidServiceName(t *testing.T) {
	valid := []string{"app", "web-frontend", "a", "svc01", "0relay"}
	for _, name := range valid {
		assert.True(t, IsValidServiceName(name), "expected %q to be valid", name)
	}

	invalid := []string{"", "App", "my_app", "-app", "app.service", "пример",
		"averylongnameaverylongnameaverylongnameaverylongnameaverylongnamex"}
	for _, name := range invalid {
		assert.False(t, IsValidServiceName(name), "expected %q to be invalid", name)
	}
}

func TestIsValidReleaseID(t *testing.T) {
	assert.True(t, IsValidReleaseID("20240101120000"))

	for _, id := range []string{"", "2024", "202401011200001", "2024010112000a", "current"} {
		assert.False(t, IsValidReleaseID(id), "expected %q to be invalid", id)
	}
}

func TestProbeTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	addr := ln.Addr().(*net.TCPAddr)

	assert.NoError(t, ProbeTCP(context.Background(), "127.0.0.1", addr.Port, time.Second))

	ln.Close()
	assert.Error(t, ProbeTCP(context.Background(), "127.0.0.1", addr.Port, 200*time.Millisecond))
}
