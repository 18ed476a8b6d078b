package probe

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/skiffd/skiff/api/v1"
	"github.com/skiffd/skiff/internal/core/logger"
	"github.com/skiffd/skiff/internal/remote"
)

type echoTransport struct {
	stdout string
	err    error
}

func (e *echoTransport) Exec(context.Context, string, io.Reader) (string, string, error) {
	return e.stdout, "", e.err
}

func TestCheckSSH(t *testing.T) {
	target := v1.Target{Host: "deploy@board.local"}

	t.Run("sentinel echoed back", func(t *testing.T) {
		runner := remote.NewRunner(&echoTransport{stdout: "__skiff_probe__\n"}, nil)
		c := NewChecker(target, runner, nil)

		assert.NoError(t, c.CheckSSH(context.Background()))
	})

	t.Run("transport failure", func(t *testing.T) {
		runner := remote.NewRunner(&echoTransport{err: errors.New("auth failed")}, nil)
		c := NewChecker(target, runner, nil)

		assert.Error(t, c.CheckSSH(context.Background()))
	})

	t.Run("wrong response", func(t *testing.T) {
		// A shell with a chatty profile can mangle the echo.
		runner := remote.NewRunner(&echoTransport{stdout: "motd garbage\n"}, nil)
		c := NewChecker(target, runner, nil)

		assert.Error(t, c.CheckSSH(context.Background()))
	})
}

func TestStatus(t *testing.T) {
	log, err := logger.Init("error", "text", "", "", false)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	target := v1.Target{Host: "deploy@127.0.0.1", Port: port}

	t.Run("both probes pass", func(t *testing.T) {
		runner := remote.NewRunner(&echoTransport{stdout: "__skiff_probe__\n"}, nil)
		c := NewChecker(target, runner, log)

		assert.Equal(t, v1.HostOnline, c.Status(context.Background()))
	})

	t.Run("ssh round trip fails", func(t *testing.T) {
		runner := remote.NewRunner(&echoTransport{err: errors.New("auth failed")}, nil)
		c := NewChecker(target, runner, log)

		assert.Equal(t, v1.HostOffline, c.Status(context.Background()))
	})

	t.Run("port closed", func(t *testing.T) {
		ln.Close()
		runner := remote.NewRunner(&echoTransport{stdout: "__skiff_probe__\n"}, nil)
		c := NewChecker(target, runner, log)

		assert.Equal(t, v1.HostOffline, c.Status(context.Background()))
	})
}
