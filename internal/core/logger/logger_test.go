package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTUISinkForwarding(t *testing.T) {
	log, err := Init("info", "text", "", "", false)
	require.NoError(t, err)

	// The sink can attach after Init — the dashboard does exactly that.
	ch := make(chan string, 8)
	SetTUISink(ch)
	t.Cleanup(func() { SetTUISink(nil) })

	log.Info("forwarded line", "service", "app")

	select {
	case line := <-ch:
		assert.Contains(t, line, "forwarded line")
		assert.Contains(t, line, "service=app")
	default:
		t.Fatal("no log line forwarded to the TUI sink")
	}
}

func TestTUISinkDetached(t *testing.T) {
	log, err := Init("info", "text", "", "", false)
	require.NoError(t, err)

	ch := make(chan string, 8)
	SetTUISink(ch)
	SetTUISink(nil)

	log.Info("dropped line")

	select {
	case line := <-ch:
		t.Fatalf("detached sink received %q", line)
	default:
	}
}

func TestLevelFiltering(t *testing.T) {
	log, err := Init("warn", "text", "", "", false)
	require.NoError(t, err)

	ch := make(chan string, 8)
	SetTUISink(ch)
	t.Cleanup(func() { SetTUISink(nil) })

	log.Info("below threshold")
	log.Warn("at threshold")

	select {
	case line := <-ch:
		assert.Contains(t, line, "at threshold")
	default:
		t.Fatal("warn line not forwarded")
	}
	select {
	case line := <-ch:
		t.Fatalf("info line forwarded despite warn level: %q", line)
	default:
	}
}
