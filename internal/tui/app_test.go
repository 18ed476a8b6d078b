package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/skiffd/skiff/api/v1"
	"github.com/skiffd/skiff/internal/deploy"
	"github.com/skiffd/skiff/internal/remote"
)

// unitTransport answers the status queries pollCmd issues per service.
type unitTransport struct{}

func (unitTransport) Exec(_ context.Context, script string, _ io.Reader) (string, string, error) {
	if strings.HasPrefix(script, "test -d") {
		return "yes\n", "", nil
	}
	return `● demo-app.service - Main application
     Loaded: loaded (/etc/systemd/system/demo-app.service; enabled; preset: enabled)
     Active: active (running) since Mon 2026-08-24 12:00:00 UTC`, "", nil
}

type staticProber struct{ status v1.HostStatus }

func (p staticProber) Status(context.Context) v1.HostStatus { return p.status }

func newTestModel(prober HostProber, logCh <-chan string) *Model {
	target := v1.Target{Project: "demo", Host: "deploy@192.168.7.2", BaseDir: "/opt/deploy"}
	specs := []v1.ServiceSpec{{Name: "app", Command: "./bin/app"}}
	reg := deploy.NewRegistry(target, specs, remote.NewRunner(unitTransport{}, nil), nil)

	return New(Config{Registry: reg, KeepHours: 72, Probe: prober, LogCh: logCh})
}

func TestPollIncludesHostConnectivity(t *testing.T) {
	m := newTestModel(staticProber{status: v1.HostOffline}, nil)

	msg := m.pollCmd()()
	statuses, ok := msg.(statusesMsg)
	require.True(t, ok, "pollCmd must yield a statusesMsg, got %T", msg)

	assert.Equal(t, v1.HostOffline, statuses.host)
	require.Len(t, statuses.units, 1)
	assert.Equal(t, "demo-app", statuses.units[0].Unit)
	assert.Equal(t, v1.ActiveRunning, statuses.units[0].Active)
}

func TestHostStatusRendersInHeader(t *testing.T) {
	m := newTestModel(staticProber{status: v1.HostOnline}, nil)

	// Nothing before the first poll lands.
	assert.NotContains(t, m.View(), "online")

	updated, _ := m.Update(statusesMsg{host: v1.HostOnline})
	m = updated.(*Model)
	assert.False(t, m.inFlight)
	assert.Contains(t, m.View(), "online")

	updated, _ = m.Update(statusesMsg{host: v1.HostOffline})
	m = updated.(*Model)
	assert.Contains(t, m.View(), "offline")
}

func TestLogTail(t *testing.T) {
	logCh := make(chan string, 8)
	m := newTestModel(staticProber{status: v1.HostOnline}, logCh)

	var cmd tea.Cmd
	for i := 0; i < maxLogLines+3; i++ {
		var updated tea.Model
		updated, cmd = m.Update(logLineMsg(fmt.Sprintf("line %d", i)))
		m = updated.(*Model)
	}

	// The tail is capped and keeps the most recent lines, and each processed
	// line re-arms the channel wait.
	require.Len(t, m.logLines, maxLogLines)
	assert.Equal(t, fmt.Sprintf("line %d", maxLogLines+2), m.logLines[maxLogLines-1])
	assert.NotNil(t, cmd)

	view := m.View()
	assert.Contains(t, view, fmt.Sprintf("line %d", maxLogLines+2))
	assert.NotContains(t, view, "line 0")
}
