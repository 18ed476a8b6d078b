package deploy

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/skiffd/skiff/api/v1"
)

// statusResponder returns installed/status answers keyed on the script's
// leading command, matching the two queries Status issues.
func statusResponder(installed, statusOut, statusErr string, statusFail error) func(string) (string, string, error) {
	return func(script string) (string, string, error) {
		switch {
		case strings.HasPrefix(script, "test -d"):
			return installed + "\n", "", nil
		case strings.HasPrefix(script, "systemctl status"):
			return statusOut, statusErr, statusFail
		default:
			return "", "unexpected script: " + script, errors.New("unexpected script")
		}
	}
}

func TestStatusActiveUnit(t *testing.T) {
	out := `● demo-app.service - Main application
     Loaded: loaded (/etc/systemd/system/demo-app.service; enabled; vendor preset: enabled)
     Active: active (running) since Mon 2026-08-24 12:00:00 UTC; 1h 2min ago
   Main PID: 4711 (app)`

	tr := &fakeTransport{respond: statusResponder("yes", out, "", nil)}
	unit := newTestUnit(t, appSpec(), tr)

	st := unit.Status(context.Background())

	assert.Equal(t, "demo-app", st.Unit)
	assert.True(t, st.Installed)
	assert.Equal(t, "loaded", st.Loaded)
	assert.Equal(t, v1.ActiveRunning, st.Active)
	assert.Equal(t, "/etc/systemd/system/demo-app.service; enabled; vendor preset: enabled", st.Location)
	assert.Equal(t, "running", st.Reason)
}

func TestStatusFailedUnit(t *testing.T) {
	out := `× demo-app.service - Main application
     Loaded: loaded (/etc/systemd/system/demo-app.service; enabled; preset: enabled)
     Active: failed (Result: exit-code) since Mon 2026-08-24 12:00:00 UTC`

	// systemctl exits non-zero for a failed unit but the report is intact.
	tr := &fakeTransport{respond: statusResponder("yes", out, "", errors.New("exit status 3"))}
	unit := newTestUnit(t, appSpec(), tr)

	st := unit.Status(context.Background())

	assert.Equal(t, v1.ActiveFailed, st.Active)
	assert.Equal(t, "Result: exit-code", st.Reason)
	assert.Equal(t, "loaded", st.Loaded)
}

func TestStatusInactiveWithoutDetail(t *testing.T) {
	out := `○ demo-app.service - Main application
     Loaded: loaded (/etc/systemd/system/demo-app.service; disabled; preset: enabled)
     Active: inactive`

	tr := &fakeTransport{respond: statusResponder("yes", out, "", errors.New("exit status 3"))}
	unit := newTestUnit(t, appSpec(), tr)

	st := unit.Status(context.Background())

	assert.Equal(t, v1.ActiveInactive, st.Active)
	assert.Empty(t, st.Reason)
}

func TestStatusUnknownUnitSynthesized(t *testing.T) {
	tr := &fakeTransport{respond: statusResponder(
		"no", "", "Unit demo-app.service could not be found.", errors.New("exit status 4"),
	)}
	unit := newTestUnit(t, appSpec(), tr)

	st := unit.Status(context.Background())

	assert.False(t, st.Installed)
	assert.Equal(t, "no", st.Loaded)
	assert.Equal(t, v1.ActiveInactive, st.Active)
	assert.Equal(t, "/opt/deploy/app", st.Location)
	assert.Equal(t, "Unit demo-app.service could not be found.", st.Reason)
}

func TestStatusUnreachableHostSynthesized(t *testing.T) {
	// Transport failure with no captured stderr: the error text stands in so
	// the reason is never empty.
	tr := &fakeTransport{err: errors.New("ssh: could not resolve hostname board.local")}
	unit := newTestUnit(t, appSpec(), tr)

	st := unit.Status(context.Background())

	assert.Equal(t, "no", st.Loaded)
	assert.Equal(t, v1.ActiveInactive, st.Active)
	assert.Equal(t, "ssh: could not resolve hostname board.local", st.Reason)
}

func TestRestart(t *testing.T) {
	t.Run("clean restart succeeds", func(t *testing.T) {
		tr := &fakeTransport{}
		unit := newTestUnit(t, appSpec(), tr)

		res := unit.Restart(context.Background())

		assert.True(t, res.Success)
		assert.Equal(t, "set -e\nsudo systemctl restart demo-app", tr.lastScript())
	})

	t.Run("any stderr means failure", func(t *testing.T) {
		tr := &fakeTransport{stderr: "Failed to restart demo-app.service: Unit not found."}
		unit := newTestUnit(t, appSpec(), tr)

		res := unit.Restart(context.Background())

		assert.False(t, res.Success)
	})
}

func TestInstall(t *testing.T) {
	t.Run("guard echoed and stderr empty", func(t *testing.T) {
		tr := &fakeTransport{stdout: "__skiff_install_demo-app__\n"}
		unit := newTestUnit(t, appSpec(), tr)

		res := unit.Install(context.Background())

		assert.True(t, res.Success)

		// The unit definition travels on stdin to the privileged tee.
		require.Len(t, tr.stdins, 1)
		assert.Contains(t, tr.stdins[0], "Description=Main application")
		assert.Contains(t, tr.stdins[0], "ExecStart=./bin/app --listen :8080")
	})

	t.Run("stderr fails install even with guard present", func(t *testing.T) {
		tr := &fakeTransport{
			stdout: "__skiff_install_demo-app__\n",
			stderr: "tee: /etc/systemd/system/demo-app.service: Permission denied",
		}
		unit := newTestUnit(t, appSpec(), tr)

		assert.False(t, unit.Install(context.Background()).Success)
	})

	t.Run("missing guard fails install", func(t *testing.T) {
		tr := &fakeTransport{stdout: "something else\n"}
		unit := newTestUnit(t, appSpec(), tr)

		assert.False(t, unit.Install(context.Background()).Success)
	})
}

func TestLogs(t *testing.T) {
	tr := &fakeTransport{stdout: "Aug 24 12:00:00 board demo-app[4711]: listening on :8080\n"}
	unit := newTestUnit(t, appSpec(), tr)

	out, err := unit.Logs(context.Background(), 50)
	require.NoError(t, err)
	assert.Contains(t, out, "listening on :8080")
	assert.Equal(t, "journalctl -u demo-app -n 50 --no-pager", tr.lastScript())

	tr.err = errors.New("connection reset")
	_, err = unit.Logs(context.Background(), 50)
	assert.Error(t, err)
}
