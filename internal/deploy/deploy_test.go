package deploy

import (
	"context"
	"io"
	"strings"
	"testing"

	v1 "github.com/skiffd/skiff/api/v1"
	"github.com/skiffd/skiff/internal/core/logger"
	"github.com/skiffd/skiff/internal/remote"
)

// fakeTransport implements remote.Transport against canned responses, so the
// deploy components run through the real Runner (predicates, stdin piping,
// stderr synthesis) without a network.
type fakeTransport struct {
	stdout string
	stderr string
	err    error

	// respond overrides the canned response per script when set.
	respond func(script string) (stdout, stderr string, err error)

	scripts []string
	stdins  []string
}

func (f *fakeTransport) Exec(_ context.Context, script string, stdin io.Reader) (string, string, error) {
	f.scripts = append(f.scripts, script)
	if stdin != nil {
		b, _ := io.ReadAll(stdin)
		f.stdins = append(f.stdins, string(b))
	}
	if f.respond != nil {
		return f.respond(script)
	}
	return f.stdout, f.stderr, f.err
}

func (f *fakeTransport) lastScript() string {
	if len(f.scripts) == 0 {
		return ""
	}
	return f.scripts[len(f.scripts)-1]
}

// testTarget is the fixture target used across deploy tests.
var testTarget = v1.Target{
	Project: "demo",
	Host:    "deploy@192.168.7.2",
	BaseDir: "/opt/deploy",
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.Init("error", "text", "", "", false)
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return log
}

// newTestUnit wires a ServiceUnit over a fake transport.
func newTestUnit(t *testing.T, spec v1.ServiceSpec, tr *fakeTransport) *ServiceUnit {
	t.Helper()
	runner := remote.NewRunner(tr, testLogger(t))
	return NewServiceUnit(testTarget, spec, runner, testLogger(t))
}

func appSpec() v1.ServiceSpec {
	return v1.ServiceSpec{
		Name:    "app",
		Label:   "Main application",
		Command: "./bin/app",
		Args:    []string{"--listen", ":8080"},
	}
}

func TestUnitNaming(t *testing.T) {
	unit := newTestUnit(t, appSpec(), &fakeTransport{})

	if got := unit.UnitName(); got != "demo-app" {
		t.Errorf("UnitName() = %q, want demo-app", got)
	}
	if got := unit.Dir(); got != "/opt/deploy/app" {
		t.Errorf("Dir() = %q, want /opt/deploy/app", got)
	}
	if got := unit.ReleasesDir(); got != "/opt/deploy/app/releases" {
		t.Errorf("ReleasesDir() = %q, want /opt/deploy/app/releases", got)
	}
	if got := unit.Guard(); got != "__skiff_install_demo-app__" {
		t.Errorf("Guard() = %q", got)
	}
}

func TestScriptsContainNoUnrenderedActions(t *testing.T) {
	unit := newTestUnit(t, appSpec(), &fakeTransport{})
	p := unit.params()
	p.Release = "20240101000000"
	p.Hours = 48
	p.Lines = 100

	for _, tmpl := range []struct {
		name   string
		script remote.Script
	}{
		{"list", renderScript(listTmpl, p)},
		{"switch", renderScript(switchTmpl, p)},
		{"prune", renderScript(pruneTmpl, p)},
		{"install", renderScript(installTmpl, p)},
		{"restart", renderScript(restartTmpl, p)},
		{"status", renderScript(statusTmpl, p)},
		{"installed", renderScript(installedTmpl, p)},
		{"logs", renderScript(logsTmpl, p)},
	} {
		if strings.Contains(tmpl.script.String(), "{{") {
			t.Errorf("%s script left template actions unrendered:\n%s", tmpl.name, tmpl.script)
		}
	}
}
