// Package deploy: ServiceUnit — one deployable service's identity, remote
// directory layout, and process-manager lifecycle.
package deploy

import (
	"context"
	"path"
	"regexp"
	"strings"

	v1 "github.com/skiffd/skiff/api/v1"
	"github.com/skiffd/skiff/internal/core/logger"
	"github.com/skiffd/skiff/internal/remote"
)

// Status output parsing. Dot-all so the Loaded and Active lines can be
// matched anywhere in the report.
var (
	loadedRe = regexp.MustCompile(`(?is)Loaded:\s*(\w+)\s*\(([^)]+)\)`)
	activeRe = regexp.MustCompile(`(?is)Active:\s*(\w+)\s*(?:\(([^)]+)\))?`)
)

// ServiceUnit borrows the session target and one service spec; it is cheap
// to construct per operation and holds no remote state locally.
type ServiceUnit struct {
	target v1.Target
	spec   v1.ServiceSpec
	exec   Executor
	log    *logger.Logger
}

// NewServiceUnit constructs a ServiceUnit.
func NewServiceUnit(target v1.Target, spec v1.ServiceSpec, exec Executor, log *logger.Logger) *ServiceUnit {
	return &ServiceUnit{target: target, spec: spec, exec: exec, log: log}
}

// Spec returns the service's static configuration.
func (u *ServiceUnit) Spec() v1.ServiceSpec {
	return u.spec
}

// UnitName is the project-namespaced process-manager unit name, avoiding
// collisions among projects deployed to the same host.
func (u *ServiceUnit) UnitName() string {
	return u.target.Project + "-" + u.spec.Name
}

// Dir is the service's root directory on the remote host.
func (u *ServiceUnit) Dir() string {
	return path.Join(u.target.BaseDir, u.spec.Name)
}

// ReleasesDir is the releases root under the service directory.
func (u *ServiceUnit) ReleasesDir() string {
	return path.Join(u.Dir(), "releases")
}

// Guard is the sentinel echoed at the end of the install script. Deterministic
// per unit so the script is reproducible.
func (u *ServiceUnit) Guard() string {
	return "__skiff_install_" + u.UnitName() + "__"
}

// Releases returns the release store for this unit.
func (u *ServiceUnit) Releases() *ReleaseStore {
	return &ReleaseStore{unit: u}
}

// params assembles the common script parameters for this unit.
func (u *ServiceUnit) params() scriptParams {
	return scriptParams{
		ServiceDir:  u.Dir(),
		ReleasesDir: u.ReleasesDir(),
		Unit:        u.UnitName(),
		Guard:       u.Guard(),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Status
// ─────────────────────────────────────────────────────────────────────────────

// Status queries the remote host and assembles a fresh UnitStatus. It always
// produces a renderable result: when the status query itself fails (unit
// unknown, host unreachable) a synthetic inactive status carries the raw
// error text as the reason.
func (u *ServiceUnit) Status(ctx context.Context) v1.UnitStatus {
	st := v1.UnitStatus{Unit: u.UnitName()}

	installed := u.exec.Test(ctx, renderScript(installedTmpl, u.params()), remote.AlwaysOK)
	st.Installed = strings.TrimSpace(installed.Stdout) == "yes"

	// systemctl status exits non-zero for inactive units while still
	// printing a parseable report, so classification is by output shape,
	// not exit status.
	res := u.exec.Test(ctx, renderScript(statusTmpl, u.params()), remote.AlwaysOK)

	m := loadedRe.FindStringSubmatch(res.Stdout)
	if m == nil {
		st.Loaded = "no"
		st.Active = v1.ActiveInactive
		st.Location = u.Dir()
		st.Reason = firstNonEmpty(
			strings.TrimSpace(res.Stderr),
			strings.TrimSpace(res.Stdout),
			"status unavailable",
		)
		return st
	}

	st.Loaded = m[1]
	st.Location = m[2]
	st.Active = v1.ActiveUnknown
	if am := activeRe.FindStringSubmatch(res.Stdout); am != nil {
		st.Active = v1.ActiveState(strings.ToLower(am[1]))
		st.Reason = am[2]
	}
	return st
}

// ─────────────────────────────────────────────────────────────────────────────
// Restart
// ─────────────────────────────────────────────────────────────────────────────

// Restart issues a privileged restart of the unit. Failure is reported in the
// result, not raised; the restart is not verified synchronously — callers
// poll Status to confirm the unit came back.
func (u *ServiceUnit) Restart(ctx context.Context) remote.Result {
	u.log.Info("service.restart", "unit", u.UnitName())
	return u.exec.Test(ctx, renderScript(restartTmpl, u.params()), remote.StderrEmpty)
}

// ─────────────────────────────────────────────────────────────────────────────
// Install
// ─────────────────────────────────────────────────────────────────────────────

// Install creates the remote layout and writes the generated unit definition
// by piping it to a privileged tee, then reloads the unit database. Success
// requires the guard string in stdout AND empty stderr: piped input plus
// multi-step privileged writes mean a partial failure must not be mistaken
// for success merely because the final echo ran.
func (u *ServiceUnit) Install(ctx context.Context) remote.Result {
	unitText, err := u.UnitFile()
	if err != nil {
		return remote.Result{Stderr: err.Error()}
	}

	u.log.Info("service.install", "unit", u.UnitName(), "dir", u.Dir())
	return u.exec.Test(ctx,
		renderScript(installTmpl, u.params()),
		remote.GuardEchoed(u.Guard()),
		remote.WithStdin(strings.NewReader(unitText)),
	)
}

// ─────────────────────────────────────────────────────────────────────────────
// Logs
// ─────────────────────────────────────────────────────────────────────────────

// Logs tails the unit's journal. Transport failure propagates as an error.
func (u *ServiceUnit) Logs(ctx context.Context, lines int) (string, error) {
	p := u.params()
	p.Lines = lines
	return u.exec.Run(ctx, renderScript(logsTmpl, p))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
