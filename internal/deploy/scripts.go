// Package deploy: the remote script templates.
//
// Every operation in this package is expressed as a POSIX-shell script body
// sent as one remote invocation; the remote shell itself provides ordering
// and short-circuit-on-failure guarantees. Each script lives here as a named
// template so it can be render-and-diff tested against literal expected text
// instead of being interpolated ad hoc at call sites.
package deploy

import (
	"strings"
	"text/template"

	"github.com/skiffd/skiff/internal/remote"
)

// listScriptText enumerates release directories and marks the one the
// current symlink resolves to. Exits 0 when the releases root is missing.
const listScriptText = `cd {{.ReleasesDir}} 2>/dev/null || exit 0
CURRENT=$(readlink -f ../current || echo "")
for dir in *; do
	[ -d "$dir" ] || continue
	FULL=$(readlink -f "$dir")
	if [ "$FULL" = "$CURRENT" ]; then
		echo "$dir|current"
	else
		echo "$dir|old"
	fi
done`

// switchScriptText repoints the current symlink and restarts the unit. The
// symlink replacement is rename-based so there is never a window where
// current is missing or half-written; set -e guarantees the restart is never
// reached if the symlink step fails.
const switchScriptText = `set -e
ln -sfn "{{.ReleasesDir}}/{{.Release}}" "{{.ServiceDir}}/.current.tmp"
mv -Tf "{{.ServiceDir}}/.current.tmp" "{{.ServiceDir}}/current"
sudo systemctl restart {{.Unit}}`

// pruneScriptText deletes non-current releases older than the threshold.
// Ages are whole hours; age equal to the threshold is retained. Each
// directory is independently fault-tolerant: a failed stat (directory
// removed out-of-band mid-sweep) or a failed rm reports to stderr and the
// loop continues, so one bad directory cannot strand other expired
// releases. The current release is never eligible regardless of age.
const pruneScriptText = `set -e
cd {{.ReleasesDir}}
NOW=$(date +%s)
CURRENT=$(readlink -f ../current || echo "")
for dir in *; do
	[ -d "$dir" ] || continue
	FULL=$(readlink -f "$dir")
	[ "$FULL" = "$CURRENT" ] && continue
	MTIME=$(stat -c %Y "$dir") || { echo "prune failed: $dir" >&2; continue; }
	AGE=$(( (NOW - MTIME) / 3600 ))
	if [ "$AGE" -gt {{.Hours}} ]; then
		rm -rf "$dir" && echo "pruned $dir" || echo "prune failed: $dir" >&2
	fi
done`

// installScriptText creates the remote layout, writes the unit file piped in
// on standard input, reloads the unit database, and echoes the guard string
// confirming every preceding step executed.
const installScriptText = `mkdir -p {{.ServiceDir}}
mkdir -p {{.ReleasesDir}}
sudo tee /etc/systemd/system/{{.Unit}}.service > /dev/null
sudo systemctl daemon-reload
echo "{{.Guard}}"`

// restartScriptText restarts the unit under set -e.
const restartScriptText = `set -e
sudo systemctl restart {{.Unit}}`

// statusScriptText reports the unit's process-manager status.
const statusScriptText = `systemctl status {{.Unit}}`

// installedScriptText checks whether the service root exists on the remote.
const installedScriptText = `test -d {{.ServiceDir}} && echo yes || echo no`

// logsScriptText tails the unit's journal.
const logsScriptText = `journalctl -u {{.Unit}} -n {{.Lines}} --no-pager`

var (
	listTmpl      = template.Must(template.New("list").Parse(listScriptText))
	switchTmpl    = template.Must(template.New("switch").Parse(switchScriptText))
	pruneTmpl     = template.Must(template.New("prune").Parse(pruneScriptText))
	installTmpl   = template.Must(template.New("install").Parse(installScriptText))
	restartTmpl   = template.Must(template.New("restart").Parse(restartScriptText))
	statusTmpl    = template.Must(template.New("status").Parse(statusScriptText))
	installedTmpl = template.Must(template.New("installed").Parse(installedScriptText))
	logsTmpl      = template.Must(template.New("logs").Parse(logsScriptText))
)

// scriptParams carries every value the script templates interpolate.
type scriptParams struct {
	ServiceDir  string
	ReleasesDir string
	Unit        string
	Release     string
	Guard       string
	Hours       int
	Lines       int
}

// renderScript executes tmpl with params and splits the result into lines so
// the executor transmits it as one newline-joined invocation.
func renderScript(tmpl *template.Template, params scriptParams) remote.Script {
	var b strings.Builder
	if err := tmpl.Execute(&b, params); err != nil {
		// Templates are compile-time constants; a render failure is a
		// programming error.
		panic("deploy: render " + tmpl.Name() + " script: " + err.Error())
	}
	return remote.Script(strings.Split(b.String(), "\n"))
}
