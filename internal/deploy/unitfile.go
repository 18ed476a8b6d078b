// Package deploy: systemd unit file generation.
package deploy

import (
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// unitFileText is the unit definition written to the process manager's unit
// directory on install. Restart policy: always restart after 2s, backing off
// once 5 starts land inside 30 seconds.
const unitFileText = `[Unit]
Description={{.Description}}
{{- range .Requires}}
Requires={{.}}
After={{.}}
{{- end}}
StartLimitIntervalSec=30
StartLimitBurst=5

[Service]
WorkingDirectory={{.WorkingDir}}
ExecStart={{.ExecStart}}
{{- range .Environment}}
Environment="{{.}}"
{{- end}}
Restart=always
RestartSec=2

[Install]
WantedBy=multi-user.target
`

var unitFileTmpl = template.Must(template.New("unitfile").Parse(unitFileText))

// unitFileParams carries the rendered values for one unit definition.
type unitFileParams struct {
	Description string
	Requires    []string // project-namespaced unit names
	WorkingDir  string   // the current release symlink
	ExecStart   string
	Environment []string // KEY=value, sorted
}

// UnitFile renders the unit definition for this service. Dependency names
// reference services configured in the same project and are rewritten into
// the project-namespaced unit form so intra-project ordering resolves.
func (u *ServiceUnit) UnitFile() (string, error) {
	desc := u.spec.Label
	if desc == "" {
		desc = u.spec.Name
	}

	requires := make([]string, 0, len(u.spec.Requires))
	for _, dep := range u.spec.Requires {
		requires = append(requires, u.target.Project+"-"+dep+".service")
	}

	execStart := u.spec.Command
	if len(u.spec.Args) > 0 {
		execStart += " " + strings.Join(u.spec.Args, " ")
	}

	env := make([]string, 0, len(u.spec.Environment))
	for k, v := range u.spec.Environment {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)

	var b strings.Builder
	err := unitFileTmpl.Execute(&b, unitFileParams{
		Description: desc,
		Requires:    requires,
		WorkingDir:  u.Dir() + "/current",
		ExecStart:   execStart,
		Environment: env,
	})
	if err != nil {
		return "", fmt.Errorf("render unit file for %s: %w", u.UnitName(), err)
	}
	return b.String(), nil
}
