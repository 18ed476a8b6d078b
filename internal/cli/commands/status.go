// skiff status — fresh unit status for one or all configured services.
package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	v1 "github.com/skiffd/skiff/api/v1"
	"github.com/skiffd/skiff/pkg/pprint"
)

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [service]",
		Short: "Query remote unit status (all services when none is named)",
		Args:  cobra.MaximumNArgs(1),
		Example: `  skiff status
  skiff status app`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())
			sess := rt.OpenSession()
			defer sess.Close()

			specs := rt.Config.Services
			if len(args) == 1 {
				unit, err := sess.Registry.Service(args[0])
				if err != nil {
					return err
				}
				specs = []v1.ServiceSpec{unit.Spec()}
			}

			var statuses []v1.UnitStatus
			for _, spec := range specs {
				unit, err := sess.Registry.Service(spec.Name)
				if err != nil {
					return err
				}
				statuses = append(statuses, unit.Status(cmd.Context()))
			}

			if rt.Flags.JSONOutput {
				return json.NewEncoder(os.Stdout).Encode(statuses)
			}

			pprint.Header("Status — " + rt.Config.Host.Address)
			table := pprint.NewTable("UNIT", "INSTALLED", "LOADED", "ACTIVE", "REASON")
			for _, st := range statuses {
				table.AddRow(st.Unit, yesNo(st.Installed), st.Loaded, string(st.Active), st.Reason)
			}
			table.Render()

			for _, st := range statuses {
				if st.Active != v1.ActiveRunning {
					pprint.Info("%s unit file: %s", st.Unit, st.Location)
				}
			}
			fmt.Println()
			return nil
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
