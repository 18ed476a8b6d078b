// skiff services — list the configured services.
package commands

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skiffd/skiff/pkg/pprint"
)

func NewServicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "services",
		Short:        "List services configured in skiff.yaml",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())

			if rt.Flags.JSONOutput {
				return json.NewEncoder(os.Stdout).Encode(rt.Config.Services)
			}

			pprint.Header("Services — " + rt.Config.Project.Name)
			table := pprint.NewTable("NAME", "LABEL", "COMMAND", "REQUIRES")
			for _, svc := range rt.Config.Services {
				cmdline := svc.Command
				if len(svc.Args) > 0 {
					cmdline += " " + strings.Join(svc.Args, " ")
				}
				table.AddRow(svc.Name, svc.Label, cmdline, strings.Join(svc.Requires, ", "))
			}
			table.Render()
			return nil
		},
	}
}
