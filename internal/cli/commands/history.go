// skiff history — locally recorded deployment operations.
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/skiffd/skiff/pkg/pprint"
)

func NewHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [service]",
		Short: "Show recorded install/restart/switch/prune operations",
		Args:  cobra.MaximumNArgs(1),
		Example: `  skiff history
  skiff history app`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())

			service := ""
			if len(args) == 1 {
				service = args[0]
			}

			recs, err := rt.State.ListOps(service)
			if err != nil {
				return err
			}
			sort.Slice(recs, func(i, j int) bool {
				return recs[i].StartedAt.Before(recs[j].StartedAt)
			})

			if rt.Flags.JSONOutput {
				return json.NewEncoder(os.Stdout).Encode(recs)
			}

			pprint.Header("History")
			if len(recs) == 0 {
				pprint.Info("No operations recorded yet")
				return nil
			}
			table := pprint.NewTable("WHEN", "OP", "SERVICE", "RELEASE", "RESULT", "TOOK")
			for _, r := range recs {
				table.AddRow(
					r.StartedAt.Local().Format("2006-01-02 15:04:05"),
					r.Op, r.Service, r.Release, r.Result,
					fmt.Sprintf("%dms", r.DurationMS),
				)
			}
			table.Render()
			return nil
		},
	}
}
