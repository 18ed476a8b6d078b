// skiff logs — tail a service unit's journal.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewLogsCmd() *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:   "logs [service]",
		Short: "Show recent journal entries for a service's unit",
		Args:  cobra.MaximumNArgs(1),
		Example: `  skiff logs
  skiff logs app -n 200`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())
			sess := rt.OpenSession()
			defer sess.Close()

			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			unit, err := sess.Registry.Service(name)
			if err != nil {
				return err
			}

			out, err := unit.Logs(cmd.Context(), lines)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 100, "Number of journal lines to show")
	return cmd
}
