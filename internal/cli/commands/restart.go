// skiff restart — restart a service's unit.
package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/skiffd/skiff/pkg/pprint"
)

func NewRestartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restart [service]",
		Short: "Restart the service's systemd unit",
		Args:  cobra.MaximumNArgs(1),
		Example: `  skiff restart
  skiff restart app`,
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

			sp := pprint.NewSpinner("Restarting " + unit.UnitName())
			sp.Start()

			started := time.Now()
			res := unit.Restart(cmd.Context())
			sp.Stop(res.Success)
			rt.RecordOp("restart", unit.Spec().Name, "", started, res.Success, res.Stderr)

			if !res.Success {
				pprint.Error("Restart failed: %s", res.Stderr)
				return fmt.Errorf("restart %s failed", unit.Spec().Name)
			}

			// Restart is not verified synchronously; confirm with status.
			st := unit.Status(cmd.Context())
			pprint.Success("Restarted %s (active: %s)", unit.UnitName(), st.Active)
			return nil
		},
	}
}
