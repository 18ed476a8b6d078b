// skiff install — write the unit definition and remote layout for a service.
package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/skiffd/skiff/pkg/pprint"
)

func NewInstallCmd() *cobra.Command {
	var showUnit bool

	cmd := &cobra.Command{
		Use:   "install [service]",
		Short: "Create the remote layout and install the systemd unit",
		Args:  cobra.MaximumNArgs(1),
		Example: `  skiff install
  skiff install app
  skiff install app --show-unit`,
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

			if showUnit {
				text, err := unit.UnitFile()
				if err != nil {
					return err
				}
				fmt.Println(text)
				return nil
			}

			pprint.Header("Install — " + unit.UnitName())
			pprint.KV("Service", unit.Spec().Name)
			pprint.KV("Directory", unit.Dir())
			fmt.Println()

			sp := pprint.NewSpinner("Installing unit definition")
			sp.Start()

			started := time.Now()
			res := unit.Install(cmd.Context())
			sp.Stop(res.Success)
			rt.RecordOp("install", unit.Spec().Name, "", started, res.Success, res.Stderr)

			if !res.Success {
				pprint.Error("Install failed: %s", res.Stderr)
				return fmt.Errorf("install %s failed", unit.Spec().Name)
			}

			pprint.Success("Unit %s installed — sync a release, then: skiff releases switch <id>", unit.UnitName())
			return nil
		},
	}

	cmd.Flags().BoolVar(&showUnit, "show-unit", false, "Print the rendered unit file instead of installing")
	return cmd
}
