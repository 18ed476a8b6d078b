// skiff releases — list, switch, and prune release directories.
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/skiffd/skiff/pkg/netutil"
	"github.com/skiffd/skiff/pkg/pprint"
)

func NewReleasesCmd() *cobra.Command {
	var serviceName string

	cmd := &cobra.Command{
		Use:          "releases",
		Short:        "Manage timestamped release directories on the remote host",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&serviceName, "service", "s", "", "Service name (defaults to the first configured service)")

	cmd.AddCommand(
		newReleasesListCmd(&serviceName),
		newReleasesSwitchCmd(&serviceName),
		newReleasesPruneCmd(&serviceName),
	)
	return cmd
}

func newReleasesListCmd(serviceName *string) *cobra.Command {
	return &cobra.Command{
		Use:          "list",
		Short:        "List releases, marking the current one",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())
			sess := rt.OpenSession()
			defer sess.Close()

			unit, err := sess.Registry.Service(*serviceName)
			if err != nil {
				return err
			}

			releases, err := unit.Releases().List(cmd.Context())
			if err != nil {
				return err
			}

			if rt.Flags.JSONOutput {
				return json.NewEncoder(os.Stdout).Encode(releases)
			}

			pprint.Header("Releases — " + unit.Spec().Name)
			if len(releases) == 0 {
				pprint.Info("No releases found under %s", unit.ReleasesDir())
				return nil
			}
			table := pprint.NewTable("RELEASE", "STATE")
			for _, rel := range releases {
				state := "old"
				if rel.Current {
					state = "current"
				}
				table.AddRow(rel.ID, state)
			}
			table.Render()
			return nil
		},
	}
}

func newReleasesSwitchCmd(serviceName *string) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <release>",
		Short: "Atomically point current at a release and restart the unit",
		Args:  cobra.ExactArgs(1),
		Example: `  skiff releases switch 20240102000000
  skiff releases switch 20240102000000 -s app`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())
			sess := rt.OpenSession()
			defer sess.Close()

			releaseID := args[0]
			if !netutil.IsValidReleaseID(releaseID) {
				return fmt.Errorf("release %q is not a timestamp identifier", releaseID)
			}

			unit, err := sess.Registry.Service(*serviceName)
			if err != nil {
				return err
			}

			sp := pprint.NewSpinner("Switching " + unit.Spec().Name + " to " + releaseID)
			sp.Start()

			started := time.Now()
			err = unit.Releases().Switch(cmd.Context(), releaseID)
			sp.Stop(err == nil)
			rt.RecordOp("switch", unit.Spec().Name, releaseID, started, err == nil, errText(err))
			if err != nil {
				return err
			}

			pprint.Success("Release %s is now current for %s", releaseID, unit.Spec().Name)
			return nil
		},
	}
}

func newReleasesPruneCmd(serviceName *string) *cobra.Command {
	var olderThan int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old releases (the current release is never deleted)",
		Example: `  skiff releases prune
  skiff releases prune --older-than 48`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())
			sess := rt.OpenSession()
			defer sess.Close()

			unit, err := sess.Registry.Service(*serviceName)
			if err != nil {
				return err
			}

			hours := olderThan
			if hours == 0 {
				hours = rt.Config.Deploy.KeepHours
			}

			sp := pprint.NewSpinner(fmt.Sprintf("Pruning releases older than %dh", hours))
			sp.Start()

			started := time.Now()
			res := unit.Releases().Prune(cmd.Context(), hours)
			sp.Stop(res.Success)
			rt.RecordOp("prune", unit.Spec().Name, "", started, res.Success, res.Stderr)

			if res.Stdout != "" {
				pprint.Info("%s", res.Stdout)
			}
			if !res.Success {
				pprint.Error("Prune reported failures: %s", res.Stderr)
				return fmt.Errorf("prune %s failed", unit.Spec().Name)
			}
			pprint.Success("Prune complete for %s", unit.Spec().Name)
			return nil
		},
	}

	cmd.Flags().IntVar(&olderThan, "older-than", 0, "Age threshold in hours (default: deploy.keep_hours)")
	return cmd
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
