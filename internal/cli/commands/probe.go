// skiff probe — connectivity check for the deployment target.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skiffd/skiff/internal/probe"
	"github.com/skiffd/skiff/pkg/pprint"
)

func NewProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "probe",
		Short:        "Check TCP and SSH connectivity to the deployment target",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())
			sess := rt.OpenSession()
			defer sess.Close()

			checker := probe.NewChecker(rt.Config.Target(), sess.Runner, rt.Log)

			pprint.Header("Probe — " + rt.Config.Host.Address)

			sp := pprint.NewSpinner("TCP reachability")
			sp.Start()
			tcpErr := checker.CheckTCP(cmd.Context())
			sp.Stop(tcpErr == nil)
			if tcpErr != nil {
				pprint.Error("TCP: %v", tcpErr)
				return fmt.Errorf("host unreachable")
			}

			sp = pprint.NewSpinner("SSH round trip")
			sp.Start()
			sshErr := checker.CheckSSH(cmd.Context())
			sp.Stop(sshErr == nil)
			if sshErr != nil {
				pprint.Error("SSH: %v", sshErr)
				return fmt.Errorf("ssh probe failed")
			}

			pprint.Success("Host %s is reachable", rt.Config.Host.Address)
			return nil
		},
	}
}
