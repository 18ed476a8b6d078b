// skiff watch — interactive dashboard over the deploy core.
package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/skiffd/skiff/internal/core/logger"
	"github.com/skiffd/skiff/internal/probe"
	"github.com/skiffd/skiff/internal/tui"
)

func NewWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "watch",
		Short:        "Interactive status dashboard with release switching",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())
			sess := rt.OpenSession()
			defer sess.Close()

			if len(rt.Config.Services) == 0 {
				return fmt.Errorf("no services configured — run skiff init")
			}

			// Forward log lines into the dashboard's log tail while it runs.
			logCh := make(chan string, 64)
			logger.SetTUISink(logCh)
			defer logger.SetTUISink(nil)

			model := tui.New(tui.Config{
				Registry:  sess.Registry,
				KeepHours: rt.Config.Deploy.KeepHours,
				Log:       rt.Log,
				Probe:     probe.NewChecker(rt.Config.Target(), sess.Runner, rt.Log),
				LogCh:     logCh,
				Record:    rt.RecordOp,
			})

			p := tea.NewProgram(model, tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
}
