// skiff init — scaffold a new skiff.yaml in the target directory.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skiffd/skiff/internal/core/config"
	"github.com/skiffd/skiff/pkg/pprint"
)

func NewInitCmd() *cobra.Command {
	var targetPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new skiff.yaml in the current (or specified) directory",
		Example: `  skiff init
  skiff init --path ./my-project`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if targetPath == "" {
				targetPath = "."
			}
			outFile := filepath.Join(targetPath, "skiff.yaml")
			if _, err := os.Stat(outFile); err == nil {
				return fmt.Errorf("skiff.yaml already exists at %s — delete it first to reinitialise", outFile)
			}

			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return fmt.Errorf("create dir %q: %w", targetPath, err)
			}

			if err := os.WriteFile(outFile, []byte(config.DefaultConfigTemplate), 0644); err != nil {
				return fmt.Errorf("write skiff.yaml: %w", err)
			}

			pprint.PrintBannerSmall()
			pprint.Success("Created %s", outFile)
			fmt.Println("  Edit it to define your host and services, then run: skiff status")
			return nil
		},
	}

	cmd.Flags().StringVar(&targetPath, "path", ".", "Target directory for skiff.yaml")
	return cmd
}
