package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/lexfields/pkg/fields"
)

func (a *app) newInitCmd() *cobra.Command {
	var projectFile string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize lexfields storage",
		Long: `Init creates the configuration and data directories and seeds the data
directory from the project definition. With --project the definition path
is recorded in config.yaml. Running init again is harmless.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.recordInit(cmd, projectFile); err != nil {
				return err
			}
			if err := a.withAccessor(func(*fields.Accessor) error { return nil }); err != nil {
				return err
			}
			zap.L().Info("initialized", zap.String("data_dir", a.config.DataDir))

			view := struct {
				ConfigDir   string `json:"config_dir"`
				DataDir     string `json:"data_dir"`
				ProjectFile string `json:"project_file"`
			}{a.configDir, a.config.DataDir, a.config.ProjectFile}
			return a.emit(cmd, view, func(w io.Writer) {
				fmt.Fprintf(w, "lexfields initialized in %s\n", a.config.DataDir)
			})
		},
	}
	cmd.Flags().StringVar(&projectFile, "project", "", "project definition file to seed from")
	return cmd
}

// recordInit stores the --project and --data-dir flags in config.yaml so
// later commands find them without flags.
func (a *app) recordInit(cmd *cobra.Command, projectFile string) error {
	changed := false
	if projectFile != "" {
		abs, err := filepath.Abs(projectFile)
		if err != nil {
			return sysErr(err)
		}
		a.v.Set(cfgKeyProjectFile, abs)
		a.config.ProjectFile = abs
		changed = true
	}
	if cmd.Flags().Changed("data-dir") {
		a.v.Set(cfgKeyDataDir, a.config.DataDir)
		changed = true
	}
	if !changed {
		return nil
	}
	if err := a.v.WriteConfig(); err != nil {
		return sysErr(fmt.Errorf("write config: %w", err))
	}
	return nil
}
