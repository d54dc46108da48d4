package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jfelder/codesweep/internal/config"
)

var flagConfigPath string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := config.Load(flagConfigPath)
		if err != nil {
			exitCode = ExitUsageError
			return err
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			exitCode = ExitRuntimeError
			return fmt.Errorf("marshaling config: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	configCmd.Flags().StringVar(&flagConfigPath, "config", "", "Config file path (YAML)")
}
