package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/wsbar/internal/config"
	"github.com/mj1618/wsbar/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the wsbar config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	Long: `Write the default configuration to --config, or to
$XDG_CONFIG_HOME/wsbar/config.yaml when --config is not set. An existing
file is left alone unless --force is given.

Examples:
  wsbar config init
  wsbar config init --config ./wsbar.yaml --force`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return output.Fprint(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd)
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	if config.FileExists(path) && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.SaveYAML(path, config.Default()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
