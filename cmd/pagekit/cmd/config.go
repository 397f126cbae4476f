package cmd

import (
	"fmt"
	"os"

	"github.com/MeKo-Tech/pagekit/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create or inspect the configuration",
	// Config commands manage their own loading and never open a log file.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
}

var configInitCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Write a configuration file holding every default",
	Long: `Write a configuration file holding every default setting, by default
pagekit.yaml in the current folder. An existing file is only replaced with
--force.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		target := config.ConfigFileName + ".yaml"
		if len(args) == 1 {
			target = args[0]
		}
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(target); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", target)
		}

		if err := config.GenerateDefaultConfigFile(target); err != nil {
			return fmt.Errorf("failed to write configuration: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", target)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration as YAML",
	Long: `Print the configuration after merging defaults, the configuration file,
environment variables and flags. Problems found by validation are reported
after the dump.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		loader := config.NewLoader()
		cfg, err := loader.LoadWithoutValidation(cfgFile)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if used := loader.GetConfigFileUsed(); used != "" {
			_, _ = fmt.Fprintf(out, "# config file: %s\n", used)
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
		if _, err := out.Write(data); err != nil {
			return err
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("configuration is invalid: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd)

	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
}
