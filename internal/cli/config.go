package cli

import (
	"fmt"
	"io"

	"github.com/Flyrell/punchclock/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = GroupCommand{
	Use:   "config",
	Short: "Show or change kiosk settings",
	Subcommands: []*cobra.Command{
		configShowCmd,
		configSetCmd,
	},
}.Build()

var configShowCmd = LeafCommand{
	Use:   "show",
	Short: "Print the current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		homeDir, err := getHomeDir()
		if err != nil {
			return err
		}
		configFlag, _ := cmd.Flags().GetString("config")
		return runConfigShow(cmd.OutOrStdout(), homeDir, resolveConfigPath(homeDir, configFlag))
	},
}.Build()

var configSetCmd = LeafCommand{
	Use:     "set <key> <value>",
	Short:   "Change one setting",
	Example: "punchclock config set late_after 9:30am\npunchclock config set timezone UTC+05:30",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		homeDir, err := getHomeDir()
		if err != nil {
			return err
		}
		configFlag, _ := cmd.Flags().GetString("config")
		return runConfigSet(cmd.OutOrStdout(), resolveConfigPath(homeDir, configFlag), args[0], args[1])
	},
}.Build()

func runConfigShow(w io.Writer, homeDir, cfgPath string) error {
	cfg, err := config.Read(cfgPath)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "%s  %s\n", Silent("file:"), Text(cfgPath))
	for _, key := range config.Keys() {
		value, err := cfg.Get(key)
		if err != nil {
			return err
		}
		if key == config.KeyDatabase {
			value = cfg.DatabasePath(homeDir)
		}
		_, _ = fmt.Fprintf(w, "%s = %s\n", Primary(key), Text(value))
	}
	return nil
}

func runConfigSet(w io.Writer, cfgPath, key, value string) error {
	cfg, err := config.Read(cfgPath)
	if err != nil {
		return err
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}

	if err := config.Write(cfgPath, cfg); err != nil {
		return err
	}

	stored, _ := cfg.Get(key)
	_, _ = fmt.Fprintf(w, "set %s = %s\n", Primary(key), Text(stored))
	return nil
}
