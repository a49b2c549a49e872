// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"bumpwise-cli/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage bumpwise configuration",
	Long: `Manage bumpwise configuration.

Configuration is stored in:
  - Linux: ~/.config/bumpwise/config.cue
  - macOS: ~/Library/Application Support/bumpwise/config.cue
  - Windows: %APPDATA%\bumpwise\config.cue`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfigFile()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value and write it back to the config file.

Supported keys:
  backup           true | false
  stash            true | false
  ui.color_scheme  auto | dark | light
  ui.verbose       true | false`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(args[0], args[1])
		},
	})
}

func showConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fmt.Print(config.GenerateCUE(cfg))
	return nil
}

func initConfigFile() error {
	if err := config.CreateDefaultConfig(); err != nil {
		return err
	}
	path, err := configFilePath()
	if err != nil {
		return err
	}
	fmt.Println(SuccessStyle.Render("Configuration ready: ") + ModuleStyle.Render(path))
	return nil
}

func showConfigPath() error {
	path, err := configFilePath()
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func setConfigValue(key, value string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	updated := *cfg
	if err := applyConfigKey(&updated, key, value); err != nil {
		return err
	}

	if err := config.Save(&updated); err != nil {
		return err
	}
	config.Reset()

	fmt.Println(SuccessStyle.Render("Configuration updated: ") + ModuleStyle.Render(key))
	return nil
}

// applyConfigKey sets a single dotted key on cfg. Save validates the
// resulting configuration, so this only rejects unknown keys and
// unparseable booleans.
func applyConfigKey(cfg *config.Config, key, value string) error {
	switch key {
	case "backup":
		return setBool(&cfg.Backup, key, value)
	case "stash":
		return setBool(&cfg.Stash, key, value)
	case "ui.color_scheme":
		cfg.UI.ColorScheme = config.ColorScheme(value)
		return nil
	case "ui.verbose":
		return setBool(&cfg.UI.Verbose, key, value)
	default:
		return fmt.Errorf("unknown configuration key %q", key)
	}
}

func setBool(dst *bool, key, value string) error {
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid value %q for %s: expected true or false", value, key)
	}
	*dst = parsed
	return nil
}

func configFilePath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt), nil
}
