package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/formchat/internal/config"
	"github.com/diogo/formchat/internal/logging"
	"github.com/diogo/formchat/internal/render"
)

// NewConfigCmd creates the config command
func NewConfigCmd(deps *Dependencies, opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit the configuration",
		Long: `Open the settings menu, or print the configuration when stdout is not a terminal.

Keys: ` + strings.Join(config.Keys(), ", "),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps.IsTTY != nil && deps.IsTTY() {
				cfg, err := config.LoadFileConfig()
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				return deps.TUI.RunConfig(cfg)
			}
			return runConfigShow(deps, opts)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(deps, opts)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one configuration key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(deps, args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.Stdout, path)
			return nil
		},
	})

	return cmd
}

// runConfigShow prints the configuration after env and flag overrides
func runConfigShow(deps *Dependencies, opts *globalOptions) error {
	cfg, err := opts.settings()
	if err != nil {
		return err
	}

	values := map[string]string{
		"base_url":          cfg.BaseURL,
		"endpoint":          cfg.Endpoint,
		"timeout_seconds":   fmt.Sprint(cfg.Timeout()),
		"persist_session":   fmt.Sprint(cfg.PersistSession),
		"copy_to_clipboard": fmt.Sprint(cfg.CopyToClipboard),
		"tui_theme":         cfg.TUITheme,
		"help_style":        cfg.HelpStyle,
		"log_file":          cfg.LogFile,
		"log_level":         cfg.LogLevel,
	}
	for _, key := range config.Keys() {
		fmt.Fprintf(deps.Stdout, "%-18s %s\n", key, values[key])
	}
	return nil
}

// runConfigSet validates and stores one key in the config file.
// Environment overrides are not written back.
func runConfigSet(deps *Dependencies, key, value string) error {
	switch key {
	case "tui_theme":
		if _, ok := render.GetTUIThemeByName(value); !ok {
			return fmt.Errorf("unknown tui_theme %q (valid: %s)", value, strings.Join(render.TUIThemeNames(), ", "))
		}
	case "help_style":
		if !render.IsHelpStyle(value) {
			return fmt.Errorf("unknown help_style %q (valid: %s)", value, strings.Join(render.HelpStyles(), ", "))
		}
	case "log_level":
		if _, err := logging.ParseLevel(value); err != nil {
			return err
		}
	}

	cfg, err := config.LoadFileConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s set to %s\n", key, value)
	return nil
}
