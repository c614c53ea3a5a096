package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rescale/pkgview/internal/config"
	"github.com/rescale/pkgview/internal/pathutil"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect pkgview options",
		Long: `Commands for the [options] section pkgview reads.

Commands:
  init  - Write an [options] section from the current flags
  show  - Display the effective options
  path  - Show configuration file path`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigPathCmd())

	return configCmd
}

// configPath returns the --config value or the default location.
func configPath() string {
	if cfgFile != "" {
		if path, err := pathutil.ExpandHome(cfgFile); err == nil {
			return path
		}
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// newConfigInitCmd creates the 'config init' command.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective options to the configuration file",
		Long: `Write an [options] section holding the effective options (file values
merged with flags) to the configuration file.

Use --force to overwrite an existing file. Only the [options] section is
written; repository sections of an existing file are not preserved.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath()

			if !force {
				if _, err := os.Stat(path); err == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Configuration already exists at: %s\n", path)
					fmt.Fprintln(cmd.OutOrStdout(), "Use --force to overwrite or run 'config show' to view current options.")
					return nil
				}
			}

			if err := config.Save(GetOptions(), path); err != nil {
				return err
			}
			GetLogger().Info().Str("path", path).Msg("configuration saved")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration")
	return cmd
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective options",
		Long: `Display the options pkgview renders with.

Values come from the [options] section of the configuration file, with
command-line flags applied on top.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), GetOptions().String())
			return nil
		},
	}
}

// newConfigPathCmd creates the 'config path' command.
func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Long:  `Display the path to the configuration file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			path := configPath()
			fmt.Fprintf(out, "%s\n", path)

			if info, err := os.Stat(path); err == nil {
				fmt.Fprintf(out, "Status:   file exists\n")
				fmt.Fprintf(out, "Modified: %s\n", info.ModTime().Format("2006-01-02 15:04:05"))
			} else {
				fmt.Fprintf(out, "Status:   file does not exist, using defaults\n")
			}
			return nil
		},
	}
}
