package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Sternrassler/swapi-browser/internal/config"
	"github.com/spf13/cobra"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or write the configuration",
	}
	cmd.AddCommand(a.newConfigShowCmd(), a.newConfigWriteCmd())
	return cmd
}

func (a *app) newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.cfg.Marshal()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.cfg.Source != "" {
				fmt.Fprintf(out, "# read from %s\n", a.cfg.Source)
			}
			_, err = out.Write(data)
			return err
		},
	}
}

func (a *app) newConfigWriteCmd() *cobra.Command {
	var (
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write the effective configuration to a file",
		Long: `Write the effective configuration (defaults, file, environment and
flags merged) as YAML. Without --path the file goes to the user config
directory, where later runs pick it up.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}

			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
			}

			if err := config.Write(a.cfg, path); err != nil {
				return err
			}
			a.logger.Info().Str("file", path).Msg("Config written")
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "target file (default: user config dir)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
