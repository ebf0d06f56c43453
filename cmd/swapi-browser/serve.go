package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/Sternrassler/swapi-browser/internal/web"
	"github.com/spf13/cobra"
)

func (a *app) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.newClient()
			if err != nil {
				return err
			}

			s, err := web.NewServer(c, web.Options{
				SSL:          a.cfg.Server.SSL,
				FetchTimeout: a.cfg.Client.Timeout,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.logger.Info().
				Str("addr", a.cfg.Server.Addr).
				Str("base_url", c.BaseURL()).
				Msg("Serving SWAPI browser")
			return s.ListenAndServe(ctx, a.cfg.Server.Addr)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default :8081)")
	cmd.Flags().Bool("ssl", false, "redirect to HTTPS and send HSTS headers")
	return cmd
}
