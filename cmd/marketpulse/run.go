package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mnhthng/marketpulse/internal/server"
	"github.com/mnhthng/marketpulse/scheduler"
)

func runCMD() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the collection scheduler (and corpus server) until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cfgPath)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if a.cfg.Server.Address != "" {
				srv := server.New(a.cfg.Server, a.assembler, a.cfg.Telemetry.Enabled)
				go func() {
					if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						a.logger.Printf("ERROR: corpus server: %v", err)
					}
				}()
				defer func() {
					sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer scancel()
					_ = srv.Shutdown(sctx)
				}()
				a.logger.Printf("corpus server listening on %s", a.cfg.Server.Address)
			}

			return scheduler.New(a.cfg.Schedule, a.jobs...).Run(ctx)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config/config.json)")
	return cmd
}
