package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mnhthng/marketpulse/internal/models"
	"github.com/mnhthng/marketpulse/scheduler"
)

func collectCMD() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Run a single collection cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cfgPath)
			if err != nil {
				return err
			}
			runs := scheduler.New(a.cfg.Schedule, a.jobs...).RunCycle(context.Background())
			for _, run := range runs {
				if run.Outcome == models.OutcomeFailed {
					a.logger.Printf("job %s did not complete: %s", run.JobName, run.Reason)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config/config.json)")
	return cmd
}
