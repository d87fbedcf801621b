package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yourusername/rinkwar/internal/database"
	"github.com/yourusername/rinkwar/internal/datasource"
	"github.com/yourusername/rinkwar/internal/health"
	"github.com/yourusername/rinkwar/internal/metrics"
	"github.com/yourusername/rinkwar/internal/repository"
	"github.com/yourusername/rinkwar/internal/scheduler"
	"github.com/yourusername/rinkwar/internal/service"
)

func newScheduleCmd() *cobra.Command {
	var runNow bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Recompute the season table on the configured cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(cfg.EAAPI.ClubIDs) == 0 {
				return fmt.Errorf("ea_api.club_ids is required for scheduling")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var (
				db    *database.DB
				store repository.SeasonWARRepository
			)
			if cfg.Database.Enabled {
				var err error
				db, err = database.Initialize(ctx, cfg)
				if err != nil {
					return fmt.Errorf("failed to connect to database: %w", err)
				}
				defer db.Close()
				store = repository.NewPostgresSeasonWARRepository(db)
				appLog.Info("Database connection established")
			}

			job := scheduler.NewSeasonJob(
				datasource.NewEAClientFromConfig(cfg.EAAPI, appLog),
				service.NewStatNormalizer(appLog),
				newPipeline(),
				store,
				cfg.EAAPI.ClubIDs,
				appLog,
			)

			sched := scheduler.NewScheduler(appLog)
			if _, err := sched.ScheduleSeasonRecompute(cfg.Scheduler.Schedule, job); err != nil {
				return err
			}

			if cfg.Metrics.Enabled {
				server := newHealthServer(db, job)
				if err := server.Start(ctx); err != nil {
					return err
				}
				server.SetReady(true)
			}

			if runNow {
				if _, err := job.Run(ctx); err != nil {
					appLog.WithError(err).Error("Initial season recompute failed")
				}
			}

			if err := sched.Start(); err != nil {
				return err
			}
			appLog.WithField("next_run", sched.GetNextRun()).Info("Scheduler running")

			<-ctx.Done()
			appLog.Info("Shutting down")
			return sched.Stop()
		},
	}

	cmd.Flags().BoolVar(&runNow, "run-now", true, "Recompute once at startup before the first scheduled run")
	return cmd
}

func newHealthServer(db *database.DB, job *scheduler.SeasonJob) *health.Server {
	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Port:        cfg.Metrics.Port,
		Logger:      appLog,
	}
	if db != nil {
		healthCfg.DB = db
	}

	server := health.NewServer(healthCfg)
	server.Handle(cfg.Metrics.Path, metrics.Handler())
	server.AddCheck("season", func(context.Context) error {
		if job.LastResult() == nil {
			return errors.New("no completed season run")
		}
		return nil
	})
	return server
}
