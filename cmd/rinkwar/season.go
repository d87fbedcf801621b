package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/rinkwar/internal/database"
	"github.com/yourusername/rinkwar/internal/logger"
	"github.com/yourusername/rinkwar/internal/report"
	"github.com/yourusername/rinkwar/internal/repository"
	"github.com/yourusername/rinkwar/internal/service"
	"github.com/yourusername/rinkwar/internal/war"
)

func newSeasonCmd() *cobra.Command {
	var (
		input  string
		output string
		format string
		games  bool
		store  bool
	)

	cmd := &cobra.Command{
		Use:   "season",
		Short: "Value a full season of player-games and print the WAR table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = cfg.Pipeline.OutputFormat
			}

			raws, err := readRawRecords(input, cmd.InOrStdin())
			if err != nil {
				return err
			}

			records, batch := service.NewStatNormalizer(appLog).NormalizeBatch(raws)
			if len(records) == 0 && batch.Rejected > 0 {
				return fmt.Errorf("all %d input records were rejected", batch.Rejected)
			}
			service.NewSeasonValidator(appLog).Check(records)

			result, err := newPipeline().Run(cmd.Context(), records)
			if err != nil {
				return err
			}
			result.AddRejected(batch.Rejected)

			if store {
				if err := storeResult(cmd.Context(), result); err != nil {
					return err
				}
			}

			w, closeFn, err := openOutput(output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if games && format == report.FormatCSV {
				err = report.WriteGamesCSV(w, result.Games)
			} else if games && format == report.FormatJSON {
				err = report.WriteJSON(w, report.NewSeasonDocument(result, true))
			} else {
				err = report.Write(w, format, result)
			}
			if err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "JSON array of raw player-game records (- for stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: table, json or csv (default from config)")
	cmd.Flags().BoolVar(&games, "games", false, "Emit per-game valuations instead of the season table (json, csv)")
	cmd.Flags().BoolVar(&store, "store", false, "Store the season table in the database")
	return cmd
}

// newPipeline builds a pipeline from the pipeline config section
func newPipeline() *war.Pipeline {
	pipelineCfg := war.DefaultPipelineConfig()
	if cfg.Pipeline.Workers > 0 {
		pipelineCfg.Workers = cfg.Pipeline.Workers
	}
	if cfg.Pipeline.ReplacementPercentile > 0 {
		pipelineCfg.Estimate.Percentile = cfg.Pipeline.ReplacementPercentile
	}
	if cfg.Pipeline.MinGamesQualified > 0 {
		pipelineCfg.Estimate.MinGamesQualified = cfg.Pipeline.MinGamesQualified
	}

	var tableCache *war.TableCache
	if ttl := cfg.GetCacheTTL(); ttl > 0 {
		tableCache = war.NewTableCache(ttl)
	}
	return war.NewPipeline(pipelineCfg, tableCache, appLog)
}

func storeResult(ctx context.Context, result *war.SeasonResult) error {
	if !cfg.Database.Enabled {
		return fmt.Errorf("--store requires database.enabled")
	}

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repo := repository.NewPostgresSeasonWARRepository(db)
	if err := repo.SaveRun(ctx, result.StoredRun(time.Now().UTC()), result.Season); err != nil {
		return err
	}
	logger.NewIngestLogger(appLog).LogRunStored(result.RunID.String(), len(result.Season))
	return nil
}
