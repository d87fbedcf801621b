package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/rinkwar/internal/impact"
	"github.com/yourusername/rinkwar/internal/models"
	"github.com/yourusername/rinkwar/internal/report"
	"github.com/yourusername/rinkwar/internal/service"
)

// scoredRecord is one line of the score command output
type scoredRecord struct {
	PlayerID        string            `json:"player_id"`
	PlayerName      string            `json:"player_name"`
	MatchID         string            `json:"match_id"`
	Position        models.Position   `json:"position"`
	GameImpactScore float64           `json:"game_impact_score"`
	Breakdown       *impact.Breakdown `json:"breakdown,omitempty"`
}

func newScoreCmd() *cobra.Command {
	var (
		input   string
		output  string
		explain bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute the game impact score of every player-game in a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			raws, err := readRawRecords(input, cmd.InOrStdin())
			if err != nil {
				return err
			}

			records, batch := service.NewStatNormalizer(appLog).NormalizeBatch(raws)
			if len(records) == 0 && batch.Rejected > 0 {
				return fmt.Errorf("all %d input records were rejected", batch.Rejected)
			}
			if batch.Rejected > 0 {
				appLog.WithFields(logrus.Fields{
					"accepted": batch.Accepted,
					"rejected": batch.Rejected,
				}).Warn("Some input records were rejected and not scored")
			}
			out := make([]scoredRecord, 0, len(records))
			for _, r := range records {
				row := scoredRecord{
					PlayerID:   r.PlayerID,
					PlayerName: r.PlayerName,
					MatchID:    r.MatchID,
					Position:   r.Position,
				}
				b := impact.Explain(r)
				row.GameImpactScore = b.Score
				if explain {
					row.Breakdown = &b
				}
				out = append(out, row)
			}

			w, closeFn, err := openOutput(output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := report.WriteJSON(w, out); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "JSON array of raw player-game records (- for stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&explain, "explain", false, "Include the per-component breakdown")
	return cmd
}
