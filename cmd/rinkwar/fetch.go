package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/rinkwar/internal/datasource"
	"github.com/yourusername/rinkwar/internal/report"
)

func newFetchCmd() *cobra.Command {
	var (
		clubIDs []string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch club matches from EA and write flattened raw player records",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(clubIDs) == 0 {
				clubIDs = cfg.EAAPI.ClubIDs
			}
			if len(clubIDs) == 0 {
				return fmt.Errorf("no club ids given and ea_api.club_ids is empty")
			}

			client := datasource.NewEAClientFromConfig(cfg.EAAPI, appLog)
			matches, err := client.FetchClubs(cmd.Context(), clubIDs)
			if err != nil {
				return err
			}
			raws := datasource.FlattenMatches(datasource.UniqueMatches(matches))

			w, closeFn, err := openOutput(output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := report.WriteJSON(w, raws); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}

	cmd.Flags().StringSliceVar(&clubIDs, "clubs", nil, "Club ids to fetch (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}
