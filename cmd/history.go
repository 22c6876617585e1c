package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/releaseplan/app"
	"github.com/kilianp07/releaseplan/core/history"
)

func newHistoryCmd() *cobra.Command {
	var (
		since  time.Duration
		limit  int
		asJSON bool
	)
	c := &cobra.Command{
		Use:   "history",
		Short: "List recorded planning runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := history.RunQuery{Limit: limit}
			if since > 0 {
				q.Start = time.Now().Add(-since)
			}
			return withService(func(svc *app.Service) error {
				recs, err := svc.History(cmd.Context(), q)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(recs)
				}
				for _, r := range recs {
					if _, err := fmt.Fprintf(out, "%s %s %d/%d %s -> %s\n",
						r.Timestamp.Format(time.RFC3339), r.ID, r.Selected, r.Candidates, r.Input, r.Output); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	c.Flags().DurationVar(&since, "since", 0, "only show runs newer than this duration")
	c.Flags().IntVar(&limit, "limit", 0, "show at most this many recent runs")
	c.Flags().BoolVar(&asJSON, "json", false, "print runs as JSON")
	return c
}
