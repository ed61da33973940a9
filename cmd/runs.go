package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/busytime/core/model"
	"github.com/kilianp07/busytime/core/runlog"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded instance runs",
	RunE:  listRuns,
}

func init() {
	runsCmd.Flags().String("run", "", "run id")
	runsCmd.Flags().String("status", "", "solved, failed or skipped")
	runsCmd.Flags().Duration("since", 0, "only runs newer than this age")
	runsCmd.Flags().Bool("json", false, "print records as JSON lines")
	rootCmd.AddCommand(runsCmd)
}

func listRuns(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	var q runlog.Query
	q.RunID, _ = flags.GetString("run")
	status, _ := flags.GetString("status")
	q.Outcome = model.Outcome(status)
	if status != "" && !q.Outcome.Valid() {
		return fmt.Errorf("unknown status %q", status)
	}
	if since, _ := flags.GetDuration("since"); since > 0 {
		q.Start = time.Now().Add(-since)
	}

	ctx := context.Background()
	store, err := runlog.Open(ctx, cfg.RunLog)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	recs, err := store.Query(ctx, q)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := flags.GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		for _, r := range recs {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tRUN\tINSTANCE\tSTATUS\tJOBS\tCOST\tMS\tERROR")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%.1f\t%s\n",
			r.Timestamp.Format(time.RFC3339), r.RunID, r.Instance, r.Outcome, r.Jobs, r.Cost, r.DurationMS, r.Error)
	}
	return tw.Flush()
}
