package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/busytime/app"
	"github.com/kilianp07/busytime/core/source"
	"github.com/kilianp07/busytime/infra/logger"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Schedule a numbered range of instances",
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().String("dir", "", "instance directory (overrides source.dir)")
	batchCmd.Flags().Int("first", 0, "first instance number")
	batchCmd.Flags().Int("count", 0, "number of instances")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Source.Kind = source.KindDir
		cfg.Source.Dir, _ = flags.GetString("dir")
	}
	bc := cfg.Batch
	if flags.Changed("first") {
		bc.First, _ = flags.GetInt("first")
	}
	if flags.Changed("count") {
		bc.Count, _ = flags.GetInt("count")
	}

	svc, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	sum, err := svc.RunBatch(ctx, bc)
	fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d solved, %d failed, %d skipped (mean busy time %.2f, sd %.2f)\n",
		sum.RunID, sum.Solved, sum.Failed, sum.Skipped, sum.MeanCost, sum.StdCost)
	return err
}
