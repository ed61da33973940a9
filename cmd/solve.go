package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/busytime/core/scheduler"
	"github.com/kilianp07/busytime/infra/logger"
	"github.com/kilianp07/busytime/pkg/export"
	"github.com/kilianp07/busytime/pkg/instance"
)

var (
	solveInput  string
	solveOutput string
	solveFormat string
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Schedule a single instance file",
	RunE:  solve,
}

func init() {
	solveCmd.Flags().StringVarP(&solveInput, "input", "i", "", "instance file")
	solveCmd.Flags().StringVarP(&solveOutput, "output", "o", "", "solution file (stdout when empty)")
	solveCmd.Flags().StringVarP(&solveFormat, "format", "f", "txt", "output format: txt, json or csv")
	_ = solveCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(solveCmd)
}

func solve(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	render, err := renderer(solveFormat)
	if err != nil {
		return err
	}
	jobs, err := instance.ReadFile(solveInput)
	if err != nil {
		return fmt.Errorf("load instance: %w", err)
	}

	logg := logger.New("solve")
	plan, err := scheduler.New(cfg.Solver, logg).Plan(ctx, jobs)
	if err != nil {
		return err
	}
	logg.Infof("%s: busy time %d (%d pivoted, %d by gap fit)", solveInput, plan.Cost, len(plan.Pivoted), len(plan.Fallback))

	if solveOutput == "" {
		return render(cmd.OutOrStdout(), plan)
	}
	f, err := os.Create(solveOutput)
	if err != nil {
		return err
	}
	if err := render(f, plan); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func renderer(format string) (func(io.Writer, *scheduler.Plan) error, error) {
	switch format {
	case "txt", "":
		return func(w io.Writer, p *scheduler.Plan) error {
			return instance.Write(w, p.Jobs, p.Schedule)
		}, nil
	case "json":
		return export.WriteJSON, nil
	case "csv":
		return export.WriteCSV, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
