package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/solrtools/subq/internal/trace"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Run      string // optional - print a specific run's steps
}

// RunInfo describes one recorded run in a listing.
type RunInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	CreatedAt string `json:"created_at"`
}

// RunListing holds the replay listing output.
type RunListing struct {
	Runs []RunInfo `json:"runs"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Inspect recorded fold runs",
		Long: `Read fold runs back from a trace database written by 'subq run --db'.

Without --run, lists every recorded run. With --run, prints the run's
steps in fold order, exactly as they were produced.

Exit codes:
  0 - Listing or run printed
  1 - Run not found
  2 - Command error (database not found, etc.)

Examples:
  subq replay --db trace.db
  subq replay --db trace.db --run 01936b2f-1c7e-7d30-b7ad-5f44b4e2a001`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Run, "run", "", "print steps for this run only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	store, err := trace.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeTrace, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening trace database", err)
	}
	defer store.Close()

	if opts.Run == "" {
		return listRuns(ctx, store, formatter)
	}
	return showRun(ctx, store, formatter, opts.Run)
}

// listRuns prints every recorded run, oldest first.
func listRuns(ctx context.Context, store *trace.Store, formatter *OutputFormatter) error {
	runs, err := store.Runs(ctx)
	if err != nil {
		_ = formatter.Error(ErrCodeTrace, err.Error(), nil)
		return WrapExitError(ExitCommandError, "reading runs", err)
	}

	listing := RunListing{Runs: []RunInfo{}}
	for _, run := range runs {
		listing.Runs = append(listing.Runs, RunInfo{
			ID:        run.ID,
			Name:      run.Name,
			CreatedAt: run.CreatedAt.Format(time.RFC3339),
		})
	}

	if formatter.JSON() {
		return formatter.Success(listing)
	}

	if len(listing.Runs) == 0 {
		fmt.Fprintln(formatter.Writer, "no recorded runs")
		return nil
	}
	for _, info := range listing.Runs {
		fmt.Fprintf(formatter.Writer, "%s  %s  %s\n", info.ID, info.CreatedAt, info.Name)
	}
	return nil
}

// showRun prints one run's recorded steps in fold order.
func showRun(ctx context.Context, store *trace.Store, formatter *OutputFormatter, runID string) error {
	steps, err := store.Steps(ctx, runID)
	if err != nil {
		_ = formatter.Error(ErrCodeTrace, err.Error(), nil)
		return WrapExitError(ExitCommandError, "reading steps", err)
	}
	if len(steps) == 0 {
		msg := fmt.Sprintf("run %s not found", runID)
		_ = formatter.Error(ErrCodeTrace, msg, nil)
		return NewExitError(ExitFailure, msg)
	}

	report := RunReport{RunID: runID}
	for _, step := range steps {
		report.Steps = append(report.Steps, StepResult{
			Seq:      step.Seq,
			URL:      step.URL,
			Negation: step.Negation,
		})
	}

	if formatter.JSON() {
		return formatter.Success(report)
	}
	for _, step := range report.Steps {
		printStep(formatter, step)
	}
	return nil
}
