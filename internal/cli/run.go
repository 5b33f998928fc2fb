package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/solrtools/subq/internal/chain"
	"github.com/solrtools/subq/internal/manifest"
	"github.com/solrtools/subq/internal/subquery"
	"github.com/solrtools/subq/internal/trace"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Manifest string
	Database string
	Name     string
	Decoded  bool
}

// StepResult is one fold step as reported by the run command.
type StepResult struct {
	Seq      int    `json:"seq"`
	URL      string `json:"url"`
	Negation string `json:"negation,omitempty"`
}

// RunReport holds the full fold output.
type RunReport struct {
	Name  string       `json:"name,omitempty"`
	RunID string       `json:"run_id,omitempty"`
	Steps []StepResult `json:"steps"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [url...]",
		Short: "Fold a chain of query URLs step by step",
		Long: `Fold an ordered chain of Solr query URLs into cumulative joins.

Each step prints one partial result: first the opening query untouched,
then every successive left-associative join. URLs come from a chain
manifest (--manifest), the command line, or both (manifest first).

With --db, every step is also recorded in a SQLite trace database for
later inspection with 'subq replay'.

Exit codes:
  0 - Chain folded completely
  1 - A URL failed validation or the endpoints differ
  2 - Command error (unreadable manifest, trace database error, etc.)

Examples:
  subq run --manifest chain.cue
  subq run --manifest chain.yaml --db trace.db
  subq run 'http://localhost:8983/solr/c/select?q=1:*' 'http://localhost:8983/solr/c/select?q=2:*'`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChain(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "chain manifest (.cue, .yaml, .yml)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record steps to this SQLite trace database")
	cmd.Flags().StringVar(&opts.Name, "name", "", "run name for the trace (defaults to the manifest name)")
	cmd.Flags().BoolVar(&opts.Decoded, "decoded", false, "print percent-decoded URLs")

	return cmd
}

func runChain(opts *RunOptions, args []string, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	configureLogging(opts.RootOptions)

	urls, runName, err := chainInputs(opts, args)
	if err != nil {
		_ = formatter.Error(ErrCodeManifest, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading chain", err)
	}
	if len(urls) == 0 {
		msg := "no queries to fold: pass URLs as arguments or via --manifest"
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	c := chain.New(nil)
	for _, raw := range urls {
		if err := c.AddSubquery(raw); err != nil {
			wrapped := fmt.Errorf("%s: %w", raw, err)
			_ = formatter.Error(ErrCodeQuery, wrapped.Error(), nil)
			return NewExitError(ExitFailure, wrapped.Error())
		}
	}
	slog.Debug("chain ready", "queries", c.Len())

	report := RunReport{Name: runName}

	var store *trace.Store
	var run trace.Run
	if opts.Database != "" {
		store, err = trace.Open(opts.Database)
		if err != nil {
			_ = formatter.Error(ErrCodeTrace, err.Error(), nil)
			return WrapExitError(ExitCommandError, "opening trace database", err)
		}
		defer func() {
			if closeErr := store.Close(); closeErr != nil {
				slog.Error("closing trace database", "error", closeErr)
			}
		}()

		run, err = store.BeginRun(ctx, runName)
		if err != nil {
			_ = formatter.Error(ErrCodeTrace, err.Error(), nil)
			return WrapExitError(ExitCommandError, "starting trace run", err)
		}
		report.RunID = run.ID
		slog.Debug("trace run started", "run_id", run.ID)
	}

	foldErr := foldChain(c, func(seq int, q *subquery.Query) error {
		step, err := stepResult(seq, q, opts.Decoded)
		if err != nil {
			return err
		}
		report.Steps = append(report.Steps, step)

		if store != nil {
			recorded := trace.Step{Seq: seq, URL: q.URL()}
			if inverse, ok := q.Inverse(); ok {
				recorded.Negation = inverse.URL()
			}
			if err := store.AppendStep(ctx, run.ID, recorded); err != nil {
				return err
			}
		}

		if !formatter.JSON() {
			printStep(formatter, step)
		}
		return nil
	})
	if foldErr != nil {
		_ = formatter.Error(ErrCodeJoin, foldErr.Error(), nil)
		return NewExitError(ExitFailure, foldErr.Error())
	}

	if formatter.JSON() {
		return formatter.Success(report)
	}
	return nil
}

// foldChain advances the chain to exhaustion, handing each partial
// result to fn. A join panic from the chain (mismatched endpoints that
// slipped past per-URL validation) is translated back into an error
// here: this is the host-layer boundary where fatal core failures
// become the CLI's error convention.
func foldChain(c *chain.Chain, fn func(seq int, q *subquery.Query) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	for seq := 0; ; seq++ {
		q, ok := c.Advance()
		if !ok {
			return nil
		}
		if err := fn(seq, q); err != nil {
			return err
		}
	}
}

// chainInputs resolves the URL list and run name from flags and args.
func chainInputs(opts *RunOptions, args []string) ([]string, string, error) {
	runName := opts.Name
	var urls []string

	if opts.Manifest != "" {
		m, err := manifest.Load(opts.Manifest)
		if err != nil {
			return nil, "", err
		}
		urls = append(urls, m.Queries...)
		if runName == "" {
			runName = m.Name
		}
	}

	return append(urls, args...), runName, nil
}

// stepResult renders one fold step, optionally decoded.
func stepResult(seq int, q *subquery.Query, decoded bool) (StepResult, error) {
	step := StepResult{Seq: seq, URL: q.URL()}
	inverse, hasInverse := q.Inverse()
	if hasInverse {
		step.Negation = inverse.URL()
	}

	if !decoded {
		return step, nil
	}

	var err error
	step.URL, err = q.Decoded()
	if err != nil {
		return StepResult{}, err
	}
	if hasInverse {
		step.Negation, err = inverse.Decoded()
		if err != nil {
			return StepResult{}, err
		}
	}
	return step, nil
}

// printStep writes one fold step in text format.
func printStep(formatter *OutputFormatter, step StepResult) {
	fmt.Fprintf(formatter.Writer, "step %d  %s\n", step.Seq, step.URL)
	if step.Negation != "" {
		fmt.Fprintf(formatter.Writer, "   not  %s\n", step.Negation)
	}
}

// configureLogging sets the default slog handler from the verbose flag.
func configureLogging(opts *RootOptions) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
