package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solrtools/subq/internal/subquery"
)

// JoinOptions holds flags for the join command.
type JoinOptions struct {
	*RootOptions
	Decoded bool
}

// JoinResult holds the joined request and its paired negation.
type JoinResult struct {
	URL      string `json:"url"`
	Negation string `json:"negation"`
}

// NewJoinCommand creates the join command.
func NewJoinCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JoinOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "join <url> <url> [url...]",
		Short: "Join query URLs into a single conjunctive request",
		Long: `Join two or more Solr query URLs addressed to the same collection.

Operands fold left-associatively: the q of the result is the cumulative
AND of every operand. The paired negation URL combines the accumulated
conjunction with NOT over the final operand.

Exit codes:
  0 - Joined successfully
  1 - A URL failed validation or the endpoints differ
  2 - Command error

Examples:
  subq join 'http://localhost:8983/solr/c/select?q=1:*' 'http://localhost:8983/solr/c/select?q=2:*'
  subq join --decoded 'http://localhost:8983/solr/c/select?q=1:*' 'http://localhost:8983/solr/c/select?q=2:*'`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJoin(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Decoded, "decoded", false, "print percent-decoded URLs")

	return cmd
}

func runJoin(opts *JoinOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	joined, err := foldQueries(args)
	if err != nil {
		_ = formatter.Error(joinErrorCode(err), err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	result, err := joinResult(joined, opts.Decoded)
	if err != nil {
		_ = formatter.Error(ErrCodeQuery, err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "url: %s\n", result.URL)
	fmt.Fprintf(formatter.Writer, "not: %s\n", result.Negation)
	return nil
}

// foldQueries constructs every URL and joins them left-associatively.
func foldQueries(raws []string) (*subquery.Query, error) {
	joined, err := subquery.New(raws[0])
	if err != nil {
		return nil, fmt.Errorf("operand 1: %w", err)
	}

	for i, raw := range raws[1:] {
		next, err := subquery.New(raw)
		if err != nil {
			return nil, fmt.Errorf("operand %d: %w", i+2, err)
		}
		joined, err = joined.Join(next)
		if err != nil {
			return nil, err
		}
	}

	return joined, nil
}

// joinResult renders a joined query and its negation, optionally decoded.
func joinResult(joined *subquery.Query, decoded bool) (JoinResult, error) {
	inverse, ok := joined.Inverse()
	if !ok {
		// Unreachable for a join result; guard anyway for a clear message.
		return JoinResult{}, fmt.Errorf("joined query has no negation")
	}

	if !decoded {
		return JoinResult{URL: joined.URL(), Negation: inverse.URL()}, nil
	}

	u, err := joined.Decoded()
	if err != nil {
		return JoinResult{}, err
	}
	n, err := inverse.Decoded()
	if err != nil {
		return JoinResult{}, err
	}
	return JoinResult{URL: u, Negation: n}, nil
}

// joinErrorCode maps a core error to a CLI error code.
func joinErrorCode(err error) string {
	switch {
	case isQueryValidationError(err):
		return ErrCodeQuery
	default:
		return ErrCodeJoin
	}
}
