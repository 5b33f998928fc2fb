package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solrtools/subq/internal/manifest"
	"github.com/solrtools/subq/internal/subquery"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Manifest string
}

// ValidateEntry is the validation outcome for a single URL.
type ValidateEntry struct {
	URL   string `json:"url"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ValidateResult holds validation results for every checked URL.
type ValidateResult struct {
	Valid   bool            `json:"valid"`
	Entries []ValidateEntry `json:"entries"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate [url...]",
		Short: "Check query URLs against the single-q rule",
		Long: `Validate Solr query URLs without joining them.

Each URL must parse and carry exactly one q query parameter. URLs come
from the command line or from a chain manifest (--manifest).

Exit codes:
  0 - Every URL is valid
  1 - At least one URL failed validation
  2 - Command error (no URLs, unreadable manifest, etc.)

Examples:
  subq validate 'http://localhost:8983/solr/c/select?q=1:*'
  subq validate --manifest chain.cue`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "chain manifest to validate (.cue, .yaml, .yml)")

	return cmd
}

func runValidate(opts *ValidateOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	urls, err := collectURLs(opts.Manifest, args)
	if err != nil {
		_ = formatter.Error(ErrCodeManifest, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading URLs", err)
	}
	if len(urls) == 0 {
		msg := "no URLs to validate: pass them as arguments or via --manifest"
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	result := ValidateResult{Valid: true}
	for _, raw := range urls {
		entry := ValidateEntry{URL: raw, Valid: true}
		if _, err := subquery.New(raw); err != nil {
			entry.Valid = false
			entry.Error = err.Error()
			result.Valid = false
		}
		result.Entries = append(result.Entries, entry)
	}

	if formatter.JSON() {
		if !result.Valid {
			_ = formatter.Error(ErrCodeQuery, "validation failed", result.Entries)
			return NewExitError(ExitFailure, "validation failed")
		}
		return formatter.Success(result)
	}

	for _, entry := range result.Entries {
		if entry.Valid {
			fmt.Fprintf(formatter.Writer, "ok   %s\n", entry.URL)
		} else {
			fmt.Fprintf(formatter.Writer, "fail %s: %s\n", entry.URL, entry.Error)
		}
	}
	if !result.Valid {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}

// collectURLs gathers URLs from a manifest, the command line, or both.
// Manifest entries come first, in manifest order.
func collectURLs(manifestPath string, args []string) ([]string, error) {
	var urls []string
	if manifestPath != "" {
		m, err := manifest.Load(manifestPath)
		if err != nil {
			return nil, err
		}
		urls = append(urls, m.Queries...)
	}
	return append(urls, args...), nil
}

// isQueryValidationError reports whether err is one of the construction
// validation failures, as opposed to a join precondition failure.
func isQueryValidationError(err error) bool {
	var invalidErr *subquery.InvalidURLError
	return errors.Is(err, subquery.ErrMissingQParameter) ||
		errors.Is(err, subquery.ErrMultipleQParameters) ||
		errors.As(err, &invalidErr)
}
