package subquery

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions that carry no extra context.
var (
	// ErrMissingQParameter indicates a URL with zero q query parameters.
	ErrMissingQParameter = errors.New("request has no q query parameter")

	// ErrMultipleQParameters indicates a URL with two or more q query parameters.
	ErrMultipleQParameters = errors.New("request has multiple q query parameters")

	// ErrDifferentPaths indicates a join between URLs with different paths.
	ErrDifferentPaths = errors.New("requests have different paths")
)

// InvalidURLError indicates the source string could not be parsed as a URL.
// Reason carries the underlying parser message.
type InvalidURLError struct {
	Reason string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid URL: %s", e.Reason)
}

// DifferentHostsError indicates a join between URLs with different hosts.
// An empty field means the URL had no host component.
type DifferentHostsError struct {
	Left  string
	Right string
}

func (e *DifferentHostsError) Error() string {
	return fmt.Sprintf("requests have different hosts: %s vs %s",
		orNone(e.Left), orNone(e.Right))
}

// DifferentPortsError indicates a join between URLs with different ports.
// An empty field means the URL had no explicit port.
type DifferentPortsError struct {
	Left  string
	Right string
}

func (e *DifferentPortsError) Error() string {
	return fmt.Sprintf("requests have different ports: %s vs %s",
		orNone(e.Left), orNone(e.Right))
}

// orNone renders an absent URL component for error messages.
func orNone(s string) string {
	if s == "" {
		return "<none>"
	}
	return s
}
