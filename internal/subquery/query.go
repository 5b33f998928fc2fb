package subquery

import (
	"net/url"

	"golang.org/x/text/unicode/norm"
)

// Query is a validated Solr request URL carrying exactly one q parameter.
//
// A Query is immutable after construction. Join never modifies its
// operands; it returns a fresh Query whose negation records the paired
// NOT-combination. A Query that has not participated in a join has no
// negation.
type Query struct {
	u        url.URL
	negation *url.URL
}

// New parses and validates a Solr request URL.
//
// Fails with *InvalidURLError when the string cannot be parsed, with
// ErrMissingQParameter when the URL carries no q parameter, and with
// ErrMultipleQParameters when it carries more than one.
func New(raw string) (*Query, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &InvalidURLError{Reason: err.Error()}
	}
	return FromURL(u)
}

// FromURL validates an already parsed URL. The URL is copied, so later
// mutation of the argument does not affect the Query.
func FromURL(u *url.URL) (*Query, error) {
	values, err := paramValues(u, "q")
	if err != nil {
		return nil, &InvalidURLError{Reason: err.Error()}
	}

	switch len(values) {
	case 0:
		return nil, ErrMissingQParameter
	case 1:
		return &Query{u: *u}, nil
	default:
		return nil, ErrMultipleQParameters
	}
}

// URL returns the canonical percent-encoded string form of the request.
func (q *Query) URL() string {
	return q.u.String()
}

// Decoded returns the request URL percent-decoded for display, with the
// result NFC-normalized. Spaces inside the q value come back as literal
// spaces rather than '+'.
func (q *Query) Decoded() (string, error) {
	decoded, err := url.QueryUnescape(q.URL())
	if err != nil {
		return "", &InvalidURLError{Reason: err.Error()}
	}
	return norm.NFC.String(decoded), nil
}

// Inverse returns the Query built from the negation recorded by the most
// recent join. The second return is false for a Query that has never
// participated in a join: such a Query has nothing to negate.
func (q *Query) Inverse() (*Query, bool) {
	if q.negation == nil {
		return nil, false
	}
	return &Query{u: *q.negation}, true
}

// qValue extracts the single q value, re-applying the zero/one/many rule.
func (q *Query) qValue() (string, error) {
	values, err := paramValues(&q.u, "q")
	if err != nil {
		return "", &InvalidURLError{Reason: err.Error()}
	}

	switch len(values) {
	case 0:
		return "", ErrMissingQParameter
	case 1:
		return values[0], nil
	default:
		return "", ErrMultipleQParameters
	}
}
