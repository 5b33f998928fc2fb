// Package testutil provides shared helpers for tests across packages.
package testutil

import (
	"testing"

	"github.com/solrtools/subq/internal/subquery"
)

// MustQuery constructs a query from raw or fails the test.
func MustQuery(t *testing.T, raw string) *subquery.Query {
	t.Helper()
	q, err := subquery.New(raw)
	if err != nil {
		t.Fatalf("constructing query from %q: %v", raw, err)
	}
	return q
}

// MustQueries constructs a query per raw URL, in order.
func MustQueries(t *testing.T, raws ...string) []*subquery.Query {
	t.Helper()
	queries := make([]*subquery.Query, len(raws))
	for i, raw := range raws {
		queries[i] = MustQuery(t, raw)
	}
	return queries
}

// MustDecoded returns a query's decoded display form or fails the test.
func MustDecoded(t *testing.T, q *subquery.Query) string {
	t.Helper()
	decoded, err := q.Decoded()
	if err != nil {
		t.Fatalf("decoding %q: %v", q.URL(), err)
	}
	return decoded
}
