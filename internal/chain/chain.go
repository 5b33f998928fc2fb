// Package chain folds an ordered sequence of Solr subqueries into a
// cumulative left-associative join, one step at a time.
//
// A Chain is a single-pass iterator. The first Advance yields the first
// entry untouched; every later Advance consumes the two front entries,
// joins them, re-inserts the joined result at the front, and yields it.
// Once fewer than two entries remain the chain is permanently exhausted.
//
// For inputs A, B, C the fold yields:
//
//	A
//	A ⋈ B
//	(A ⋈ B) ⋈ C
//
// where ⋈ is subquery.Join. The chain provides no locking; callers
// sharing one across goroutines must serialize access themselves.
package chain

import (
	"fmt"

	"github.com/solrtools/subq/internal/subquery"
)

// Chain is a mutable ordered sequence of queries with a fold cursor.
type Chain struct {
	queries []*subquery.Query
	step    int
}

// New creates a chain over the given queries. The slice is copied; the
// order of the slice is the join order. An empty (or nil) input is valid
// and yields an immediately exhausted chain.
func New(queries []*subquery.Query) *Chain {
	c := &Chain{
		queries: make([]*subquery.Query, len(queries)),
	}
	copy(c.queries, queries)
	return c
}

// AddSubquery parses raw into a query and appends it to the end of the
// sequence. Construction errors propagate unchanged. Appending never
// triggers folding.
func (c *Chain) AddSubquery(raw string) error {
	q, err := subquery.New(raw)
	if err != nil {
		return err
	}
	c.queries = append(c.queries, q)
	return nil
}

// Len reports how many entries remain in the sequence.
func (c *Chain) Len() int {
	return len(c.queries)
}

// Advance performs one fold step and returns the partial result.
//
// The first call returns the first entry without consuming anything, or
// false for an empty chain. Later calls remove the two front entries,
// join them, re-insert the joined query at the front, and return it.
// Once fewer than two entries remain, Advance returns false on this and
// every subsequent call.
//
// A join failure between entries panics: every entry passed individual
// validation on the way in, so a cross-entry endpoint mismatch is a
// caller bug, not a runtime condition.
func (c *Chain) Advance() (*subquery.Query, bool) {
	if c.step == 0 {
		c.step++
		if len(c.queries) == 0 {
			return nil, false
		}
		return c.queries[0], true
	}

	if len(c.queries) < 2 {
		c.queries = c.queries[:0]
		return nil, false
	}

	first, second := c.queries[0], c.queries[1]
	joined, err := first.Join(second)
	if err != nil {
		panic(fmt.Sprintf("chain: join of validated queries failed: %v", err))
	}

	c.queries = append(c.queries[:0:0], c.queries[1:]...)
	c.queries[0] = joined
	c.step++
	return joined, true
}
