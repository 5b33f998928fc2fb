// Package subquery implements the join algebra for Solr query URLs.
//
// A Query wraps a validated request URL whose query string carries exactly
// one `q` parameter. Two Queries addressed to the same collection endpoint
// (same host, port, and path) can be joined: the result's `q` is the
// conjunction of both operands, and the result additionally carries a
// negation URL whose `q` is the NOT-combination of the same operands.
//
// ALGEBRA:
//
// Join produces both halves of the pairing in one operation:
//
//	A.Join(B).URL()                → ...?q=(a) AND (b)
//	A.Join(B).Inverse() → Q, true  → ...?q=(a) NOT (b)
//
// Joins are left-associative and nest textually:
//
//	A.Join(B).Join(C)              → ...?q=((a) AND (b)) AND (c)
//
// The negation of a chained result covers only the most recent operand
// (the NOT binds to the last join, not the accumulated conjunction). This
// is a deliberate property of the algebra, not an oversight.
//
// VALIDATION:
//
// Construction enforces the single-q invariant: a URL with zero `q`
// parameters fails with ErrMissingQParameter, one with two or more fails
// with ErrMultipleQParameters. Join preconditions are checked in order
// host → port → path, and the first mismatch wins.
//
// The `q` value itself is opaque text. This package never parses Solr
// query syntax, executes requests, or touches the network.
//
// PARAMETER ORDER:
//
// url.Values is map-backed and would scramble parameter order, so all
// query-string manipulation here works on RawQuery pair-by-pair. Non-q
// parameters of the second join operand survive verbatim, in their
// original positions, with the combined `q` written where the operand's
// `q` originally sat.
package subquery
