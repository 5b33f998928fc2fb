package subquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustQuery builds a Query or fails the test.
func mustQuery(t *testing.T, raw string) *Query {
	t.Helper()
	q, err := New(raw)
	require.NoError(t, err)
	return q
}

// mustDecoded returns the decoded display form or fails the test.
func mustDecoded(t *testing.T, q *Query) string {
	t.Helper()
	decoded, err := q.Decoded()
	require.NoError(t, err)
	return decoded
}

func TestJoin_CombinesQValues(t *testing.T) {
	first := mustQuery(t, "http://localhost:8983/solr/collection1/select?q=1:*")
	second := mustQuery(t, "http://localhost:8983/solr/collection1/select?q=2:*")

	joined, err := first.Join(second)
	require.NoError(t, err)

	assert.Equal(t,
		"http://localhost:8983/solr/collection1/select?q=(1:*) AND (2:*)",
		mustDecoded(t, joined))

	inverse, ok := joined.Inverse()
	require.True(t, ok)
	assert.Equal(t,
		"http://localhost:8983/solr/collection1/select?q=(1:*) NOT (2:*)",
		mustDecoded(t, inverse))
}

func TestJoin_CanonicalFormIsEncoded(t *testing.T) {
	first := mustQuery(t, "http://localhost:8983/solr/collection1/select?q=1:*")
	second := mustQuery(t, "http://localhost:8983/solr/collection1/select?q=2:*")

	joined, err := first.Join(second)
	require.NoError(t, err)

	// URL() keeps the query string percent-encoded; spaces become '+'.
	assert.NotContains(t, joined.URL(), " ")
	assert.Contains(t, joined.URL(), "+AND+")
}

func TestJoin_LeftAssociative(t *testing.T) {
	first := mustQuery(t, "http://localhost:8983/solr/collection1/select?q=1:*")
	second := mustQuery(t, "http://localhost:8983/solr/collection1/select?q=2:*")
	third := mustQuery(t, "http://localhost:8983/solr/collection1/select?q=3:*")

	joined, err := first.Join(second)
	require.NoError(t, err)
	joined, err = joined.Join(third)
	require.NoError(t, err)

	assert.Equal(t,
		"http://localhost:8983/solr/collection1/select?q=((1:*) AND (2:*)) AND (3:*)",
		mustDecoded(t, joined))

	// The negation covers only the most recent operand.
	inverse, ok := joined.Inverse()
	require.True(t, ok)
	assert.Equal(t,
		"http://localhost:8983/solr/collection1/select?q=((1:*) AND (2:*)) NOT (3:*)",
		mustDecoded(t, inverse))
}

func TestJoin_FourWay(t *testing.T) {
	base := "http://localhost:8983/solr/collection1/select?q="
	joined := mustQuery(t, base+"1:*")

	var err error
	for _, raw := range []string{base + "2:*", base + "3:*", base + "4:*"} {
		joined, err = joined.Join(mustQuery(t, raw))
		require.NoError(t, err)
	}

	assert.Equal(t,
		"http://localhost:8983/solr/collection1/select?q=(((1:*) AND (2:*)) AND (3:*)) AND (4:*)",
		mustDecoded(t, joined))

	inverse, ok := joined.Inverse()
	require.True(t, ok)
	assert.Equal(t,
		"http://localhost:8983/solr/collection1/select?q=(((1:*) AND (2:*)) AND (3:*)) NOT (4:*)",
		mustDecoded(t, inverse))
}

func TestJoin_DifferentHosts(t *testing.T) {
	first := mustQuery(t, "http://localhost1:8983/solr/collection1/select?q=*:*")
	second := mustQuery(t, "http://localhost2:8983/solr/collection1/select?q=*:*")

	joined, err := first.Join(second)
	assert.Nil(t, joined)

	var hostErr *DifferentHostsError
	require.ErrorAs(t, err, &hostErr)
	assert.Equal(t, "localhost1", hostErr.Left)
	assert.Equal(t, "localhost2", hostErr.Right)
}

func TestJoin_DifferentPorts(t *testing.T) {
	first := mustQuery(t, "http://localhost:8983/solr/collection1/select?q=*:*")
	second := mustQuery(t, "http://localhost:8984/solr/collection1/select?q=*:*")

	joined, err := first.Join(second)
	assert.Nil(t, joined)

	var portErr *DifferentPortsError
	require.ErrorAs(t, err, &portErr)
	assert.Equal(t, "8983", portErr.Left)
	assert.Equal(t, "8984", portErr.Right)
}

func TestJoin_MissingPortReportedAsAbsent(t *testing.T) {
	first := mustQuery(t, "http://localhost:8983/solr/collection1/select?q=*:*")
	second := mustQuery(t, "http://localhost/solr/collection1/select?q=*:*")

	_, err := first.Join(second)

	var portErr *DifferentPortsError
	require.ErrorAs(t, err, &portErr)
	assert.Equal(t, "8983", portErr.Left)
	assert.Equal(t, "", portErr.Right)
}

func TestJoin_DifferentPaths(t *testing.T) {
	first := mustQuery(t, "http://localhost:8983/solr/collection1/select?q=*:*")
	second := mustQuery(t, "http://localhost:8983/solr/collection2/select?q=*:*")

	joined, err := first.Join(second)
	assert.Nil(t, joined)
	assert.ErrorIs(t, err, ErrDifferentPaths)
}

func TestJoin_CheckOrderHostFirst(t *testing.T) {
	// Host, port, and path all differ; the host mismatch must win.
	first := mustQuery(t, "http://localhost1:8983/solr/collection1/select?q=*:*")
	second := mustQuery(t, "http://localhost2:8984/solr/collection2/select?q=*:*")

	_, err := first.Join(second)

	var hostErr *DifferentHostsError
	assert.ErrorAs(t, err, &hostErr)
}

func TestJoin_CheckOrderPortBeforePath(t *testing.T) {
	first := mustQuery(t, "http://localhost:8983/solr/collection1/select?q=*:*")
	second := mustQuery(t, "http://localhost:8984/solr/collection2/select?q=*:*")

	_, err := first.Join(second)

	var portErr *DifferentPortsError
	assert.ErrorAs(t, err, &portErr)
}

func TestJoin_PreservesOtherParameters(t *testing.T) {
	first := mustQuery(t, "http://localhost:8983/solr/collection1/select?q=1:*")
	second := mustQuery(t, "http://localhost:8983/solr/collection1/select?rows=10&q=2:*&fl=id,name")

	joined, err := first.Join(second)
	require.NoError(t, err)

	// Parameters keep their original order; q keeps its slot.
	assert.Equal(t,
		"http://localhost:8983/solr/collection1/select?rows=10&q=(1:*) AND (2:*)&fl=id,name",
		mustDecoded(t, joined))
}

func TestJoin_OperandsUnchanged(t *testing.T) {
	first := mustQuery(t, "http://localhost:8983/solr/collection1/select?q=1:*")
	second := mustQuery(t, "http://localhost:8983/solr/collection1/select?q=2:*")

	_, err := first.Join(second)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8983/solr/collection1/select?q=1:*", first.URL())
	assert.Equal(t, "http://localhost:8983/solr/collection1/select?q=2:*", second.URL())
}
