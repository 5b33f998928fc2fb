package subquery

import "fmt"

// Join combines two queries addressed to the same collection endpoint.
//
// The result's URL carries q = "(<self_q>) AND (<other_q>)"; its negation
// carries q = "(<self_q>) NOT (<other_q>)". Every non-q parameter of
// other survives unchanged, in its original position. The receiver's own
// prior negation, if any, is not carried into the result.
//
// Fails when the two endpoints differ, checked in order: hosts
// (*DifferentHostsError), ports (*DifferentPortsError), then paths
// (ErrDifferentPaths).
func (q *Query) Join(other *Query) (*Query, error) {
	positive, err := q.merge(other, And)
	if err != nil {
		return nil, err
	}

	// Same precondition checks as above; only the operator differs, so
	// this merge cannot fail if the first one succeeded.
	negative, err := q.merge(other, Not)
	if err != nil {
		return nil, err
	}

	return &Query{
		u:        positive.u,
		negation: &negative.u,
	}, nil
}

// merge builds a new Query from other's URL with the combined q value
// written over other's q parameter.
func (q *Query) merge(other *Query, op Operator) (*Query, error) {
	if err := q.checkSameHost(other); err != nil {
		return nil, err
	}
	if err := q.checkSamePort(other); err != nil {
		return nil, err
	}
	if err := q.checkSamePath(other); err != nil {
		return nil, err
	}

	selfQ, err := q.qValue()
	if err != nil {
		return nil, err
	}
	otherQ, err := other.qValue()
	if err != nil {
		return nil, err
	}

	combined := fmt.Sprintf("(%s) %s (%s)", selfQ, op, otherQ)

	merged := other.u
	merged.RawQuery, err = replaceParam(other.u.RawQuery, "q", combined)
	if err != nil {
		return nil, &InvalidURLError{Reason: err.Error()}
	}

	// Exactly one q was written, so this re-validation always passes.
	return FromURL(&merged)
}

func (q *Query) checkSameHost(other *Query) error {
	if q.u.Hostname() == other.u.Hostname() {
		return nil
	}
	return &DifferentHostsError{
		Left:  q.u.Hostname(),
		Right: other.u.Hostname(),
	}
}

func (q *Query) checkSamePort(other *Query) error {
	if q.u.Port() == other.u.Port() {
		return nil
	}
	return &DifferentPortsError{
		Left:  q.u.Port(),
		Right: other.u.Port(),
	}
}

func (q *Query) checkSamePath(other *Query) error {
	if q.u.Path == other.u.Path {
		return nil
	}
	return ErrDifferentPaths
}
