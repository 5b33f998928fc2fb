package subquery

// Operator is the boolean connective used when two q values are combined.
//
// Join exercises And and Not. Or is part of the algebra's vocabulary but
// no exported operation currently emits it.
type Operator int

const (
	// And combines two q values conjunctively.
	And Operator = iota + 1
	// Or combines two q values disjunctively.
	Or
	// Not combines two q values as "first and not second".
	Not
)

// String renders the operator the way it appears inside a combined q value.
func (op Operator) String() string {
	switch op {
	case And:
		return "AND"
	case Or:
		return "OR"
	case Not:
		return "NOT"
	default:
		return "UNKNOWN"
	}
}
