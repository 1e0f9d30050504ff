package types

import "reflect"

// Operator is a comparison operator in a Filter triple.
type Operator string

// Supported comparison operators.
const (
	OpEq   Operator = "eq"
	OpNeq  Operator = "neq"
	OpGt   Operator = "gt"
	OpGte  Operator = "gte"
	OpLt   Operator = "lt"
	OpLte  Operator = "lte"
	OpLike Operator = "like"
	OpIn   Operator = "in"
	OpIs   Operator = "is"
)

// validOperators is the set of recognized operator values.
var validOperators = map[Operator]bool{
	OpEq:   true,
	OpNeq:  true,
	OpGt:   true,
	OpGte:  true,
	OpLt:   true,
	OpLte:  true,
	OpLike: true,
	OpIn:   true,
	OpIs:   true,
}

// Valid reports whether op is a recognized operator.
func (op Operator) Valid() bool {
	return validOperators[op]
}

// Filter is one (column, operator, value) condition. Filters on a Descriptor
// are an ordered sequence, not a set: two descriptors with the same filters
// in a different order are not equal.
type Filter struct {
	Column   string
	Operator Operator
	Value    any
}

// Eq builds the most common filter, column = value.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Operator: OpEq, Value: value}
}

// equal compares two filters. Values are compared structurally so that
// filters carrying slices (e.g. the "in" operator) compare correctly.
func (f Filter) equal(other Filter) bool {
	return f.Column == other.Column &&
		f.Operator == other.Operator &&
		reflect.DeepEqual(f.Value, other.Value)
}

// Order is an optional ordering clause on fetch operations.
type Order struct {
	Column       string
	Ascending    bool
	NullsFirst   bool
	ForeignTable string // empty unless ordering on an embedded resource
}
