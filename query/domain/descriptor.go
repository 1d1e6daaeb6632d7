package domain

import "strings"

// DefaultLimit is the row limit of a new query descriptor.
const DefaultLimit = 100000

// Params holds bound parameter values keyed by name, without the placeholder prefix.
type Params map[string]any

// Clone returns a shallow copy of p. A nil map stays nil.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// ColumnValues maps column names to the values written by an insert or update.
type ColumnValues map[string]any

// ReadScope records the read decision taken for a statement.
type ReadScope int

const (
	// ScopeUndecided means no permission decision was made.
	ScopeUndecided ReadScope = iota
	// ScopeUnrestricted means every row is readable.
	ScopeUnrestricted
	// ScopeOwner restricts rows to those created by the caller.
	ScopeOwner
	// ScopeBusinessUnit restricts rows to authorized business units.
	ScopeBusinessUnit
	// ScopeNone matches no rows.
	ScopeNone
)

// String returns the name of the scope.
func (s ReadScope) String() string {
	switch s {
	case ScopeUndecided:
		return "undecided"
	case ScopeUnrestricted:
		return "unrestricted"
	case ScopeOwner:
		return "owner"
	case ScopeBusinessUnit:
		return "businessunit"
	case ScopeNone:
		return "none"
	default:
		return "unknown"
	}
}

// Decided reports whether a permission decision was recorded.
func (s ReadScope) Decided() bool {
	return s != ScopeUndecided
}

// QueryDescriptor is a structured SELECT description.
//
// Table, Columns, Join, Filter, GroupBy, Having and OrderBy are inserted into
// the statement as raw text. They must come from trusted code, never from
// external input; only Params values are bound.
type QueryDescriptor struct {
	Table   string
	Columns string
	Join    string
	Filter  string
	GroupBy string
	Having  string
	OrderBy string
	Limit   int
	Params  Params
	Scope   ReadScope
}

// NewQueryDescriptor returns a descriptor selecting every column of table.
func NewQueryDescriptor(table string) *QueryDescriptor {
	return &QueryDescriptor{
		Table:   table,
		Columns: "*",
		Limit:   DefaultLimit,
	}
}

// AddFilter appends a condition, joining with AND only when a filter exists.
func (d *QueryDescriptor) AddFilter(condition string) {
	if strings.TrimSpace(d.Filter) != "" {
		d.Filter += " AND "
	}
	d.Filter += condition
}

// Bind sets a parameter value, allocating Params when needed.
func (d *QueryDescriptor) Bind(name string, value any) {
	if d.Params == nil {
		d.Params = Params{}
	}
	d.Params[name] = value
}
