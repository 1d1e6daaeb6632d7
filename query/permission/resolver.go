// Package permission turns a caller's read grants into row filters.
package permission

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/satishbabariya/recordguard/query/builder"
	"github.com/satishbabariya/recordguard/query/domain"
	"github.com/satishbabariya/recordguard/query/sqlgen"
)

// Parameter names bound by the resolver.
const (
	CallerUserParam         = "callerUserId"
	CallerBusinessUnitParam = "callerBusinessUnit"
	businessUnitParamPrefix = "bu"
)

// Decision is the outcome of a by-id read check.
type Decision struct {
	// Predicate restricts the lookup; empty when the read is unrestricted.
	Predicate string
	Params    domain.Params
	Scope     domain.ReadScope
}

// Apply narrows a by-id statement with the decision.
func (d Decision) Apply(s builder.SelectStatement) builder.SelectStatement {
	return s.AndWhere(d.Predicate).BindAll(d.Params).Scope(d.Scope)
}

// Resolver decides which rows a caller may read.
type Resolver struct {
	cols   builder.Columns
	logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithColumns sets the audit column names.
func WithColumns(cols builder.Columns) Option {
	return func(r *Resolver) {
		r.cols = cols.WithDefaults()
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a Resolver using the default column names.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		cols:   builder.DefaultColumns(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveByID decides a single-record read from the first grant only.
func (r *Resolver) ResolveByID(ec domain.ExecutionContext) (Decision, error) {
	grant, ok := ec.FirstGrant()
	if !ok {
		return Decision{}, domain.NewAccessError("", domain.Denied, "no read grant")
	}

	var d Decision
	switch grant.Read {
	case domain.Denied:
		r.logger.Debug("by-id read denied", "user", ec.CallerUserID)
		return Decision{}, domain.NewAccessError("", grant.Read, "read denied")

	case domain.Owner:
		d = Decision{
			Predicate: r.cols.CreatorID + " = " + sqlgen.Placeholder(CallerUserParam),
			Params:    domain.Params{CallerUserParam: ec.CallerUserID},
			Scope:     domain.ScopeOwner,
		}

	case domain.BusinessUnit:
		d = Decision{
			Predicate: r.cols.BusinessUnitID + " = " + sqlgen.Placeholder(CallerBusinessUnitParam),
			Params:    domain.Params{CallerBusinessUnitParam: ec.CallerBusinessUnit},
			Scope:     domain.ScopeBusinessUnit,
		}

	default:
		d = Decision{Scope: domain.ScopeUnrestricted}
	}

	r.logger.Debug("by-id read resolved", "user", ec.CallerUserID, "level", grant.Read, "scope", d.Scope)
	return d, nil
}

// ApplyToQuery narrows a multi-row query from the first grant.
//
// Denied yields the always-false filter 1=2 and no error. Owner restricts to
// the caller's records. BusinessUnit restricts to every business unit held
// with a business-unit read grant, in grant order. Any other first grant,
// Unrestricted included, or no grants at all is an authorization error.
func (r *Resolver) ApplyToQuery(ec domain.ExecutionContext, q *domain.QueryDescriptor) error {
	grant, ok := ec.FirstGrant()
	if !ok {
		return domain.NewAccessError(q.Table, domain.Denied, "no read grant")
	}

	if q.Params == nil {
		q.Params = domain.Params{}
	}

	switch grant.Read {
	case domain.Denied:
		q.AddFilter("1=2")
		q.Scope = domain.ScopeNone

	case domain.Owner:
		q.AddFilter(q.Table + "." + r.cols.CreatorID + " = " + sqlgen.Placeholder(CallerUserParam))
		q.Bind(CallerUserParam, ec.CallerUserID)
		q.Scope = domain.ScopeOwner

	case domain.BusinessUnit:
		var placeholders []string
		for _, g := range ec.Grants {
			if g.Read != domain.BusinessUnit {
				continue
			}
			name := businessUnitParamPrefix + strconv.Itoa(len(placeholders))
			q.Bind(name, g.BusinessUnitID)
			placeholders = append(placeholders, sqlgen.Placeholder(name))
		}
		q.AddFilter(q.Table + "." + r.cols.BusinessUnitID + " IN (" + strings.Join(placeholders, ", ") + ")")
		q.Scope = domain.ScopeBusinessUnit

	default:
		r.logger.Debug("query read not granted", "table", q.Table, "user", ec.CallerUserID, "level", grant.Read)
		return domain.NewAccessError(q.Table, grant.Read, "read not granted")
	}

	r.logger.Debug("query read resolved", "table", q.Table, "user", ec.CallerUserID, "level", grant.Read, "scope", q.Scope)
	return nil
}
