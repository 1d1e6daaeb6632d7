package builder

import (
	"strconv"
	"strings"

	"github.com/satishbabariya/recordguard/query/domain"
	"github.com/satishbabariya/recordguard/query/sqlgen"
)

// SelectStatement is an immutable SELECT with one slot per clause.
// Every method returns a modified copy.
type SelectStatement struct {
	columns string
	table   string
	join    string
	where   string
	groupBy string
	having  string
	orderBy string
	limit   int
	params  domain.Params
	scope   domain.ReadScope
}

// Select starts a statement over table selecting all columns.
func Select(table string) SelectStatement {
	return SelectStatement{table: table, columns: "*"}
}

// Columns sets the column list.
func (s SelectStatement) Columns(columns string) SelectStatement {
	s.columns = columns
	return s
}

// Join sets the join clause.
func (s SelectStatement) Join(join string) SelectStatement {
	s.join = join
	return s
}

// Where replaces the filter.
func (s SelectStatement) Where(filter string) SelectStatement {
	s.where = filter
	return s
}

// AndWhere appends a condition with AND. The statement must already have a
// filter; by-id lookups always start from one.
func (s SelectStatement) AndWhere(condition string) SelectStatement {
	if condition == "" {
		return s
	}
	s.where = s.where + " AND " + condition
	return s
}

// GroupBy sets the grouping clause.
func (s SelectStatement) GroupBy(groupBy string) SelectStatement {
	s.groupBy = groupBy
	return s
}

// Having sets the having clause.
func (s SelectStatement) Having(having string) SelectStatement {
	s.having = having
	return s
}

// OrderBy sets the ordering clause.
func (s SelectStatement) OrderBy(orderBy string) SelectStatement {
	s.orderBy = orderBy
	return s
}

// Limit sets the row limit. Values <= 0 omit the clause.
func (s SelectStatement) Limit(limit int) SelectStatement {
	s.limit = limit
	return s
}

// Bind binds a parameter.
func (s SelectStatement) Bind(name string, value any) SelectStatement {
	params := s.params.Clone()
	if params == nil {
		params = domain.Params{}
	}
	params[name] = value
	s.params = params
	return s
}

// BindAll binds every parameter of p.
func (s SelectStatement) BindAll(p domain.Params) SelectStatement {
	for k, v := range p {
		s = s.Bind(k, v)
	}
	return s
}

// Scope records the read decision the statement was built under.
func (s SelectStatement) Scope(scope domain.ReadScope) SelectStatement {
	s.scope = scope
	return s
}

// Render produces the statement text:
//
//	SELECT <columns> FROM <table> [join] [WHERE ..] [GROUP BY ..] [HAVING ..] [ORDER BY ..] [LIMIT n]
func (s SelectStatement) Render() sqlgen.Statement {
	var b strings.Builder

	b.WriteString("SELECT ")
	b.WriteString(s.columns)
	b.WriteString(" FROM ")
	b.WriteString(s.table)

	if !blank(s.join) {
		b.WriteString(" ")
		b.WriteString(s.join)
	}
	if !blank(s.where) {
		b.WriteString(" WHERE ")
		b.WriteString(s.where)
	}
	if !blank(s.groupBy) {
		b.WriteString(" GROUP BY ")
		b.WriteString(s.groupBy)
	}
	if !blank(s.having) {
		b.WriteString(" HAVING ")
		b.WriteString(s.having)
	}
	if !blank(s.orderBy) {
		b.WriteString(" ORDER BY ")
		b.WriteString(s.orderBy)
	}
	if s.limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(s.limit))
	}

	return sqlgen.Statement{
		Text:   b.String(),
		Params: s.params.Clone(),
		Scope:  s.scope,
	}
}

// BuildSelect renders a descriptor.
func BuildSelect(d domain.QueryDescriptor) sqlgen.Statement {
	return Select(d.Table).
		Columns(d.Columns).
		Join(d.Join).
		Where(d.Filter).
		GroupBy(d.GroupBy).
		Having(d.Having).
		OrderBy(d.OrderBy).
		Limit(d.Limit).
		BindAll(d.Params).
		Scope(d.Scope).
		Render()
}

// ByID returns SELECT * FROM table WHERE <id> = @<id>, bound to id.
func ByID(table string, cols Columns, id any) SelectStatement {
	cols = cols.WithDefaults()
	return Select(table).
		Where(cols.ID + " = " + sqlgen.Placeholder(cols.ID)).
		Bind(cols.ID, id)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
