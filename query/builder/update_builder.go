package builder

import (
	"sort"
	"strings"

	"github.com/satishbabariya/recordguard/query/domain"
	"github.com/satishbabariya/recordguard/query/sqlgen"
)

// BuildUpdate renders UPDATE <table> SET a = @a, b = @b WHERE <id> = @<id>.
// Columns are sorted. The id column cannot be set.
func BuildUpdate(table string, recordID any, values domain.ColumnValues, cols Columns) (sqlgen.Statement, error) {
	cols = cols.WithDefaults()

	if len(values) == 0 {
		return sqlgen.Statement{}, domain.NewValidationError("values", "no columns to update")
	}

	names := make([]string, 0, len(values))
	seen := make(map[string]string, len(values))
	for name := range values {
		if strings.TrimSpace(name) == "" {
			return sqlgen.Statement{}, domain.NewValidationError("values", "blank column name")
		}
		if err := validColumn(name); err != nil {
			return sqlgen.Statement{}, err
		}
		if err := distinctColumn(seen, name); err != nil {
			return sqlgen.Statement{}, err
		}
		if strings.EqualFold(name, cols.ID) {
			return sqlgen.Statement{}, domain.NewValidationError(name, "the id column cannot be updated")
		}
		names = append(names, name)
	}
	sort.Strings(names)

	params := make(domain.Params, len(names)+1)
	sets := make([]string, len(names))
	for i, name := range names {
		sets[i] = name + " = " + sqlgen.Placeholder(name)
		params[name] = values[name]
	}
	params[cols.ID] = recordID

	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(table)
	b.WriteString(" SET ")
	b.WriteString(strings.Join(sets, ", "))
	b.WriteString(" WHERE ")
	b.WriteString(cols.ID)
	b.WriteString(" = ")
	b.WriteString(sqlgen.Placeholder(cols.ID))

	return sqlgen.Statement{Text: b.String(), Params: params}, nil
}
