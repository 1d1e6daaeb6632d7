package builder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/satishbabariya/recordguard/query/domain"
	"github.com/satishbabariya/recordguard/query/sqlgen"
)

// InsertStatement is a rendered INSERT together with the surrogate id it writes.
type InsertStatement struct {
	sqlgen.Statement
	SurrogateID string
}

// BuildInsert renders INSERT INTO <table> (<cols>) VALUES (@col, ...).
//
// A surrogate id is generated when values carries none. The creator column is
// always bound to callerUserID, replacing any supplied value. The business
// unit column is bound to callerBusinessUnit only when values lacks it.
// Column order is the caller's columns sorted, then the generated id, the
// creator and the business unit. Names differing only in case are rejected.
// values is not modified.
func BuildInsert(table string, values domain.ColumnValues, callerUserID, callerBusinessUnit string, cols Columns) (InsertStatement, error) {
	cols = cols.WithDefaults()

	if len(values) == 0 {
		return InsertStatement{}, domain.NewValidationError("values", "no columns to insert")
	}

	var names []string
	seen := make(map[string]string, len(values))
	for name := range values {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if err := validColumn(name); err != nil {
			return InsertStatement{}, err
		}
		if err := distinctColumn(seen, name); err != nil {
			return InsertStatement{}, err
		}
		if strings.EqualFold(name, cols.CreatorID) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	params := make(domain.Params, len(names)+3)
	for _, name := range names {
		params[name] = values[name]
	}

	var surrogate string
	if key, ok := findColumn(values, cols.ID); ok {
		surrogate = fmt.Sprint(values[key])
	} else {
		surrogate = uuid.New().String()
		names = append(names, cols.ID)
		params[cols.ID] = surrogate
	}

	names = append(names, cols.CreatorID)
	params[cols.CreatorID] = callerUserID

	if _, ok := findColumn(values, cols.BusinessUnitID); !ok {
		names = append(names, cols.BusinessUnitID)
		params[cols.BusinessUnitID] = callerBusinessUnit
	}

	placeholders := make([]string, len(names))
	for i, name := range names {
		placeholders[i] = sqlgen.Placeholder(name)
	}

	text := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(names, ", "), strings.Join(placeholders, ", "))

	return InsertStatement{
		Statement:   sqlgen.Statement{Text: text, Params: params},
		SurrogateID: surrogate,
	}, nil
}
