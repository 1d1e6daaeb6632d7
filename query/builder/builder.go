// Package builder renders SELECT, INSERT and UPDATE statements from structured input.
//
// Table names, column lists, joins, filters, grouping, having and ordering
// fragments are copied into the statement text verbatim. They form a trust
// boundary: only internal code may produce them. Values always travel as
// bound parameters.
package builder

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/satishbabariya/recordguard/query/domain"
)

// Columns names the identifier and audit columns.
type Columns struct {
	ID             string
	CreatorID      string
	BusinessUnitID string
}

// DefaultColumns returns the default identifier and audit column names.
func DefaultColumns() Columns {
	return Columns{
		ID:             "id",
		CreatorID:      "creatorId",
		BusinessUnitID: "businessUnitId",
	}
}

// WithDefaults fills empty names from DefaultColumns.
func (c Columns) WithDefaults() Columns {
	d := DefaultColumns()
	if strings.TrimSpace(c.ID) == "" {
		c.ID = d.ID
	}
	if strings.TrimSpace(c.CreatorID) == "" {
		c.CreatorID = d.CreatorID
	}
	if strings.TrimSpace(c.BusinessUnitID) == "" {
		c.BusinessUnitID = d.BusinessUnitID
	}
	return c
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validColumn checks that a column name can double as a placeholder name.
func validColumn(name string) error {
	if !identifierPattern.MatchString(name) {
		return domain.NewValidationError(name, "column name must be a plain identifier")
	}
	return nil
}

// distinctColumn records name in seen and rejects a second spelling of it.
func distinctColumn(seen map[string]string, name string) error {
	key := strings.ToLower(name)
	if prev, ok := seen[key]; ok {
		return domain.NewValidationError(name, fmt.Sprintf("duplicates column %s", prev))
	}
	seen[key] = name
	return nil
}

// findColumn returns the key of values matching name, ignoring case.
func findColumn(values domain.ColumnValues, name string) (string, bool) {
	if _, ok := values[name]; ok {
		return name, true
	}
	for k := range values {
		if strings.EqualFold(k, name) {
			return k, true
		}
	}
	return "", false
}
