package executor

import (
	"database/sql"
	"fmt"

	"github.com/satishbabariya/recordguard/query/domain"
	"github.com/satishbabariya/recordguard/runtime/types"
)

type scanOptions struct {
	// max stops reading after that many rows; zero reads all.
	max       int
	zeroDates bool
}

// scanRows maps result rows to domain rows in store column order.
func scanRows(rows *sql.Rows, opts scanOptions) ([]domain.Row, error) {
	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to get column types: %w", err)
	}

	names := make([]string, len(columnTypes))
	dbTypes := make([]string, len(columnTypes))
	for i, ct := range columnTypes {
		names[i] = ct.Name()
		dbTypes[i] = ct.DatabaseTypeName()
	}

	var out []domain.Row
	for rows.Next() {
		values := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(domain.Row, len(names))
		for i, v := range values {
			v = types.Decode(v, dbTypes[i])
			if opts.zeroDates && types.IsZeroDateTime(v, dbTypes[i]) {
				v = nil
			}
			row[i] = domain.Column{Name: names[i], Value: v}
		}
		out = append(out, row)

		if opts.max > 0 && len(out) >= opts.max {
			break
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return out, nil
}
