package client

import (
	"context"
	"strings"

	"github.com/satishbabariya/recordguard/query/builder"
	"github.com/satishbabariya/recordguard/query/domain"
	"github.com/satishbabariya/recordguard/query/sqlgen"
)

// CreatedRecord carries both identifiers of an inserted record.
type CreatedRecord struct {
	// ID is the surrogate id written to the id column.
	ID string
	// GeneratedID is the numeric id assigned by the store. It is zero when
	// the provider has no returning column configured.
	GeneratedID int64
}

// GetRecordByID reads one record the caller may see. It returns nil without
// touching the store when table is blank, and nil when no row matches.
func (c *Client) GetRecordByID(ctx context.Context, ec domain.ExecutionContext, table string, id any) (domain.Row, error) {
	if strings.TrimSpace(table) == "" {
		return nil, nil
	}

	d, err := c.resolver.ResolveByID(ec)
	if err != nil {
		return nil, err
	}

	stmt := d.Apply(builder.ByID(table, c.cols, id)).Render()

	row, found, err := c.exec.FetchByID(ctx, stmt, id, c.withConn(ec))
	if err != nil || !found {
		return nil, err
	}
	return row, nil
}

// Query narrows q to what the caller may read and returns the matching rows.
// q is modified in place.
func (c *Client) Query(ctx context.Context, ec domain.ExecutionContext, q *domain.QueryDescriptor) ([]domain.Row, error) {
	if err := c.resolver.ApplyToQuery(ec, q); err != nil {
		return nil, err
	}
	return c.exec.FetchMany(ctx, builder.BuildSelect(*q), c.withConn(ec))
}

// CreateRecord inserts values into table stamped with the caller's audit columns.
func (c *Client) CreateRecord(ctx context.Context, ec domain.ExecutionContext, table string, values domain.ColumnValues) (CreatedRecord, error) {
	ins, err := builder.BuildInsert(table, values, ec.CallerUserID, ec.CallerBusinessUnit, c.cols)
	if err != nil {
		return CreatedRecord{}, err
	}

	// without a way to read the generated id only the surrogate id is returned
	if !c.exec.ReturnsGeneratedID() {
		if err := c.exec.RunNonQuery(ctx, ins.Statement, c.withConn(ec)); err != nil {
			return CreatedRecord{}, err
		}
		c.logger.Debug("record created", "table", table, "id", ins.SurrogateID)
		return CreatedRecord{ID: ins.SurrogateID}, nil
	}

	generated, err := c.exec.InsertAndReturnID(ctx, ins.Statement, c.withConn(ec))
	if err != nil {
		return CreatedRecord{}, err
	}

	c.logger.Debug("record created", "table", table, "id", ins.SurrogateID, "generated_id", generated)
	return CreatedRecord{ID: ins.SurrogateID, GeneratedID: generated}, nil
}

// UpdateRecord sets values on the record with the given id.
func (c *Client) UpdateRecord(ctx context.Context, ec domain.ExecutionContext, table string, id any, values domain.ColumnValues) error {
	stmt, err := builder.BuildUpdate(table, id, values, c.cols)
	if err != nil {
		return err
	}
	if err := c.exec.RunNonQuery(ctx, stmt, c.withConn(ec)); err != nil {
		return err
	}

	c.logger.Debug("record updated", "table", table, "id", id, "columns", len(values))
	return nil
}

// ExecuteNonQuery runs a statement with named parameters and no result rows.
func (c *Client) ExecuteNonQuery(ctx context.Context, ec domain.ExecutionContext, text string, params domain.Params) error {
	return c.exec.RunNonQuery(ctx, sqlgen.Statement{Text: text, Params: params}, c.withConn(ec))
}
