package plugin

import (
	"context"
	"fmt"

	"github.com/satishbabariya/recordguard/query/domain"
)

// Invocation is what a plugin receives: the caller, the store and the record.
type Invocation struct {
	Store    Store
	Context  domain.ExecutionContext
	Model    *RecordModel
	RecordID string
	UserName string
}

// UserID returns the caller's user id.
func (inv *Invocation) UserID() string {
	return inv.Context.CallerUserID
}

// BusinessUnit returns the caller's business unit.
func (inv *Invocation) BusinessUnit() string {
	return inv.Context.CallerBusinessUnit
}

// Execute runs the plugins in order and stops at the first failure.
func (inv *Invocation) Execute(ctx context.Context, reg *Registry, plugins []EntityPlugin) error {
	for _, ep := range plugins {
		p, err := reg.Get(ep.PluginID)
		if err != nil {
			return err
		}
		if err := p.Execute(ctx, inv); err != nil {
			return fmt.Errorf("plugin %s on %s: %w", ep.PluginID, ep.Entity, err)
		}
	}
	return nil
}

// LoadRecord reads the invocation's record through the store into the model.
// It returns false when the caller cannot see the record or it does not exist.
func (inv *Invocation) LoadRecord(ctx context.Context, table string) (bool, error) {
	id := inv.RecordID
	if id == "" && inv.Model != nil {
		id = inv.Model.ID
	}

	row, err := inv.Store.GetRecordByID(ctx, inv.Context, table, id)
	if err != nil || row == nil {
		return false, err
	}

	if inv.Model == nil {
		inv.Model = &RecordModel{}
	}
	inv.Model.Table = table
	inv.Model.ID = id
	inv.Model.ColumnValues = domain.ColumnValues(row.Map())
	inv.RecordID = id
	return true, nil
}
