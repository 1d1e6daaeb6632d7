package plugin

import (
	"context"
	"fmt"
	"time"

	"github.com/satishbabariya/recordguard/query/domain"
)

// TouchID is the registry id of the Touch plugin.
const TouchID = "touch"

// Touch stamps the modification time and user on the invocation's record.
type Touch struct {
	ModifiedOnColumn string
	ModifiedByColumn string
	Now              func() time.Time
}

// NewTouch creates a Touch plugin writing modifiedon and modifiedbyid.
func NewTouch() *Touch {
	return &Touch{
		ModifiedOnColumn: "modifiedon",
		ModifiedByColumn: "modifiedbyid",
		Now:              time.Now,
	}
}

// Execute implements Plugin.
func (t *Touch) Execute(ctx context.Context, inv *Invocation) error {
	if inv.Model == nil || inv.Model.Table == "" {
		return fmt.Errorf("touch: invocation has no record table")
	}

	id := inv.RecordID
	if id == "" {
		id = inv.Model.ID
	}
	if id == "" {
		return fmt.Errorf("touch: invocation has no record id")
	}

	return inv.Store.UpdateRecord(ctx, inv.Context, inv.Model.Table, id, domain.ColumnValues{
		t.ModifiedOnColumn: t.Now().UTC(),
		t.ModifiedByColumn: inv.UserID(),
	})
}

// RegisterBuiltins adds the built-in plugins to reg.
func RegisterBuiltins(reg *Registry) error {
	return reg.Register(TouchID, NewTouch())
}
