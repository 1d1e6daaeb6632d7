package domain

import (
	"context"
	"database/sql"
)

// PermissionGrant is a single grant held by a user for an entity.
// Only Read is consulted by the query engine.
type PermissionGrant struct {
	GranteeUserID  string
	BusinessUnitID string
	Read           Level
	Write          Level
	Delete         Level
	EntityName     string
}

// Conn is the store handle borrowed for one operation.
// *sql.DB, *sql.Conn and *sql.Tx all satisfy it.
type Conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// ExecutionContext describes the caller of one logical operation.
// It is built by the caller and never modified by the engine.
type ExecutionContext struct {
	CallerUserID       string
	CallerBusinessUnit string
	Grants             []PermissionGrant
	Conn               Conn
}

// FirstGrant returns the first grant in the sequence.
func (ec ExecutionContext) FirstGrant() (PermissionGrant, bool) {
	if len(ec.Grants) == 0 {
		return PermissionGrant{}, false
	}
	return ec.Grants[0], true
}
