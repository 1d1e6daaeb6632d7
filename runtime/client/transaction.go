package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/satishbabariya/recordguard/query/domain"
)

// TransactionFunc runs with an execution context bound to the transaction.
type TransactionFunc func(ec domain.ExecutionContext) error

// Transaction runs fn inside a database transaction, replacing ec's
// connection with the transaction. It rolls back when fn returns an error or
// panics, and commits otherwise.
func (c *Client) Transaction(ctx context.Context, ec domain.ExecutionContext, fn TransactionFunc) error {
	return c.TransactionWithOptions(ctx, ec, nil, fn)
}

// ReadOnlyTransaction runs fn in a read-only transaction.
func (c *Client) ReadOnlyTransaction(ctx context.Context, ec domain.ExecutionContext, fn TransactionFunc) error {
	return c.TransactionWithOptions(ctx, ec, &sql.TxOptions{ReadOnly: true}, fn)
}

// TransactionWithOptions executes a transaction with custom options
func (c *Client) TransactionWithOptions(ctx context.Context, ec domain.ExecutionContext, opts *sql.TxOptions, fn TransactionFunc) error {
	tx, err := c.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	ec.Conn = tx
	if err := fn(ec); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
