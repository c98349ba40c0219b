// Package tx carries a SQL transaction through context so independent
// stores sharing one database can join the same transaction.
package tx

import (
	"context"
	"database/sql"
	"fmt"
)

type ctxKey struct{}

var txKey = ctxKey{}

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// Runner executes functions inside a database transaction. Stores that
// resolve their executor through From join the transaction automatically.
type Runner struct {
	db *sql.DB
}

// NewRunner constructs a Runner over the shared database handle.
func NewRunner(db *sql.DB) *Runner {
	return &Runner{db: db}
}

// RunInTx begins a transaction, runs fn with it in context, and commits.
// Any error from fn rolls the transaction back and is returned.
func (r *Runner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	transaction, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(WithTx(ctx, transaction)); err != nil {
		_ = transaction.Rollback()
		return err
	}
	if err := transaction.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Passthrough runs functions directly, without a transaction. Used with
// stores that have no shared database, such as the in-memory ones.
type Passthrough struct{}

// RunInTx invokes fn with the unmodified context.
func (Passthrough) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
