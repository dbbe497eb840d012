package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	subscriptionstore "newsletter/internal/subscription/store"
	"newsletter/pkg/platform/sentinel"
)

const defaultSubscriptionTxTimeout = 5 * time.Second

// subscriptionPostgresTx runs subscriber+token writes inside one database
// transaction. Any error from fn aborts the transaction, so readers never
// observe a subscriber row without its token.
type subscriptionPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newSubscriptionPostgresTx(db *sql.DB) *subscriptionPostgresTx {
	return &subscriptionPostgresTx{db: db}
}

func (t *subscriptionPostgresTx) RunInTx(ctx context.Context, fn func(store subscriptionstore.TxStore) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: context cancelled: %w", err)
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultSubscriptionTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %v: %w", err, sentinel.ErrUnavailable)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(subscriptionstore.NewPostgresTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %v: %w", err, sentinel.ErrUnavailable)
	}
	return nil
}
