// Package db holds GORM helpers shared by the repositories: a context-carried
// transaction and reusable query scopes.
package db

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// Transactor runs fn inside one transaction. Repositories called with the ctx
// handed to fn join it through GetTxFromContext.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type TransactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// RunInTransaction commits when fn returns nil and rolls back otherwise. A ctx
// that already carries a transaction is reused rather than nested.
func (tm *TransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFrom(ctx); ok {
		return fn(ctx)
	}
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// GetTxFromContext returns the transaction in ctx, or fallback bound to ctx
// when there is none.
func GetTxFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}

func txFrom(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	return tx, ok
}
