package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type txContextKey struct{}

// Open connects to Postgres and migrates the tables owned by this service.
func Open(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("postgres: dsn is required")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := db.AutoMigrate(
		&OrderModel{},
		&PaymentTransactionModel{},
		&KolVideoModel{},
		&AffiliateProfileModel{},
	); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return db, nil
}

// UnitOfWork groups repository calls into a single database transaction. The
// transaction handle travels in the context so repositories pick it up
// transparently.
type UnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork constructs a transaction boundary over db.
func NewUnitOfWork(db *gorm.DB) (*UnitOfWork, error) {
	if db == nil {
		return nil, errors.New("unit of work requires database handle")
	}
	return &UnitOfWork{db: db}, nil
}

// RunInTx executes fn inside a transaction. Repositories invoked with the
// context passed to fn join the same transaction; any error rolls it back.
func (u *UnitOfWork) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// session returns the transaction bound to ctx when RunInTx opened one, or a
// context-scoped handle on the base connection otherwise.
func session(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}
