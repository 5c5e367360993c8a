package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/glowcart/api/internal/domain"
	"github.com/glowcart/api/internal/repositories"
)

// PaymentTransactionRepository is the GORM-backed payment transaction store.
type PaymentTransactionRepository struct {
	db *gorm.DB
}

// NewPaymentTransactionRepository constructs a Postgres-backed transaction repository.
func NewPaymentTransactionRepository(db *gorm.DB) (*PaymentTransactionRepository, error) {
	if db == nil {
		return nil, errors.New("payment transaction repository requires database handle")
	}
	return &PaymentTransactionRepository{db: db}, nil
}

// Insert stores a new payment transaction.
func (r *PaymentTransactionRepository) Insert(ctx context.Context, txn domain.PaymentTransaction) error {
	model := toTransactionModel(txn)
	if err := session(ctx, r.db).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repositories.NewConflictError("transaction %s already exists", txn.TransactionID)
		}
		return repositories.NewUnavailableError("payment_transactions.insert: %v", err)
	}
	return nil
}

// FindByTransactionID loads a single transaction.
func (r *PaymentTransactionRepository) FindByTransactionID(ctx context.Context, transactionID string) (domain.PaymentTransaction, error) {
	var model PaymentTransactionModel
	err := session(ctx, r.db).First(&model, "transaction_id = ?", transactionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.PaymentTransaction{}, repositories.NewNotFoundError("transaction %s not found", transactionID)
		}
		return domain.PaymentTransaction{}, repositories.NewUnavailableError("payment_transactions.find: %v", err)
	}
	return toDomainTransaction(model), nil
}

// ResolvePending applies a terminal status with a guarded single-statement
// update. The WHERE clause pins the stored status to Pending so concurrent
// resolutions race on the database row and exactly one wins.
func (r *PaymentTransactionRepository) ResolvePending(ctx context.Context, transactionID string, status domain.PaymentStatus, at time.Time) (domain.PaymentTransaction, error) {
	db := session(ctx, r.db)

	res := db.Model(&PaymentTransactionModel{}).
		Where("transaction_id = ? AND status = ?", transactionID, int(domain.PaymentStatusPending)).
		Updates(map[string]any{
			"status":        int(status),
			"response_time": at.UTC(),
		})
	if res.Error != nil {
		return domain.PaymentTransaction{}, repositories.NewUnavailableError("payment_transactions.resolve: %v", res.Error)
	}
	if res.RowsAffected == 0 {
		// The guard missed. Re-read to tell a missing row apart from one
		// already resolved by a concurrent caller.
		var current PaymentTransactionModel
		err := db.First(&current, "transaction_id = ?", transactionID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.PaymentTransaction{}, repositories.NewNotFoundError("transaction %s not found", transactionID)
		}
		if err != nil {
			return domain.PaymentTransaction{}, repositories.NewUnavailableError("payment_transactions.resolve: %v", err)
		}
		return domain.PaymentTransaction{}, repositories.NewConflictError(
			"transaction %s is %s, not pending", transactionID, domain.PaymentStatus(current.Status))
	}

	var model PaymentTransactionModel
	if err := db.First(&model, "transaction_id = ?", transactionID).Error; err != nil {
		return domain.PaymentTransaction{}, repositories.NewUnavailableError("payment_transactions.resolve: %v", err)
	}
	return toDomainTransaction(model), nil
}
