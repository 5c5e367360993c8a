package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/glowcart/api/internal/domain"
)

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// UnitOfWork allows grouping repository operations in a transactional boundary.
type UnitOfWork interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// OrderRepository persists customer orders.
type OrderRepository interface {
	FindByID(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error
	Delete(ctx context.Context, orderID uuid.UUID) error
}

// PaymentTransactionRepository persists gateway payment transactions.
type PaymentTransactionRepository interface {
	Insert(ctx context.Context, txn domain.PaymentTransaction) error
	FindByTransactionID(ctx context.Context, transactionID string) (domain.PaymentTransaction, error)
	// ResolvePending applies a terminal status and response timestamp if and
	// only if the stored status is still Pending. The check-and-set must be
	// atomic with respect to concurrent callers: exactly one resolution wins
	// and every other caller observes a conflict carrying the current status.
	ResolvePending(ctx context.Context, transactionID string, status domain.PaymentStatus, at time.Time) (domain.PaymentTransaction, error)
}

// KolVideoRepository persists affiliate promotional videos.
type KolVideoRepository interface {
	Insert(ctx context.Context, video domain.KolVideo) error
	FindByID(ctx context.Context, videoID uuid.UUID) (domain.KolVideo, error)
	ListByAffiliateProfileID(ctx context.Context, profileID uuid.UUID) ([]domain.KolVideo, error)
	ListAll(ctx context.Context) ([]domain.KolVideo, error)
	Update(ctx context.Context, video domain.KolVideo) error
	Delete(ctx context.Context, videoID uuid.UUID) error
}

// AffiliateProfileRepository reads affiliate enrollment records. Profiles are
// created elsewhere; this core only resolves them.
type AffiliateProfileRepository interface {
	FindByUserID(ctx context.Context, userID int) (domain.AffiliateProfile, error)
}
