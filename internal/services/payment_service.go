package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	domain "github.com/glowcart/api/internal/domain"
	"github.com/glowcart/api/internal/payments"
	"github.com/glowcart/api/internal/repositories"
)

const defaultPaymentCurrency = "USD"

var (
	// ErrPaymentInvalidInput indicates the caller supplied invalid input parameters.
	ErrPaymentInvalidInput = errors.New("payment: invalid input")
	// ErrPaymentNotFound indicates no transaction exists for the given id.
	ErrPaymentNotFound = errors.New("payment: transaction not found")
	// ErrPaymentNotPending indicates the transaction already left the Pending state.
	ErrPaymentNotPending = errors.New("payment: transaction is not pending")
	// ErrOrderNotFound indicates the order is absent, including a dangling transaction link.
	ErrOrderNotFound = errors.New("payment: order not found")
	// ErrPaymentGateway indicates the payment gateway rejected or failed the request.
	ErrPaymentGateway = errors.New("payment: gateway error")
	// ErrPaymentUnavailable indicates payment dependencies are currently unavailable.
	ErrPaymentUnavailable = errors.New("payment: unavailable")
)

// PaymentServiceDeps wires the dependencies required by the payment service.
type PaymentServiceDeps struct {
	Transactions repositories.PaymentTransactionRepository
	Orders       repositories.OrderRepository
	UnitOfWork   repositories.UnitOfWork
	Provider     payments.Provider
	Clock        func() time.Time
	Logger       func(ctx context.Context, event string, fields map[string]any)
	// NewTransactionID overrides gateway transaction id generation, useful for tests.
	NewTransactionID func() string
	Currency         string
	SuccessURL       string
	CancelURL        string
}

type paymentService struct {
	transactions repositories.PaymentTransactionRepository
	orders       repositories.OrderRepository
	uow          repositories.UnitOfWork
	provider     payments.Provider
	now          func() time.Time
	logger       func(ctx context.Context, event string, fields map[string]any)
	newTxnID     func() string
	currency     string
	successURL   string
	cancelURL    string
}

// NewPaymentService constructs a PaymentService validating required dependencies.
func NewPaymentService(deps PaymentServiceDeps) (PaymentService, error) {
	if deps.Transactions == nil {
		return nil, errors.New("payment service: transaction repository is required")
	}
	if deps.Orders == nil {
		return nil, errors.New("payment service: order repository is required")
	}
	if deps.UnitOfWork == nil {
		return nil, errors.New("payment service: unit of work is required")
	}
	if deps.Provider == nil {
		return nil, errors.New("payment service: payment provider is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	newTxnID := deps.NewTransactionID
	if newTxnID == nil {
		newTxnID = func() string { return ulid.Make().String() }
	}
	currency := strings.ToUpper(strings.TrimSpace(deps.Currency))
	if currency == "" {
		currency = defaultPaymentCurrency
	}

	return &paymentService{
		transactions: deps.Transactions,
		orders:       deps.Orders,
		uow:          deps.UnitOfWork,
		provider:     deps.Provider,
		now: func() time.Time {
			return clock().UTC()
		},
		logger:     logger,
		newTxnID:   newTxnID,
		currency:   currency,
		successURL: deps.SuccessURL,
		cancelURL:  deps.CancelURL,
	}, nil
}

// CreatePaymentLink creates a gateway checkout session and records the pending
// transaction, returning the hosted payment page URL.
func (s *paymentService) CreatePaymentLink(ctx context.Context, cmd CreatePaymentLinkCommand) (PaymentLink, error) {
	if cmd.OrderID == uuid.Nil {
		return PaymentLink{}, fmt.Errorf("%w: order id is required", ErrPaymentInvalidInput)
	}
	if cmd.Amount <= 0 {
		return PaymentLink{}, fmt.Errorf("%w: amount must be positive", ErrPaymentInvalidInput)
	}
	description := strings.TrimSpace(cmd.Description)
	if description == "" {
		return PaymentLink{}, fmt.Errorf("%w: description is required", ErrPaymentInvalidInput)
	}

	transactionID := s.newTxnID()
	orderID := cmd.OrderID

	session, err := s.provider.CreateCheckoutSession(ctx, payments.CheckoutSessionRequest{
		TransactionID: transactionID,
		OrderID:       orderID.String(),
		Amount:        toMinorUnits(cmd.Amount),
		Currency:      s.currency,
		Description:   description,
		SuccessURL:    s.successURL,
		CancelURL:     s.cancelURL,
	})
	if err != nil {
		s.logger(ctx, "payment.link.gateway_failed", map[string]any{
			"orderID": orderID.String(),
			"error":   err.Error(),
		})
		return PaymentLink{}, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	txn := domain.PaymentTransaction{
		TransactionID: transactionID,
		OrderID:       &orderID,
		Amount:        cmd.Amount,
		ResultCode:    0,
		ResponseTime:  s.now(),
		Status:        domain.PaymentStatusPending,
	}
	if err := s.transactions.Insert(ctx, txn); err != nil {
		s.logger(ctx, "payment.link.persist_failed", map[string]any{
			"transactionID": transactionID,
			"error":         err.Error(),
		})
		return PaymentLink{}, fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}

	s.logger(ctx, "payment.link.created", map[string]any{
		"transactionID": transactionID,
		"orderID":       orderID.String(),
	})
	return PaymentLink{
		TransactionID: transactionID,
		PaymentURL:    session.RedirectURL,
	}, nil
}

// GetPayment loads a transaction by its gateway id.
func (s *paymentService) GetPayment(ctx context.Context, transactionID string) (domain.PaymentTransaction, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return domain.PaymentTransaction{}, fmt.Errorf("%w: transaction id is required", ErrPaymentInvalidInput)
	}
	txn, err := s.transactions.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return domain.PaymentTransaction{}, s.translateTransactionError(err)
	}
	return txn, nil
}

// UpdatePaymentStatus applies the one-way Pending to terminal transition and
// cascades the outcome to the linked order. Transaction and order updates
// share one persistence transaction so a dangling order link rolls both back.
func (s *paymentService) UpdatePaymentStatus(ctx context.Context, cmd UpdatePaymentStatusCommand) (PaymentStatusSummary, error) {
	transactionID := strings.TrimSpace(cmd.TransactionID)
	if transactionID == "" {
		return PaymentStatusSummary{}, fmt.Errorf("%w: transaction id is required", ErrPaymentInvalidInput)
	}
	if !cmd.NewStatus.Terminal() {
		return PaymentStatusSummary{}, fmt.Errorf(
			"%w: new status must be Success (%d) or Failed (%d)",
			ErrPaymentInvalidInput, domain.PaymentStatusSuccess, domain.PaymentStatusFailed)
	}

	now := s.now()
	var resolved domain.PaymentTransaction
	err := s.uow.RunInTx(ctx, func(ctx context.Context) error {
		txn, err := s.transactions.ResolvePending(ctx, transactionID, cmd.NewStatus, now)
		if err != nil {
			return s.translateTransactionError(err)
		}
		resolved = txn

		if txn.OrderID == nil {
			return nil
		}
		orderStatus := domain.OrderStatusCancelled
		if cmd.NewStatus == domain.PaymentStatusSuccess {
			orderStatus = domain.OrderStatusPaid
		}
		if err := s.orders.UpdateStatus(ctx, *txn.OrderID, orderStatus); err != nil {
			if repositories.IsNotFound(err) {
				return fmt.Errorf("%w: no order linked to transaction %s", ErrOrderNotFound, transactionID)
			}
			return fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
		}
		return nil
	})
	if err != nil {
		return PaymentStatusSummary{}, err
	}

	s.logger(ctx, "payment.status.updated", map[string]any{
		"transactionID": transactionID,
		"status":        cmd.NewStatus.String(),
	})
	return PaymentStatusSummary{
		TransactionID: transactionID,
		UpdatedStatus: resolved.Status,
		ResponseTime:  resolved.ResponseTime,
	}, nil
}

// DeleteOrder removes an order regardless of its status.
func (s *paymentService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("%w: order id is required", ErrPaymentInvalidInput)
	}
	if err := s.orders.Delete(ctx, orderID); err != nil {
		if repositories.IsNotFound(err) {
			return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
		}
		return fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}
	s.logger(ctx, "payment.order.deleted", map[string]any{
		"orderID": orderID.String(),
	})
	return nil
}

func (s *paymentService) translateTransactionError(err error) error {
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		switch {
		case repoErr.IsNotFound():
			return fmt.Errorf("%w: %v", ErrPaymentNotFound, err)
		case repoErr.IsConflict():
			return fmt.Errorf("%w: %v", ErrPaymentNotPending, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
}

// toMinorUnits converts a decimal amount into the gateway's integer minor
// units, rounding half away from zero.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
