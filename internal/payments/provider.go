package payments

import (
	"context"
	"time"
)

// CheckoutSessionRequest captures the payload required to create a hosted
// checkout session for one order.
type CheckoutSessionRequest struct {
	TransactionID string
	OrderID       string
	Amount        int64
	Currency      string
	Description   string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// CheckoutSession represents the PSP session returned to the client. The
// redirect URL is the hosted payment page the customer is sent to.
type CheckoutSession struct {
	ID          string
	Provider    string
	RedirectURL string
	ExpiresAt   time.Time
}

// Provider defines the contract for PSP adapters to implement.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (CheckoutSession, error)
}
