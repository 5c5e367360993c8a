package payments

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v78"
)

type fakeSessionAPI struct {
	lastParams *stripe.CheckoutSessionParams
	session    *stripe.CheckoutSession
	err        error
}

func (f *fakeSessionAPI) New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.lastParams = params
	return f.session, f.err
}

func fixedClock() time.Time {
	return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
}

func TestStripeProviderCreatesCheckoutSession(t *testing.T) {
	api := &fakeSessionAPI{session: &stripe.CheckoutSession{
		ID:        "cs_test_123",
		URL:       "https://checkout.stripe.com/pay/cs_test_123",
		ExpiresAt: fixedClock().Add(time.Hour).Unix(),
	}}

	provider, err := NewStripeProvider(StripeProviderConfig{
		Sessions: api,
		Clock:    fixedClock,
	})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	session, err := provider.CreateCheckoutSession(context.Background(), CheckoutSessionRequest{
		TransactionID: "01HTXN",
		OrderID:       "f6a7c0de-0000-0000-0000-000000000001",
		Amount:        2599,
		Currency:      "USD",
		Description:   "Order f6a7c0de",
		SuccessURL:    "https://shop.example.com/payment/success",
		CancelURL:     "https://shop.example.com/payment/cancel",
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if session.RedirectURL != "https://checkout.stripe.com/pay/cs_test_123" {
		t.Fatalf("unexpected redirect url %q", session.RedirectURL)
	}
	if session.Provider != "stripe" {
		t.Fatalf("unexpected provider %q", session.Provider)
	}
	if want := fixedClock().Add(time.Hour); !session.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, session.ExpiresAt)
	}

	params := api.lastParams
	if params == nil {
		t.Fatal("expected session params to be recorded")
	}
	if got := stripe.StringValue(params.Mode); got != string(stripe.CheckoutSessionModePayment) {
		t.Fatalf("unexpected mode %q", got)
	}
	if len(params.LineItems) != 1 {
		t.Fatalf("expected one line item, got %d", len(params.LineItems))
	}
	item := params.LineItems[0]
	if got := stripe.Int64Value(item.PriceData.UnitAmount); got != 2599 {
		t.Fatalf("unexpected unit amount %d", got)
	}
	if got := stripe.StringValue(item.PriceData.Currency); got != "usd" {
		t.Fatalf("expected lowercase currency, got %q", got)
	}
	if params.Metadata["transaction_id"] != "01HTXN" {
		t.Fatalf("expected transaction id metadata, got %v", params.Metadata)
	}
	if params.Metadata["order_id"] == "" {
		t.Fatal("expected order id metadata")
	}
}

func TestStripeProviderRejectsNonPositiveAmount(t *testing.T) {
	provider, err := NewStripeProvider(StripeProviderConfig{Sessions: &fakeSessionAPI{}})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if _, err := provider.CreateCheckoutSession(context.Background(), CheckoutSessionRequest{Amount: 0, Currency: "USD"}); err == nil {
		t.Fatal("expected error for zero amount")
	}
}

func TestStripeProviderWrapsAPIError(t *testing.T) {
	api := &fakeSessionAPI{err: errors.New("boom")}
	provider, err := NewStripeProvider(StripeProviderConfig{Sessions: api})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	_, err = provider.CreateCheckoutSession(context.Background(), CheckoutSessionRequest{Amount: 100, Currency: "USD"})
	if err == nil {
		t.Fatal("expected error from session API")
	}
	if !strings.Contains(err.Error(), "create checkout session") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestStripeProviderRequiresAPIKey(t *testing.T) {
	if _, err := NewStripeProvider(StripeProviderConfig{}); err == nil {
		t.Fatal("expected error without api key or injected client")
	}
}
