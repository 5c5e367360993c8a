package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus enumerates the lifecycle states of a customer order.
type OrderStatus int

const (
	OrderStatusPending OrderStatus = iota
	OrderStatusPaid
	OrderStatusShipped
	OrderStatusDelivered
	OrderStatusCancelled
)

// String renders the order status using the labels exposed by the API.
func (s OrderStatus) String() string {
	switch s {
	case OrderStatusPending:
		return "Pending"
	case OrderStatusPaid:
		return "Paid"
	case OrderStatusShipped:
		return "Shipped"
	case OrderStatusDelivered:
		return "Delivered"
	case OrderStatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// PaymentStatus enumerates gateway transaction states. The numeric values are
// part of the public API contract (newStatus query parameter).
type PaymentStatus int

const (
	PaymentStatusPending PaymentStatus = iota
	PaymentStatusSuccess
	PaymentStatusFailed
)

// String renders the payment status using the labels exposed by the API.
func (s PaymentStatus) String() string {
	switch s {
	case PaymentStatusPending:
		return "Pending"
	case PaymentStatusSuccess:
		return "Success"
	case PaymentStatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Valid reports whether the value is one of the defined payment states.
func (s PaymentStatus) Valid() bool {
	return s >= PaymentStatusPending && s <= PaymentStatusFailed
}

// Terminal reports whether the status ends the transaction lifecycle.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed
}

// Order is a customer purchase. Line items live in their own table and are not
// loaded by this core; the payment transaction association is 1:1.
type Order struct {
	ID            uuid.UUID
	CustomerID    *int
	SalesStaffID  *int
	TotalAmount   *float64
	Status        OrderStatus
	OrderDate     *time.Time
	PaymentMethod string
	Address       string
}

// PaymentTransaction is a gateway-tracked payment attempt. The transaction id
// is assigned when the payment link is created and never changes.
type PaymentTransaction struct {
	TransactionID string
	OrderID       *uuid.UUID
	Amount        float64
	ResultCode    int
	ResponseTime  time.Time
	Status        PaymentStatus
}

// KolVideo is a promotional video owned by exactly one affiliate profile.
// Ownership is never reassigned.
type KolVideo struct {
	ID                 uuid.UUID
	Title              string
	Description        string
	VideoURL           string
	PublicID           string
	ProductID          int
	AffiliateProfileID uuid.UUID
	CreatedAt          time.Time
	Active             bool
}

// AffiliateProfile records a user's enrollment as a KOL video contributor.
// This core only ever reads profiles.
type AffiliateProfile struct {
	ID     uuid.UUID
	UserID int
}
