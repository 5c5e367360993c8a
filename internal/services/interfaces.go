package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/glowcart/api/internal/domain"
)

// PaymentService orchestrates payment link creation, transaction lookup, the
// one-way Pending to terminal status transition, and order deletion.
type PaymentService interface {
	CreatePaymentLink(ctx context.Context, cmd CreatePaymentLinkCommand) (PaymentLink, error)
	GetPayment(ctx context.Context, transactionID string) (domain.PaymentTransaction, error)
	UpdatePaymentStatus(ctx context.Context, cmd UpdatePaymentStatusCommand) (PaymentStatusSummary, error)
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
}

// VideoService orchestrates affiliate-scoped video management and the
// unscoped administrative listings.
type VideoService interface {
	ListMyVideos(ctx context.Context, userID int) ([]domain.KolVideo, error)
	UploadVideo(ctx context.Context, cmd UploadVideoCommand) (UploadedVideo, error)
	GetVideo(ctx context.Context, userID int, videoID uuid.UUID) (domain.KolVideo, error)
	UpdateVideo(ctx context.Context, cmd UpdateVideoCommand) (domain.KolVideo, error)
	DeleteVideo(ctx context.Context, userID int, videoID uuid.UUID) error
	ListAllVideos(ctx context.Context) ([]domain.KolVideo, error)
	GetVideoUnscoped(ctx context.Context, videoID uuid.UUID) (domain.KolVideo, error)
	ListVideosByAffiliateProfile(ctx context.Context, profileID uuid.UUID) ([]domain.KolVideo, error)
}

// ChatService produces single-turn chat completions for the storefront
// assistant.
type ChatService interface {
	ChatResponse(ctx context.Context, message string) (string, error)
}

// CreatePaymentLinkCommand carries the inputs for creating a hosted payment link.
type CreatePaymentLinkCommand struct {
	OrderID     uuid.UUID
	Amount      float64
	Description string
	SuccessURL  string
	CancelURL   string
}

// PaymentLink is the result of creating a payment link.
type PaymentLink struct {
	TransactionID string
	PaymentURL    string
}

// UpdatePaymentStatusCommand carries the inputs for resolving a pending transaction.
type UpdatePaymentStatusCommand struct {
	TransactionID string
	NewStatus     domain.PaymentStatus
}

// PaymentStatusSummary reports the outcome of a status update.
type PaymentStatusSummary struct {
	TransactionID string
	UpdatedStatus domain.PaymentStatus
	ResponseTime  time.Time
}

// UploadVideoCommand carries one multipart video upload.
type UploadVideoCommand struct {
	UserID      int
	FileName    string
	ContentType string
	Content     []byte
	Title       string
	Description string
	ProductID   int
}

// UploadedVideo is the result of a successful upload.
type UploadedVideo struct {
	URL      string
	PublicID string
	Video    domain.KolVideo
}

// UpdateVideoCommand overwrites the mutable fields of an owned video. ProductID
// defaults to zero when the caller omits it.
type UpdateVideoCommand struct {
	UserID      int
	VideoID     uuid.UUID
	Title       string
	Description string
	ProductID   int
	Active      bool
}
