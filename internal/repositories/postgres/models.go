package postgres

import (
	"time"

	"github.com/google/uuid"
)

// OrderModel maps customer orders. Line items live in their own table and are
// outside this service's write set.
type OrderModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID    *int       `gorm:"index"`
	SalesStaffID  *int       `gorm:"index"`
	TotalAmount   *float64   `gorm:"type:numeric(12,2)"`
	Status        int        `gorm:"not null;default:0"`
	OrderDate     *time.Time `gorm:""`
	PaymentMethod string     `gorm:"size:64"`
	Address       string     `gorm:"size:512"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// PaymentTransactionModel maps gateway payment attempts. TransactionID is the
// gateway-facing identifier and doubles as the primary key.
type PaymentTransactionModel struct {
	TransactionID string     `gorm:"size:64;primaryKey"`
	OrderID       *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Amount        float64    `gorm:"type:numeric(12,2);not null"`
	ResultCode    int        `gorm:"not null;default:0"`
	ResponseTime  time.Time  `gorm:"not null"`
	Status        int        `gorm:"not null;default:0;index"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`
}

func (PaymentTransactionModel) TableName() string {
	return "payment_transactions"
}

// KolVideoModel maps affiliate promotional videos.
type KolVideoModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title              string    `gorm:"size:256;not null"`
	Description        string    `gorm:"type:text"`
	VideoURL           string    `gorm:"size:1024;not null"`
	PublicID           string    `gorm:"size:256"`
	ProductID          int       `gorm:"index"`
	AffiliateProfileID uuid.UUID `gorm:"type:uuid;index;not null"`
	Active             bool      `gorm:"not null;default:true"`
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

func (KolVideoModel) TableName() string {
	return "kol_videos"
}

// AffiliateProfileModel maps affiliate enrollment records. Rows are created by
// the account system; this service only reads them.
type AffiliateProfileModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    int       `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (AffiliateProfileModel) TableName() string {
	return "affiliate_profiles"
}
