package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/glowcart/api/internal/domain"
	"github.com/glowcart/api/internal/repositories"
)

// AffiliateProfileRepository resolves affiliate enrollments for authenticated users.
type AffiliateProfileRepository struct {
	db *gorm.DB
}

// NewAffiliateProfileRepository constructs a Postgres-backed profile repository.
func NewAffiliateProfileRepository(db *gorm.DB) (*AffiliateProfileRepository, error) {
	if db == nil {
		return nil, errors.New("affiliate profile repository requires database handle")
	}
	return &AffiliateProfileRepository{db: db}, nil
}

// FindByUserID loads the affiliate profile enrolled for the given user.
func (r *AffiliateProfileRepository) FindByUserID(ctx context.Context, userID int) (domain.AffiliateProfile, error) {
	var model AffiliateProfileModel
	err := session(ctx, r.db).First(&model, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AffiliateProfile{}, repositories.NewNotFoundError("affiliate profile for user %d not found", userID)
		}
		return domain.AffiliateProfile{}, repositories.NewUnavailableError("affiliate_profiles.find: %v", err)
	}
	return toDomainProfile(model), nil
}
