package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/glowcart/api/internal/domain"
	"github.com/glowcart/api/internal/repositories"
)

// KolVideoRepository is the GORM-backed video store.
type KolVideoRepository struct {
	db *gorm.DB
}

// NewKolVideoRepository constructs a Postgres-backed video repository.
func NewKolVideoRepository(db *gorm.DB) (*KolVideoRepository, error) {
	if db == nil {
		return nil, errors.New("kol video repository requires database handle")
	}
	return &KolVideoRepository{db: db}, nil
}

// Insert stores a new video record.
func (r *KolVideoRepository) Insert(ctx context.Context, video domain.KolVideo) error {
	model := toVideoModel(video)
	if err := session(ctx, r.db).Create(&model).Error; err != nil {
		return repositories.NewUnavailableError("kol_videos.insert: %v", err)
	}
	return nil
}

// FindByID loads a single video.
func (r *KolVideoRepository) FindByID(ctx context.Context, videoID uuid.UUID) (domain.KolVideo, error) {
	var model KolVideoModel
	err := session(ctx, r.db).First(&model, "id = ?", videoID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.KolVideo{}, repositories.NewNotFoundError("video %s not found", videoID)
		}
		return domain.KolVideo{}, repositories.NewUnavailableError("kol_videos.find: %v", err)
	}
	return toDomainVideo(model), nil
}

// ListByAffiliateProfileID returns the videos owned by one affiliate profile,
// newest first.
func (r *KolVideoRepository) ListByAffiliateProfileID(ctx context.Context, profileID uuid.UUID) ([]domain.KolVideo, error) {
	var models []KolVideoModel
	err := session(ctx, r.db).
		Where("affiliate_profile_id = ?", profileID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, repositories.NewUnavailableError("kol_videos.list_by_profile: %v", err)
	}
	videos := make([]domain.KolVideo, 0, len(models))
	for _, m := range models {
		videos = append(videos, toDomainVideo(m))
	}
	return videos, nil
}

// ListAll returns every video in the catalog, newest first.
func (r *KolVideoRepository) ListAll(ctx context.Context) ([]domain.KolVideo, error) {
	var models []KolVideoModel
	err := session(ctx, r.db).Order("created_at DESC").Find(&models).Error
	if err != nil {
		return nil, repositories.NewUnavailableError("kol_videos.list_all: %v", err)
	}
	videos := make([]domain.KolVideo, 0, len(models))
	for _, m := range models {
		videos = append(videos, toDomainVideo(m))
	}
	return videos, nil
}

// Update overwrites the mutable fields of an existing video.
func (r *KolVideoRepository) Update(ctx context.Context, video domain.KolVideo) error {
	res := session(ctx, r.db).Model(&KolVideoModel{}).
		Where("id = ?", video.ID).
		Updates(map[string]any{
			"title":       video.Title,
			"description": video.Description,
			"product_id":  video.ProductID,
			"active":      video.Active,
		})
	if res.Error != nil {
		return repositories.NewUnavailableError("kol_videos.update: %v", res.Error)
	}
	if res.RowsAffected == 0 {
		return repositories.NewNotFoundError("video %s not found", video.ID)
	}
	return nil
}

// Delete removes the video row.
func (r *KolVideoRepository) Delete(ctx context.Context, videoID uuid.UUID) error {
	res := session(ctx, r.db).Delete(&KolVideoModel{}, "id = ?", videoID)
	if res.Error != nil {
		return repositories.NewUnavailableError("kol_videos.delete: %v", res.Error)
	}
	if res.RowsAffected == 0 {
		return repositories.NewNotFoundError("video %s not found", videoID)
	}
	return nil
}
