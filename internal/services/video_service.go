package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/glowcart/api/internal/domain"
	"github.com/glowcart/api/internal/media"
	"github.com/glowcart/api/internal/repositories"
)

const (
	defaultMaxVideoBytes = int64(100 << 20)
	defaultVideoFolder   = "kol-videos"
)

var allowedVideoExtensions = map[string]struct{}{
	".mp4":  {},
	".mov":  {},
	".avi":  {},
	".mkv":  {},
	".webm": {},
}

var (
	// ErrVideoEmptyFile indicates the upload carried no bytes.
	ErrVideoEmptyFile = errors.New("video: no video file provided")
	// ErrVideoBadExtension indicates a file type outside the allowed set.
	ErrVideoBadExtension = errors.New("video: invalid video format, allowed formats: mp4, mov, avi, mkv, webm")
	// ErrVideoTooLarge indicates the upload exceeds the configured size ceiling.
	ErrVideoTooLarge = errors.New("video: file too large")
	// ErrProfileNotFound indicates the caller has no affiliate profile.
	ErrProfileNotFound = errors.New("video: affiliate profile not found")
	// ErrVideoNotFound covers both a missing video and one owned by another
	// profile, so cross-owner probes cannot tell the two apart.
	ErrVideoNotFound = errors.New("video: video not found")
	// ErrMediaUpload indicates the media store rejected or failed the upload.
	ErrMediaUpload = errors.New("video: media upload error")
	// ErrVideoUnavailable indicates video dependencies are currently unavailable.
	ErrVideoUnavailable = errors.New("video: unavailable")
)

// VideoServiceDeps wires the dependencies required by the video service.
type VideoServiceDeps struct {
	Videos   repositories.KolVideoRepository
	Profiles repositories.AffiliateProfileRepository
	Media    media.Uploader
	Clock    func() time.Time
	Logger   func(ctx context.Context, event string, fields map[string]any)
	// NewID overrides video id generation, useful for tests.
	NewID         func() uuid.UUID
	MaxVideoBytes int64
	Folder        string
}

type videoService struct {
	videos   repositories.KolVideoRepository
	profiles repositories.AffiliateProfileRepository
	media    media.Uploader
	now      func() time.Time
	logger   func(ctx context.Context, event string, fields map[string]any)
	newID    func() uuid.UUID
	maxBytes int64
	folder   string
}

// NewVideoService constructs a VideoService validating required dependencies.
func NewVideoService(deps VideoServiceDeps) (VideoService, error) {
	if deps.Videos == nil {
		return nil, errors.New("video service: video repository is required")
	}
	if deps.Profiles == nil {
		return nil, errors.New("video service: affiliate profile repository is required")
	}
	if deps.Media == nil {
		return nil, errors.New("video service: media uploader is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	newID := deps.NewID
	if newID == nil {
		newID = uuid.New
	}
	maxBytes := deps.MaxVideoBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxVideoBytes
	}
	folder := strings.TrimSpace(deps.Folder)
	if folder == "" {
		folder = defaultVideoFolder
	}

	return &videoService{
		videos:   deps.Videos,
		profiles: deps.Profiles,
		media:    deps.Media,
		now: func() time.Time {
			return clock().UTC()
		},
		logger:   logger,
		newID:    newID,
		maxBytes: maxBytes,
		folder:   folder,
	}, nil
}

// ListMyVideos returns all videos owned by the caller's affiliate profile. An
// empty catalog is a normal outcome.
func (s *videoService) ListMyVideos(ctx context.Context, userID int) ([]domain.KolVideo, error) {
	profile, err := s.resolveProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	videos, err := s.videos.ListByAffiliateProfileID(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVideoUnavailable, err)
	}
	return videos, nil
}

// UploadVideo validates the file, stores it in the media store, and persists
// the video record under the caller's profile. Validation short-circuits on
// the first failure in a fixed order: presence, extension, size, profile.
func (s *videoService) UploadVideo(ctx context.Context, cmd UploadVideoCommand) (UploadedVideo, error) {
	if len(cmd.Content) == 0 {
		return UploadedVideo{}, ErrVideoEmptyFile
	}
	ext := strings.ToLower(path.Ext(cmd.FileName))
	if _, ok := allowedVideoExtensions[ext]; !ok {
		return UploadedVideo{}, ErrVideoBadExtension
	}
	if int64(len(cmd.Content)) > s.maxBytes {
		return UploadedVideo{}, fmt.Errorf("%w: max size allowed is %d bytes", ErrVideoTooLarge, s.maxBytes)
	}
	profile, err := s.resolveProfile(ctx, cmd.UserID)
	if err != nil {
		return UploadedVideo{}, err
	}

	asset, err := s.media.Upload(ctx, media.UploadRequest{
		FileName:    cmd.FileName,
		ContentType: cmd.ContentType,
		Folder:      s.folder,
		Content:     cmd.Content,
	})
	if err != nil {
		s.logger(ctx, "video.upload.media_failed", map[string]any{
			"fileName": cmd.FileName,
			"error":    err.Error(),
		})
		return UploadedVideo{}, fmt.Errorf("%w: %v", ErrMediaUpload, err)
	}

	video := domain.KolVideo{
		ID:                 s.newID(),
		Title:              cmd.Title,
		Description:        cmd.Description,
		VideoURL:           asset.URL,
		PublicID:           asset.PublicID,
		ProductID:          cmd.ProductID,
		AffiliateProfileID: profile.ID,
		CreatedAt:          s.now(),
		Active:             true,
	}
	if err := s.videos.Insert(ctx, video); err != nil {
		return UploadedVideo{}, fmt.Errorf("%w: %v", ErrVideoUnavailable, err)
	}

	s.logger(ctx, "video.uploaded", map[string]any{
		"videoID":   video.ID.String(),
		"profileID": profile.ID.String(),
		"publicID":  asset.PublicID,
	})
	return UploadedVideo{
		URL:      asset.URL,
		PublicID: asset.PublicID,
		Video:    video,
	}, nil
}

// GetVideo loads one of the caller's videos.
func (s *videoService) GetVideo(ctx context.Context, userID int, videoID uuid.UUID) (domain.KolVideo, error) {
	video, err := s.authorizeVideo(ctx, userID, videoID)
	if err != nil {
		return domain.KolVideo{}, err
	}
	return video, nil
}

// UpdateVideo overwrites the mutable fields of one of the caller's videos.
func (s *videoService) UpdateVideo(ctx context.Context, cmd UpdateVideoCommand) (domain.KolVideo, error) {
	video, err := s.authorizeVideo(ctx, cmd.UserID, cmd.VideoID)
	if err != nil {
		return domain.KolVideo{}, err
	}

	video.Title = cmd.Title
	video.Description = cmd.Description
	video.ProductID = cmd.ProductID
	video.Active = cmd.Active
	if err := s.videos.Update(ctx, video); err != nil {
		if repositories.IsNotFound(err) {
			return domain.KolVideo{}, ErrVideoNotFound
		}
		return domain.KolVideo{}, fmt.Errorf("%w: %v", ErrVideoUnavailable, err)
	}
	return video, nil
}

// DeleteVideo removes one of the caller's videos and best-effort deletes the
// stored media object.
func (s *videoService) DeleteVideo(ctx context.Context, userID int, videoID uuid.UUID) error {
	video, err := s.authorizeVideo(ctx, userID, videoID)
	if err != nil {
		return err
	}
	if err := s.videos.Delete(ctx, videoID); err != nil {
		if repositories.IsNotFound(err) {
			return ErrVideoNotFound
		}
		return fmt.Errorf("%w: %v", ErrVideoUnavailable, err)
	}
	if video.PublicID != "" {
		if err := s.media.Delete(ctx, video.PublicID); err != nil {
			// The record is gone; losing the blob only leaks storage.
			s.logger(ctx, "video.delete.media_failed", map[string]any{
				"videoID":  videoID.String(),
				"publicID": video.PublicID,
				"error":    err.Error(),
			})
		}
	}
	s.logger(ctx, "video.deleted", map[string]any{
		"videoID": videoID.String(),
	})
	return nil
}

// ListAllVideos returns the whole catalog for privileged callers.
func (s *videoService) ListAllVideos(ctx context.Context) ([]domain.KolVideo, error) {
	videos, err := s.videos.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVideoUnavailable, err)
	}
	return videos, nil
}

// GetVideoUnscoped loads any video without ownership checks.
func (s *videoService) GetVideoUnscoped(ctx context.Context, videoID uuid.UUID) (domain.KolVideo, error) {
	video, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.KolVideo{}, ErrVideoNotFound
		}
		return domain.KolVideo{}, fmt.Errorf("%w: %v", ErrVideoUnavailable, err)
	}
	return video, nil
}

// ListVideosByAffiliateProfile returns any profile's videos without ownership checks.
func (s *videoService) ListVideosByAffiliateProfile(ctx context.Context, profileID uuid.UUID) ([]domain.KolVideo, error) {
	videos, err := s.videos.ListByAffiliateProfileID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVideoUnavailable, err)
	}
	return videos, nil
}

func (s *videoService) resolveProfile(ctx context.Context, userID int) (domain.AffiliateProfile, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.AffiliateProfile{}, ErrProfileNotFound
		}
		return domain.AffiliateProfile{}, fmt.Errorf("%w: %v", ErrVideoUnavailable, err)
	}
	return profile, nil
}

// authorizeVideo resolves the caller's profile and the target video. A missing
// video and a video owned by another profile produce the same error.
func (s *videoService) authorizeVideo(ctx context.Context, userID int, videoID uuid.UUID) (domain.KolVideo, error) {
	profile, err := s.resolveProfile(ctx, userID)
	if err != nil {
		return domain.KolVideo{}, err
	}
	video, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.KolVideo{}, ErrVideoNotFound
		}
		return domain.KolVideo{}, fmt.Errorf("%w: %v", ErrVideoUnavailable, err)
	}
	if video.AffiliateProfileID != profile.ID {
		return domain.KolVideo{}, ErrVideoNotFound
	}
	return video, nil
}
