package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	domain "github.com/glowcart/api/internal/domain"
	"github.com/glowcart/api/internal/platform/auth"
	"github.com/glowcart/api/internal/services"
)

type stubVideoService struct {
	listMineFn      func(ctx context.Context, userID int) ([]domain.KolVideo, error)
	uploadFn        func(ctx context.Context, cmd services.UploadVideoCommand) (services.UploadedVideo, error)
	getFn           func(ctx context.Context, userID int, videoID uuid.UUID) (domain.KolVideo, error)
	updateFn        func(ctx context.Context, cmd services.UpdateVideoCommand) (domain.KolVideo, error)
	deleteFn        func(ctx context.Context, userID int, videoID uuid.UUID) error
	listAllFn       func(ctx context.Context) ([]domain.KolVideo, error)
	getUnscopedFn   func(ctx context.Context, videoID uuid.UUID) (domain.KolVideo, error)
	listByProfileFn func(ctx context.Context, profileID uuid.UUID) ([]domain.KolVideo, error)
}

func (s *stubVideoService) ListMyVideos(ctx context.Context, userID int) ([]domain.KolVideo, error) {
	return s.listMineFn(ctx, userID)
}

func (s *stubVideoService) UploadVideo(ctx context.Context, cmd services.UploadVideoCommand) (services.UploadedVideo, error) {
	return s.uploadFn(ctx, cmd)
}

func (s *stubVideoService) GetVideo(ctx context.Context, userID int, videoID uuid.UUID) (domain.KolVideo, error) {
	return s.getFn(ctx, userID, videoID)
}

func (s *stubVideoService) UpdateVideo(ctx context.Context, cmd services.UpdateVideoCommand) (domain.KolVideo, error) {
	return s.updateFn(ctx, cmd)
}

func (s *stubVideoService) DeleteVideo(ctx context.Context, userID int, videoID uuid.UUID) error {
	return s.deleteFn(ctx, userID, videoID)
}

func (s *stubVideoService) ListAllVideos(ctx context.Context) ([]domain.KolVideo, error) {
	return s.listAllFn(ctx)
}

func (s *stubVideoService) GetVideoUnscoped(ctx context.Context, videoID uuid.UUID) (domain.KolVideo, error) {
	return s.getUnscopedFn(ctx, videoID)
}

func (s *stubVideoService) ListVideosByAffiliateProfile(ctx context.Context, profileID uuid.UUID) ([]domain.KolVideo, error) {
	return s.listByProfileFn(ctx, profileID)
}

func newVideoRouter(service services.VideoService) chi.Router {
	router := chi.NewRouter()
	NewKolVideoHandlers(nil, service, 0).Routes(router)
	return router
}

func withAffiliateIdentity(req *http.Request, userID int) *http.Request {
	return req.WithContext(auth.WithIdentity(req.Context(), &auth.Identity{
		UID:   fmt.Sprintf("%d", userID),
		Roles: []string{auth.RoleAffiliate},
	}))
}

func sampleVideo(t *testing.T) domain.KolVideo {
	t.Helper()
	return domain.KolVideo{
		ID:                 uuid.New(),
		Title:              "Spring look",
		VideoURL:           "https://storage.googleapis.com/glowcart-media/kol-videos/x.mp4",
		PublicID:           "kol-videos/x.mp4",
		AffiliateProfileID: uuid.New(),
		CreatedAt:          time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Active:             true,
	}
}

func multipartUpload(t *testing.T, fileName string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if fileName != "" {
		part, err := writer.CreateFormFile(videoFileField, fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestListMyVideosReturnsList(t *testing.T) {
	video := sampleVideo(t)
	router := newVideoRouter(&stubVideoService{
		listMineFn: func(ctx context.Context, userID int) ([]domain.KolVideo, error) {
			if userID != 42 {
				t.Fatalf("expected user 42, got %d", userID)
			}
			return []domain.KolVideo{video}, nil
		},
	})

	req := withAffiliateIdentity(httptest.NewRequest(http.MethodGet, "/myVideos", nil), 42)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp []videoPayload
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].ID != video.ID.String() {
		t.Fatalf("unexpected payload %+v", resp)
	}
}

func TestListMyVideosWithoutIdentityIs401(t *testing.T) {
	router := newVideoRouter(&stubVideoService{})
	req := httptest.NewRequest(http.MethodGet, "/myVideos", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestListMyVideosNoProfileIs400(t *testing.T) {
	router := newVideoRouter(&stubVideoService{
		listMineFn: func(ctx context.Context, userID int) ([]domain.KolVideo, error) {
			return nil, services.ErrProfileNotFound
		},
	})
	req := withAffiliateIdentity(httptest.NewRequest(http.MethodGet, "/myVideos", nil), 42)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestUploadVideoReturnsAssetAndRecord(t *testing.T) {
	video := sampleVideo(t)
	var captured services.UploadVideoCommand
	router := newVideoRouter(&stubVideoService{
		uploadFn: func(ctx context.Context, cmd services.UploadVideoCommand) (services.UploadedVideo, error) {
			captured = cmd
			return services.UploadedVideo{
				URL:      video.VideoURL,
				PublicID: video.PublicID,
				Video:    video,
			}, nil
		},
	})

	body, contentType := multipartUpload(t, "clip.mp4", []byte("video-bytes"), map[string]string{
		"title":       "Spring look",
		"description": "tutorial",
		"productId":   "9",
	})
	req := withAffiliateIdentity(httptest.NewRequest(http.MethodPost, "/upload", body), 42)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp uploadVideoResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.URL != video.VideoURL || resp.PublicID != video.PublicID {
		t.Fatalf("unexpected response %+v", resp)
	}
	if captured.FileName != "clip.mp4" || string(captured.Content) != "video-bytes" {
		t.Fatalf("unexpected command %+v", captured)
	}
	if captured.ProductID != 9 || captured.Title != "Spring look" {
		t.Fatalf("unexpected metadata %+v", captured)
	}
}

func TestUploadVideoWithoutFileIs400(t *testing.T) {
	router := newVideoRouter(&stubVideoService{})
	body, contentType := multipartUpload(t, "", nil, map[string]string{"title": "x"})
	req := withAffiliateIdentity(httptest.NewRequest(http.MethodPost, "/upload", body), 42)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestUploadVideoValidationFailureIs400(t *testing.T) {
	router := newVideoRouter(&stubVideoService{
		uploadFn: func(ctx context.Context, cmd services.UploadVideoCommand) (services.UploadedVideo, error) {
			return services.UploadedVideo{}, services.ErrVideoBadExtension
		},
	})
	body, contentType := multipartUpload(t, "clip.txt", []byte("x"), nil)
	req := withAffiliateIdentity(httptest.NewRequest(http.MethodPost, "/upload", body), 42)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestUploadVideoMediaErrorIs500(t *testing.T) {
	router := newVideoRouter(&stubVideoService{
		uploadFn: func(ctx context.Context, cmd services.UploadVideoCommand) (services.UploadedVideo, error) {
			return services.UploadedVideo{}, fmt.Errorf("%w: bucket quota exceeded", services.ErrMediaUpload)
		},
	})
	body, contentType := multipartUpload(t, "clip.mp4", []byte("x"), nil)
	req := withAffiliateIdentity(httptest.NewRequest(http.MethodPost, "/upload", body), 42)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !bytes.Contains(rr.Body.Bytes(), []byte("bucket quota exceeded")) {
		t.Fatalf("expected upstream message, got %s", rr.Body.String())
	}
}

func TestGetVideoNotFoundEnvelope(t *testing.T) {
	router := newVideoRouter(&stubVideoService{
		getFn: func(ctx context.Context, userID int, videoID uuid.UUID) (domain.KolVideo, error) {
			return domain.KolVideo{}, services.ErrVideoNotFound
		},
	})
	req := withAffiliateIdentity(httptest.NewRequest(http.MethodGet, "/"+uuid.NewString(), nil), 42)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	var resp envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success || resp.Message != "Video not found" {
		t.Fatalf("unexpected envelope %+v", resp)
	}
}

func TestUpdateVideoReturnsEnvelope(t *testing.T) {
	video := sampleVideo(t)
	var captured services.UpdateVideoCommand
	router := newVideoRouter(&stubVideoService{
		updateFn: func(ctx context.Context, cmd services.UpdateVideoCommand) (domain.KolVideo, error) {
			captured = cmd
			return video, nil
		},
	})

	payload := `{"title":"new title","description":"d","productId":3,"active":false}`
	req := withAffiliateIdentity(httptest.NewRequest(http.MethodPut, "/"+video.ID.String(), bytes.NewBufferString(payload)), 42)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if captured.Title != "new title" || captured.ProductID != 3 || captured.Active {
		t.Fatalf("unexpected command %+v", captured)
	}
	var resp envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Fatalf("unexpected envelope %+v", resp)
	}
}

func TestDeleteVideoReturnsEnvelope(t *testing.T) {
	router := newVideoRouter(&stubVideoService{
		deleteFn: func(ctx context.Context, userID int, videoID uuid.UUID) error {
			return nil
		},
	})
	req := withAffiliateIdentity(httptest.NewRequest(http.MethodDelete, "/"+uuid.NewString(), nil), 42)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Message != "Video deleted successfully" {
		t.Fatalf("unexpected envelope %+v", resp)
	}
}

func TestListAllVideosEnvelope(t *testing.T) {
	video := sampleVideo(t)
	router := newVideoRouter(&stubVideoService{
		listAllFn: func(ctx context.Context) ([]domain.KolVideo, error) {
			return []domain.KolVideo{video}, nil
		},
	})
	req := httptest.NewRequest(http.MethodGet, "/getAllVideos", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Data == nil {
		t.Fatalf("unexpected envelope %+v", resp)
	}
}

func TestListAllVideosEmptyEnvelope(t *testing.T) {
	router := newVideoRouter(&stubVideoService{
		listAllFn: func(ctx context.Context) ([]domain.KolVideo, error) {
			return nil, nil
		},
	})
	req := httptest.NewRequest(http.MethodGet, "/getAllVideos", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Message != "No videos found" || resp.Data != nil {
		t.Fatalf("unexpected envelope %+v", resp)
	}
}

func TestListVideosByAffiliateEnvelope(t *testing.T) {
	profileID := uuid.New()
	router := newVideoRouter(&stubVideoService{
		listByProfileFn: func(ctx context.Context, id uuid.UUID) ([]domain.KolVideo, error) {
			if id != profileID {
				t.Fatalf("expected profile %s, got %s", profileID, id)
			}
			return []domain.KolVideo{{ID: uuid.New(), AffiliateProfileID: id}}, nil
		},
	})
	req := httptest.NewRequest(http.MethodGet, "/getAllVideosByAffiliateId/"+profileID.String(), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestGetVideoUnscopedNotFound(t *testing.T) {
	router := newVideoRouter(&stubVideoService{
		getUnscopedFn: func(ctx context.Context, videoID uuid.UUID) (domain.KolVideo, error) {
			return domain.KolVideo{}, services.ErrVideoNotFound
		},
	})
	req := httptest.NewRequest(http.MethodGet, "/getAllVideosById/"+uuid.NewString(), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
