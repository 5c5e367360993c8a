package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	domain "github.com/glowcart/api/internal/domain"
	"github.com/glowcart/api/internal/platform/auth"
	"github.com/glowcart/api/internal/platform/httpx"
	"github.com/glowcart/api/internal/services"
)

const (
	videoFileField     = "videoFile"
	maxVideoBodySize   = 16 * 1024
	multipartMemLimit  = 8 << 20
	defaultUploadLimit = 100 << 20
)

// KolVideoHandlers exposes the KOL video controller endpoints: the
// affiliate-scoped CRUD surface plus the unscoped listings.
type KolVideoHandlers struct {
	authn          *auth.Authenticator
	videos         services.VideoService
	maxUploadBytes int64
}

// NewKolVideoHandlers constructs handlers for the KOL video endpoints.
func NewKolVideoHandlers(authn *auth.Authenticator, videos services.VideoService, maxUploadBytes int64) *KolVideoHandlers {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultUploadLimit
	}
	return &KolVideoHandlers{
		authn:          authn,
		videos:         videos,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes wires the /kolvideocontroller endpoints onto the provided router.
func (h *KolVideoHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}

	r.Group(func(affiliate chi.Router) {
		if h.authn != nil {
			affiliate.Use(h.authn.RequireAuth())
			affiliate.Use(h.authn.RequireRole(auth.RoleAffiliate))
		}
		affiliate.Get("/myVideos", h.listMyVideos)
		affiliate.Post("/upload", h.uploadVideo)
		affiliate.Get("/{id}", h.getVideo)
		affiliate.Put("/{id}", h.updateVideo)
		affiliate.Delete("/{id}", h.deleteVideo)
	})

	r.Get("/getAllVideos", h.listAllVideos)
	r.Get("/getAllVideosById/{id}", h.getVideoUnscoped)
	r.Get("/getAllVideosByAffiliateId/{affiliateProfileId}", h.listVideosByAffiliate)
}

type videoPayload struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	VideoURL           string `json:"videoUrl"`
	PublicID           string `json:"publicId"`
	ProductID          int    `json:"productId"`
	AffiliateProfileID string `json:"affiliateProfileId"`
	CreatedAt          string `json:"createdAt"`
	Active             bool   `json:"active"`
}

type uploadVideoResponse struct {
	URL       string       `json:"url"`
	PublicID  string       `json:"publicId"`
	VideoInfo videoPayload `json:"videoInfo"`
}

type updateVideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ProductID   int    `json:"productId"`
	Active      bool   `json:"active"`
}

func (h *KolVideoHandlers) listMyVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.callerUserID(ctx, w)
	if !ok {
		return
	}

	videos, err := h.videos.ListMyVideos(ctx, userID)
	if err != nil {
		h.writeVideoError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildVideoPayloads(videos))
}

func (h *KolVideoHandlers) uploadVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.callerUserID(ctx, w)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(multipartMemLimit); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request must be multipart form data", http.StatusBadRequest))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(videoFileField)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "no video file provided", http.StatusBadRequest))
		return
	}
	defer file.Close()

	// One byte past the ceiling is enough for the service to reject the
	// upload without buffering an unbounded stream.
	content, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "failed to read video file", http.StatusBadRequest))
		return
	}

	productID := 0
	if raw := strings.TrimSpace(r.FormValue("productId")); raw != "" {
		productID, err = strconv.Atoi(raw)
		if err != nil {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "productId must be an integer", http.StatusBadRequest))
			return
		}
	}

	result, err := h.videos.UploadVideo(ctx, services.UploadVideoCommand{
		UserID:      userID,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		ProductID:   productID,
	})
	if err != nil {
		h.writeVideoError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, uploadVideoResponse{
		URL:       result.URL,
		PublicID:  result.PublicID,
		VideoInfo: buildVideoPayload(result.Video),
	})
}

func (h *KolVideoHandlers) getVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.callerUserID(ctx, w)
	if !ok {
		return
	}
	videoID, ok := parseVideoID(ctx, w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	video, err := h.videos.GetVideo(ctx, userID, videoID)
	if err != nil {
		h.writeVideoError(ctx, w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "Video retrieved successfully", buildVideoPayload(video))
}

func (h *KolVideoHandlers) updateVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.callerUserID(ctx, w)
	if !ok {
		return
	}
	videoID, ok := parseVideoID(ctx, w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	body, err := readLimitedBody(r, maxVideoBodySize)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	var req updateVideoRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}

	video, err := h.videos.UpdateVideo(ctx, services.UpdateVideoCommand{
		UserID:      userID,
		VideoID:     videoID,
		Title:       req.Title,
		Description: req.Description,
		ProductID:   req.ProductID,
		Active:      req.Active,
	})
	if err != nil {
		h.writeVideoError(ctx, w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "Video updated successfully", buildVideoPayload(video))
}

func (h *KolVideoHandlers) deleteVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.callerUserID(ctx, w)
	if !ok {
		return
	}
	videoID, ok := parseVideoID(ctx, w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.videos.DeleteVideo(ctx, userID, videoID); err != nil {
		h.writeVideoError(ctx, w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "Video deleted successfully", nil)
}

func (h *KolVideoHandlers) listAllVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	videos, err := h.videos.ListAllVideos(ctx)
	if err != nil {
		h.writeVideoError(ctx, w, err)
		return
	}
	if len(videos) == 0 {
		writeEnvelope(w, http.StatusOK, true, "No videos found", nil)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "Videos retrieved successfully", buildVideoPayloads(videos))
}

func (h *KolVideoHandlers) getVideoUnscoped(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	videoID, ok := parseVideoID(ctx, w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	video, err := h.videos.GetVideoUnscoped(ctx, videoID)
	if err != nil {
		h.writeVideoError(ctx, w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "Video retrieved successfully", buildVideoPayload(video))
}

func (h *KolVideoHandlers) listVideosByAffiliate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profileID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "affiliateProfileId")))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "affiliate profile id must be a valid UUID", http.StatusBadRequest))
		return
	}

	videos, err := h.videos.ListVideosByAffiliateProfile(ctx, profileID)
	if err != nil {
		h.writeVideoError(ctx, w, err)
		return
	}
	if len(videos) == 0 {
		writeEnvelope(w, http.StatusOK, true, "No videos found for this affiliate", nil)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "Videos retrieved successfully", buildVideoPayloads(videos))
}

// callerUserID extracts the authenticated user's numeric id from the request
// identity.
func (h *KolVideoHandlers) callerUserID(ctx context.Context, w http.ResponseWriter) (int, bool) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok || identity == nil || strings.TrimSpace(identity.UID) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
		return 0, false
	}
	userID, err := strconv.Atoi(strings.TrimSpace(identity.UID))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "subject claim is not a user id", http.StatusUnauthorized))
		return 0, false
	}
	return userID, true
}

func parseVideoID(ctx context.Context, w http.ResponseWriter, raw string) (uuid.UUID, bool) {
	videoID, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "video id must be a valid UUID", http.StatusBadRequest))
		return uuid.Nil, false
	}
	return videoID, true
}

func (h *KolVideoHandlers) writeVideoError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrVideoEmptyFile),
		errors.Is(err, services.ErrVideoBadExtension),
		errors.Is(err, services.ErrVideoTooLarge),
		errors.Is(err, services.ErrProfileNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrVideoNotFound):
		writeEnvelope(w, http.StatusNotFound, false, "Video not found", nil)
	case errors.Is(err, services.ErrMediaUpload):
		httpx.WriteError(ctx, w, httpx.NewError("media_upload_error", err.Error(), http.StatusInternalServerError))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("video_failed", "video operation failed", http.StatusInternalServerError))
	}
}

func buildVideoPayload(video domain.KolVideo) videoPayload {
	return videoPayload{
		ID:                 video.ID.String(),
		Title:              video.Title,
		Description:        video.Description,
		VideoURL:           video.VideoURL,
		PublicID:           video.PublicID,
		ProductID:          video.ProductID,
		AffiliateProfileID: video.AffiliateProfileID.String(),
		CreatedAt:          formatTime(video.CreatedAt),
		Active:             video.Active,
	}
}

func buildVideoPayloads(videos []domain.KolVideo) []videoPayload {
	payloads := make([]videoPayload, 0, len(videos))
	for _, video := range videos {
		payloads = append(payloads, buildVideoPayload(video))
	}
	return payloads
}
