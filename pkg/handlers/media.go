package handlers

import (
	"io"
	"net/http"

	"corporate-backend-refactor/pkg/config"
	"corporate-backend-refactor/pkg/middleware"
	"corporate-backend-refactor/pkg/services"
	"corporate-backend-refactor/pkg/utils"

	chiRoute "github.com/go-chi/chi/v5"
)

// MediaHandler 图片处理器；实体变更已提交后的对象存储故障以 warning 返回
type MediaHandler struct {
	config *config.Config
	media  *services.MediaService
}

// NewMediaHandler 创建图片处理器
func NewMediaHandler(cfg *config.Config, media *services.MediaService) *MediaHandler {
	return &MediaHandler{config: cfg, media: media}
}

func readImageBody(r *http.Request) ([]byte, string, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", err
	}
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}

// UploadIdentityImage PUT /api/identities/{identityId}/image — 仅限本人
func (h *MediaHandler) UploadIdentityImage(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	data, contentType, err := readImageBody(r)
	if err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	result, err := h.media.UploadIdentityImage(r.Context(), caller, chiRoute.URLParam(r, "identityId"), data, contentType)
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, result)
}

// DeleteIdentityImage DELETE /api/identities/{identityId}/image
func (h *MediaHandler) DeleteIdentityImage(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	result, err := h.media.DeleteIdentityImage(r.Context(), caller, chiRoute.URLParam(r, "identityId"))
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, result)
}

// UploadCorporationImage PUT /api/corporations/{corporationId}/image — 仅限董事
func (h *MediaHandler) UploadCorporationImage(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	data, contentType, err := readImageBody(r)
	if err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	result, err := h.media.UploadCorporationImage(r.Context(), caller, chiRoute.URLParam(r, "corporationId"), data, contentType)
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, result)
}

// DeleteCorporationImage DELETE /api/corporations/{corporationId}/image
func (h *MediaHandler) DeleteCorporationImage(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	result, err := h.media.DeleteCorporationImage(r.Context(), caller, chiRoute.URLParam(r, "corporationId"))
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, result)
}

// FetchImage GET /api/images/{imageRef} — 公开，直接回写二进制内容
func (h *MediaHandler) FetchImage(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := h.media.FetchImage(r.Context(), chiRoute.URLParam(r, "imageRef"))
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
