package handlers

import (
	"net/http"

	"corporate-backend-refactor/pkg/config"
	"corporate-backend-refactor/pkg/middleware"
	"corporate-backend-refactor/pkg/models"
	"corporate-backend-refactor/pkg/services"
	"corporate-backend-refactor/pkg/utils"

	chiRoute "github.com/go-chi/chi/v5"
)

// CorporationsHandler 公司处理器
type CorporationsHandler struct {
	config       *config.Config
	corporations *services.CorporationService
	pool         *services.Pool
}

// NewCorporationsHandler 创建公司处理器
func NewCorporationsHandler(cfg *config.Config, corporations *services.CorporationService, pool *services.Pool) *CorporationsHandler {
	return &CorporationsHandler{config: cfg, corporations: corporations, pool: pool}
}

// List GET /api/corporations — 公开目录
func (h *CorporationsHandler) List(w http.ResponseWriter, r *http.Request) {
	corporations, err := h.corporations.List()
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, corporations)
}

// ListAsync GET /api/corporations/async
func (h *CorporationsHandler) ListAsync(w http.ResponseWriter, r *http.Request) {
	future := services.Submit(h.pool, func() ([]models.Corporation, error) {
		return h.corporations.List()
	})
	corporations, err := future.Wait()
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, corporations)
}

// Get GET /api/corporations/{corporationId} — 公开，带办公室投影
func (h *CorporationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.corporations.GetWithOffices(chiRoute.URLParam(r, "corporationId"))
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, resp)
}

// Create POST /api/corporations — 角色门禁在路由层（DIRECTOR）
func (h *CorporationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var req models.CorporationRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	corp, err := h.corporations.Create(caller, &req)
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteCreatedResponse(w, corp)
}

// Update PUT /api/corporations/{corporationId}
func (h *CorporationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var req models.CorporationRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	corp, err := h.corporations.Update(caller, chiRoute.URLParam(r, "corporationId"), &req)
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, corp)
}

// Delete DELETE /api/corporations/{corporationId}
func (h *CorporationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if err := h.corporations.Delete(caller, chiRoute.URLParam(r, "corporationId")); err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]string{"message": "Corporation deleted"})
}

// AddDirector PUT /api/corporations/{corporationId}/directors
func (h *CorporationsHandler) AddDirector(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var req models.AddDirectorRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	corp, err := h.corporations.AddDirector(caller, chiRoute.URLParam(r, "corporationId"), &req)
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, corp)
}
