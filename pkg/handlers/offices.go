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

// OfficesHandler 办公室处理器；复合键的两个分量都走路径参数
type OfficesHandler struct {
	config  *config.Config
	offices *services.OfficeService
	pool    *services.Pool
}

// NewOfficesHandler 创建办公室处理器
func NewOfficesHandler(cfg *config.Config, offices *services.OfficeService, pool *services.Pool) *OfficesHandler {
	return &OfficesHandler{config: cfg, offices: offices, pool: pool}
}

func officeKeyFromPath(r *http.Request) models.OfficeKey {
	return models.OfficeKey{
		CorporationID: chiRoute.URLParam(r, "corporationId"),
		AddressID:     chiRoute.URLParam(r, "addressId"),
	}
}

// ListByCorporation GET /api/corporations/{corporationId}/offices — 公开
func (h *OfficesHandler) ListByCorporation(w http.ResponseWriter, r *http.Request) {
	offices, err := h.offices.ListByCorporation(chiRoute.URLParam(r, "corporationId"))
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, offices)
}

// List GET /api/offices — 公开
func (h *OfficesHandler) List(w http.ResponseWriter, r *http.Request) {
	offices, err := h.offices.List()
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, offices)
}

// ListAsync GET /api/offices/async
func (h *OfficesHandler) ListAsync(w http.ResponseWriter, r *http.Request) {
	future := services.Submit(h.pool, func() ([]models.Office, error) {
		return h.offices.List()
	})
	offices, err := future.Wait()
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, offices)
}

// Get GET /api/offices/{corporationId}/{addressId} — 公开，带地址与员工投影
func (h *OfficesHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.offices.GetWithEmployees(officeKeyFromPath(r))
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, resp)
}

// Create POST /api/offices
func (h *OfficesHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var req models.OfficeRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	office, err := h.offices.Create(caller, &req)
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteCreatedResponse(w, office)
}

// Delete DELETE /api/offices/{corporationId}/{addressId}
func (h *OfficesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if err := h.offices.Delete(caller, officeKeyFromPath(r)); err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]string{"message": "Office deleted"})
}
