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

// PositionsHandler 职位处理器
type PositionsHandler struct {
	config    *config.Config
	positions *services.PositionService
	pool      *services.Pool
}

// NewPositionsHandler 创建职位处理器
func NewPositionsHandler(cfg *config.Config, positions *services.PositionService, pool *services.Pool) *PositionsHandler {
	return &PositionsHandler{config: cfg, positions: positions, pool: pool}
}

// Get GET /api/positions/{positionId}
func (h *PositionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	position, err := h.positions.Get(caller, chiRoute.URLParam(r, "positionId"))
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, position)
}

// ListByDepartment GET /api/departments/{departmentId}/positions
func (h *PositionsHandler) ListByDepartment(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	positions, err := h.positions.ListByDepartment(caller, chiRoute.URLParam(r, "departmentId"))
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, positions)
}

// ListByCorporation GET /api/corporations/{corporationId}/positions
func (h *PositionsHandler) ListByCorporation(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	positions, err := h.positions.ListByCorporation(caller, chiRoute.URLParam(r, "corporationId"))
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, positions)
}

// ListByCorporationAsync GET /api/corporations/{corporationId}/positions/async
func (h *PositionsHandler) ListByCorporationAsync(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	corporationID := chiRoute.URLParam(r, "corporationId")
	future := services.Submit(h.pool, func() ([]models.Position, error) {
		return h.positions.ListByCorporation(caller, corporationID)
	})
	positions, err := future.Wait()
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, positions)
}

// Create POST /api/positions — 角色门禁在路由层（DIRECTOR）
func (h *PositionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var req models.PositionRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	position, err := h.positions.Create(caller, &req)
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteCreatedResponse(w, position)
}

// Update PUT /api/positions/{positionId}
func (h *PositionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var req models.PositionRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	position, err := h.positions.Update(caller, chiRoute.URLParam(r, "positionId"), &req)
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, position)
}

// Delete DELETE /api/positions/{positionId}
func (h *PositionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if err := h.positions.Delete(caller, chiRoute.URLParam(r, "positionId")); err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]string{"message": "Position deleted"})
}
