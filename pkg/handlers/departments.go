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

// DepartmentsHandler 部门处理器
type DepartmentsHandler struct {
	config      *config.Config
	departments *services.DepartmentService
	pool        *services.Pool
}

// NewDepartmentsHandler 创建部门处理器
func NewDepartmentsHandler(cfg *config.Config, departments *services.DepartmentService, pool *services.Pool) *DepartmentsHandler {
	return &DepartmentsHandler{config: cfg, departments: departments, pool: pool}
}

// Get GET /api/departments/{departmentId} — 带职位投影，作用域门禁在服务层
func (h *DepartmentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	resp, err := h.departments.GetWithPositions(caller, chiRoute.URLParam(r, "departmentId"))
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, resp)
}

// ListByCorporation GET /api/corporations/{corporationId}/departments
func (h *DepartmentsHandler) ListByCorporation(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	departments, err := h.departments.ListByCorporation(caller, chiRoute.URLParam(r, "corporationId"))
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, departments)
}

// ListByCorporationAsync GET /api/corporations/{corporationId}/departments/async
func (h *DepartmentsHandler) ListByCorporationAsync(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	corporationID := chiRoute.URLParam(r, "corporationId")
	future := services.Submit(h.pool, func() ([]models.Department, error) {
		return h.departments.ListByCorporation(caller, corporationID)
	})
	departments, err := future.Wait()
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, departments)
}

// Create POST /api/departments — 角色门禁在路由层（DIRECTOR）
func (h *DepartmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var req models.DepartmentRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	department, err := h.departments.Create(caller, &req)
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteCreatedResponse(w, department)
}

// Update PUT /api/departments/{departmentId}
func (h *DepartmentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var req models.DepartmentRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	department, err := h.departments.Update(caller, chiRoute.URLParam(r, "departmentId"), &req)
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, department)
}

// SetOffices PUT /api/departments/{departmentId}/offices — 整组替换
func (h *DepartmentsHandler) SetOffices(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var req models.SetDepartmentOfficesRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	department, err := h.departments.SetOffices(caller, chiRoute.URLParam(r, "departmentId"), req.OfficeKeys)
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, department)
}

// Delete DELETE /api/departments/{departmentId}
func (h *DepartmentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if err := h.departments.Delete(caller, chiRoute.URLParam(r, "departmentId")); err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]string{"message": "Department deleted"})
}
