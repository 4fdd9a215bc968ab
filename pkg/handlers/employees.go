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

// EmployeesHandler 员工处理器；角色门禁（WORKER/DIRECTOR）在路由层
type EmployeesHandler struct {
	config    *config.Config
	employees *services.EmployeeService
	pool      *services.Pool
}

// NewEmployeesHandler 创建员工处理器
func NewEmployeesHandler(cfg *config.Config, employees *services.EmployeeService, pool *services.Pool) *EmployeesHandler {
	return &EmployeesHandler{config: cfg, employees: employees, pool: pool}
}

// Get GET /api/employees/{employeeId} — 带身份与职位的一层投影
func (h *EmployeesHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	resp, err := h.employees.GetWithRelations(caller, chiRoute.URLParam(r, "employeeId"))
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, resp)
}

// ListByOffice GET /api/offices/{corporationId}/{addressId}/employees
func (h *EmployeesHandler) ListByOffice(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	employees, err := h.employees.ListByOffice(caller, officeKeyFromPath(r))
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, employees)
}

// ListByCorporation GET /api/corporations/{corporationId}/employees
func (h *EmployeesHandler) ListByCorporation(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	employees, err := h.employees.ListByCorporation(caller, chiRoute.URLParam(r, "corporationId"))
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, employees)
}

// ListByCorporationAsync GET /api/corporations/{corporationId}/employees/async
func (h *EmployeesHandler) ListByCorporationAsync(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	corporationID := chiRoute.URLParam(r, "corporationId")
	future := services.Submit(h.pool, func() ([]models.Employee, error) {
		return h.employees.ListByCorporation(caller, corporationID)
	})
	employees, err := future.Wait()
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, employees)
}

// Create POST /api/employees — 本人建档且需目标公司的董事身份
func (h *EmployeesHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var req models.EmployeeRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	employee, err := h.employees.Create(caller, &req)
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteCreatedResponse(w, employee)
}

// Update PUT /api/employees/{employeeId}
func (h *EmployeesHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var req models.EmployeeRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	employee, err := h.employees.Update(caller, chiRoute.URLParam(r, "employeeId"), &req)
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, employee)
}

// Transfer POST /api/employees/transfer — 同公司办公室之间调动
func (h *EmployeesHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var req models.OfficeTransferRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	employee, err := h.employees.Transfer(caller, req.EmployeeID, req.To)
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, employee)
}

// Delete DELETE /api/employees/{employeeId} — 仅本人名下的员工档案
func (h *EmployeesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if err := h.employees.Delete(caller, chiRoute.URLParam(r, "employeeId")); err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]string{"message": "Employee deleted"})
}
