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

// IdentitiesHandler 身份处理器
type IdentitiesHandler struct {
	config     *config.Config
	identities *services.IdentityService
	pool       *services.Pool
}

// NewIdentitiesHandler 创建身份处理器
func NewIdentitiesHandler(cfg *config.Config, identities *services.IdentityService, pool *services.Pool) *IdentitiesHandler {
	return &IdentitiesHandler{config: cfg, identities: identities, pool: pool}
}

// Create POST /api/identities — 公开注册
func (h *IdentitiesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.IdentityRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	identity, err := h.identities.Create(&req)
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteCreatedResponse(w, identity)
}

// Get GET /api/identities/{identityId}
func (h *IdentitiesHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	identity, err := h.identities.Get(caller, chiRoute.URLParam(r, "identityId"))
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, identity)
}

// List GET /api/identities — 管理员专用
func (h *IdentitiesHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	identities, err := h.identities.List(caller)
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, identities)
}

// ListAsync GET /api/identities/async — 同一实现走工作池
func (h *IdentitiesHandler) ListAsync(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	future := services.Submit(h.pool, func() ([]models.Identity, error) {
		return h.identities.List(caller)
	})
	identities, err := future.Wait()
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, identities)
}

// Update PUT /api/identities/{identityId}
func (h *IdentitiesHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var req models.IdentityRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	identity, err := h.identities.Update(caller, chiRoute.URLParam(r, "identityId"), &req)
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, identity)
}

// Delete DELETE /api/identities/{identityId}
func (h *IdentitiesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if err := h.identities.Delete(caller, chiRoute.URLParam(r, "identityId")); err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]string{"message": "Identity deleted"})
}

// ChangePassword PUT /api/identities/{identityId}/password
func (h *IdentitiesHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var req models.ChangePasswordRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	if err := h.identities.ChangePassword(caller, chiRoute.URLParam(r, "identityId"), req.Password); err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]string{"message": "Password changed"})
}

// EnableDisable PUT /api/identities/{identityId}/enabled — 管理员开关
func (h *IdentitiesHandler) EnableDisable(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var req models.EnableDisableRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	identity, err := h.identities.EnableDisable(caller, chiRoute.URLParam(r, "identityId"), req.Enabled)
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, identity)
}

// MakeUser PUT /api/identities/{identityId}/make-user
func (h *IdentitiesHandler) MakeUser(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.identities.MakeUser)
}

// MakeWorker PUT /api/identities/{identityId}/make-worker
func (h *IdentitiesHandler) MakeWorker(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.identities.MakeWorker)
}

// MakeDirector PUT /api/identities/{identityId}/make-director
func (h *IdentitiesHandler) MakeDirector(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.identities.MakeDirector)
}

func (h *IdentitiesHandler) transition(w http.ResponseWriter, r *http.Request, fn func(*models.Caller, string) (*models.Identity, error)) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	identity, err := fn(caller, chiRoute.URLParam(r, "identityId"))
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, identity)
}
