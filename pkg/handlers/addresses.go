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

// AddressesHandler 地址处理器；办公室创建时也可内联建地址
type AddressesHandler struct {
	config    *config.Config
	addresses *services.AddressService
}

// NewAddressesHandler 创建地址处理器
func NewAddressesHandler(cfg *config.Config, addresses *services.AddressService) *AddressesHandler {
	return &AddressesHandler{config: cfg, addresses: addresses}
}

// List GET /api/addresses
func (h *AddressesHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	addresses, err := h.addresses.List(caller)
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, addresses)
}

// Get GET /api/addresses/{addressId}
func (h *AddressesHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	address, err := h.addresses.Get(caller, chiRoute.URLParam(r, "addressId"))
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, address)
}

// Create POST /api/addresses
func (h *AddressesHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var req models.AddressRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	address, err := h.addresses.Create(caller, &req)
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteCreatedResponse(w, address)
}

// Update PUT /api/addresses/{addressId}
func (h *AddressesHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var req models.AddressRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	address, err := h.addresses.Update(caller, chiRoute.URLParam(r, "addressId"), &req)
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, address)
}

// Delete DELETE /api/addresses/{addressId} — 被办公室引用时存储层拒绝
func (h *AddressesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if err := h.addresses.Delete(caller, chiRoute.URLParam(r, "addressId")); err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]string{"message": "Address deleted"})
}
