package handlers

import (
	"net/http"

	"corporate-backend-refactor/pkg/config"
	"corporate-backend-refactor/pkg/models"
	"corporate-backend-refactor/pkg/services"
	"corporate-backend-refactor/pkg/utils"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	config     *config.Config
	identities *services.IdentityService
	jwt        *utils.JWTService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config, identities *services.IdentityService) *AuthHandler {
	return &AuthHandler{
		config:     cfg,
		identities: identities,
		jwt:        utils.NewJWTService(cfg.JWTSecret),
	}
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		utils.WriteBadRequestResponse(w, "Username and password are required")
		return
	}

	identity, err := h.identities.Authenticate(req.Username, req.Password)
	if err != nil {
		utils.WriteAppErrorResponse(w, err)
		return
	}

	accessToken, refreshToken, expiresIn, err := h.jwt.GenerateTokenPair(identity)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to generate tokens")
		return
	}

	utils.WriteSuccessResponse(w, models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		Identity:     *identity,
	})
}

// Refresh POST /api/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshTokenRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if req.RefreshToken == "" {
		utils.WriteBadRequestResponse(w, "Refresh token is required")
		return
	}

	accessToken, expiresIn, err := h.jwt.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Invalid refresh token")
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"access_token": accessToken,
		"expires_in":   expiresIn,
	})
}
