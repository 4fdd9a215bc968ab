package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Authority 身份角色（封闭集合）
type Authority string

const (
	AuthorityAdmin    Authority = "ADMIN"
	AuthorityUser     Authority = "USER"
	AuthorityWorker   Authority = "WORKER"
	AuthorityDirector Authority = "DIRECTOR"
)

// ValidAuthority reports whether a is one of the four known roles.
func ValidAuthority(a Authority) bool {
	switch a {
	case AuthorityAdmin, AuthorityUser, AuthorityWorker, AuthorityDirector:
		return true
	}
	return false
}

// Identity represents an authenticated account in the system
type Identity struct {
	ID         string    `json:"id" db:"id"`
	Username   string    `json:"username" db:"username"`
	Password   string    `json:"-" db:"password_hash"` // Never return password in JSON
	Email      string    `json:"email" db:"email"`
	Phone      string    `json:"phone" db:"phone"`
	Authority  Authority `json:"authority" db:"authority"`
	Enabled    bool      `json:"enabled" db:"enabled"`
	EmployeeID string    `json:"employee_id,omitempty" db:"employee_id"`
	ImageRef   string    `json:"image_ref,omitempty" db:"image_ref"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// IdentityRequest 身份创建/更新请求体
type IdentityRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// LoginRequest represents the request payload for login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the response payload for login
type LoginResponse struct {
	Identity     Identity `json:"identity"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"`
}

// RefreshTokenRequest represents the request payload for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ChangePasswordRequest 修改密码请求体
type ChangePasswordRequest struct {
	Password string `json:"password"`
}

// EnableDisableRequest toggles the enabled flag on an identity
type EnableDisableRequest struct {
	Enabled bool `json:"enabled"`
}

// Caller is the authenticated identity context attached to a request.
// It is built by the auth middleware from verified token claims and passed
// explicitly into authorization checks; nothing below the middleware reads
// ambient session state.
type Caller struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Authority Authority `json:"authority"`
	Enabled   bool      `json:"enabled"`
}

// TokenClaims represents the JWT token claims
type TokenClaims struct {
	IdentityID string    `json:"identity_id"`
	Email      string    `json:"email"`
	Authority  Authority `json:"authority"`
	Enabled    bool      `json:"enabled"`
	Type       string    `json:"type"` // "access" or "refresh"
	Exp        int64     `json:"exp"`
	Iat        int64     `json:"iat"`
}

// GetExpirationTime implements jwt.Claims interface
func (c *TokenClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.Exp, 0)), nil
}

// GetIssuedAt implements jwt.Claims interface
func (c *TokenClaims) GetIssuedAt() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.Iat, 0)), nil
}

// GetNotBefore implements jwt.Claims interface
func (c *TokenClaims) GetNotBefore() (*jwt.NumericDate, error) {
	return nil, nil
}

// GetIssuer implements jwt.Claims interface
func (c *TokenClaims) GetIssuer() (string, error) {
	return "", nil
}

// GetSubject implements jwt.Claims interface
func (c *TokenClaims) GetSubject() (string, error) {
	return c.IdentityID, nil
}

// GetAudience implements jwt.Claims interface
func (c *TokenClaims) GetAudience() (jwt.ClaimStrings, error) {
	return nil, nil
}
