package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"corporate-backend-refactor/pkg/config"
	"corporate-backend-refactor/pkg/models"
	"corporate-backend-refactor/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
)

// ContextKey 用于在context中存储调用者信息的键
type ContextKey string

const (
	CallerContextKey ContextKey = "caller"
)

// AuthMiddleware JWT认证中间件
func AuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Debug {
				fmt.Printf("🔍 Auth middleware: Processing request to %s\n", r.URL.Path)
			}

			// 从Authorization头获取token
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				fmt.Printf("❌ Auth middleware: Missing authorization header\n")
				utils.WriteErrorResponse(w, http.StatusUnauthorized, "Missing authorization header")
				return
			}

			// 检查Bearer前缀
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				fmt.Printf("❌ Auth middleware: Invalid authorization header format\n")
				utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}

			// 解析和验证JWT token
			token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
				// 验证签名方法
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(cfg.JWTSecret), nil
			})

			if err != nil {
				fmt.Printf("❌ Auth middleware: Token parsing failed: %v\n", err)
				utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid token: "+err.Error())
				return
			}

			// 检查token是否有效
			if !token.Valid {
				fmt.Printf("❌ Auth middleware: Token is not valid\n")
				utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			// 获取claims
			claims, ok := token.Claims.(*models.TokenClaims)
			if !ok {
				fmt.Printf("❌ Auth middleware: Invalid token claims\n")
				utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid token claims")
				return
			}

			// 检查token类型（只接受access token）
			if claims.Type != "access" {
				fmt.Printf("❌ Auth middleware: Invalid token type: %s\n", claims.Type)
				utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid token type")
				return
			}

			// 检查token是否过期
			if time.Now().Unix() > claims.Exp {
				fmt.Printf("❌ Auth middleware: Token expired. Current: %d, Exp: %d\n", time.Now().Unix(), claims.Exp)
				utils.WriteErrorResponse(w, http.StatusUnauthorized, "Token expired")
				return
			}

			// 被禁用的身份签发过的令牌立即失效
			if !claims.Enabled {
				fmt.Printf("❌ Auth middleware: Identity %s is disabled\n", claims.IdentityID)
				utils.WriteErrorResponse(w, http.StatusUnauthorized, "Identity is disabled")
				return
			}

			// 创建调用者上下文并添加到请求context
			caller := &models.Caller{
				ID:        claims.IdentityID,
				Email:     claims.Email,
				Authority: claims.Authority,
				Enabled:   claims.Enabled,
			}

			if cfg.Debug {
				fmt.Printf("✅ Auth middleware: Authenticated %s (%s, %s)\n", caller.ID, caller.Email, caller.Authority)
			}

			ctx := context.WithValue(r.Context(), CallerContextKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles 角色集合中间件：调用者角色必须属于固定允许集合
// 挂在 AuthMiddleware 之后；所有权遍历仍由服务层完成。
func RequireRoles(roles ...models.Authority) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := GetCallerFromContext(r.Context())
			if !ok || caller == nil {
				utils.WriteUnauthorizedResponse(w, "Not authenticated")
				return
			}
			for _, role := range roles {
				if caller.Authority == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			fmt.Printf("❌ Role middleware: %s with role %s rejected for %s\n", caller.ID, caller.Authority, r.URL.Path)
			utils.WriteForbiddenResponse(w, "Caller role is not permitted for this operation")
		})
	}
}

// GetCallerFromContext 从context中获取调用者信息
func GetCallerFromContext(ctx context.Context) (*models.Caller, bool) {
	caller, ok := ctx.Value(CallerContextKey).(*models.Caller)
	return caller, ok
}

// RequireCaller 要求调用者必须已认证的辅助函数
func RequireCaller(ctx context.Context) (*models.Caller, error) {
	caller, ok := GetCallerFromContext(ctx)
	if !ok || caller == nil {
		return nil, fmt.Errorf("caller not authenticated")
	}
	return caller, nil
}
