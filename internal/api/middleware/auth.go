package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/editur/editur_server/internal/pkg/jwt"
	"github.com/editur/editur_server/internal/pkg/response"
	"github.com/editur/editur_server/internal/repository"
)

const (
	UserIDKey  = "userID"
	AccountKey = "account"
)

// Auth JWT 认证中间件，写入用户 ID 和账号标识
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AuthError(c, "Authentication required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.AuthError(c, "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			response.AuthError(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(AccountKey, claims.Account)
		c.Next()
	}
}

// AdminOnly 必须放在 Auth 之后，非管理员返回 403
func AdminOnly(userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		user, err := userRepo.GetByID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.AuthError(c, "")
			} else {
				response.ServerError(c, "")
			}
			c.Abort()
			return
		}

		if !user.IsAdmin() {
			response.PermissionError(c, "Admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUserID 从上下文获取用户 ID
func GetUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(int64)
	return id, ok
}

// GetAccount 从上下文获取账号标识
func GetAccount(c *gin.Context) string {
	return c.GetString(AccountKey)
}
