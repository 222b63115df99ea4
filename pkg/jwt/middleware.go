package jwt

import (
	"context"
	"strings"

	"social-system/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// ContextUserIDKey 用户ID在gin.Context中的键名
	ContextUserIDKey = "user_id"
	// ContextClaimsKey JWT声明在gin.Context中的键名
	ContextClaimsKey = "jwt_claims"
)

// RevocationChecker 判断某个用户的令牌是否已被吊销
type RevocationChecker interface {
	IsRevoked(ctx context.Context, userID string) (bool, error)
}

// AuthMiddleware JWT认证中间件（可选认证）
// 解析 Authorization: Bearer <token>，成功时把 Actor 写入请求的 context
// 缺少、无效或已吊销的令牌不会中断请求，由业务层决定是否需要登录
func (s *JWTService) AuthMiddleware(revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		claims, err := s.ValidateToken(tokenString)
		if err != nil {
			logger.Warn("JWT验证失败",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
			)
			c.Next()
			return
		}

		actor := claims.Actor()
		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), actor.UserID)
			if err != nil {
				// 吊销状态查询失败时放行
				logger.Warn("查询令牌吊销状态失败", zap.Error(err), zap.String("user_id", actor.UserID))
			} else if isRevoked {
				logger.Info("令牌已吊销", zap.String("user_id", actor.UserID))
				c.Next()
				return
			}
		}

		c.Set(ContextUserIDKey, actor.UserID)
		c.Set(ContextClaimsKey, claims)
		c.Request = c.Request.WithContext(WithActor(c.Request.Context(), actor))

		c.Next()
	}
}

// GetUserID 从gin.Context中获取用户ID
func GetUserID(c *gin.Context) string {
	if userID, exists := c.Get(ContextUserIDKey); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return ""
}

func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}
