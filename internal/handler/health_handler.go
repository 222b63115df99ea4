package handler

import (
	"context"
	"time"

	"social-system/pkg/redis"
	"social-system/pkg/response"

	"github.com/gin-gonic/gin"
)

// HealthHandler 健康检查
type HealthHandler struct {
	driver string
	ping   func(ctx context.Context) error
}

func NewHealthHandler(driver string, ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{driver: driver, ping: ping}
}

// Health 检查存储后端与Redis状态
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if h.ping != nil {
		if err := h.ping(ctx); err != nil {
			response.ServiceUnavailable(c, "数据库连接异常", err)
			return
		}
	}

	redisStatus := "disabled"
	if redis.Enabled() {
		redisStatus = "ok"
		if err := redis.HealthCheck(ctx); err != nil {
			redisStatus = "error"
		}
	}

	response.Success(c, gin.H{
		"status":   "ok",
		"database": h.driver,
		"redis":    redisStatus,
	})
}

// Index 服务说明
func Index(c *gin.Context) {
	response.Success(c, gin.H{
		"name":     "social-system",
		"endpoint": "/graphql",
	})
}
