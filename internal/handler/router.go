package handler

import (
	"social-system/pkg/jwt"
	"social-system/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RouterDeps 路由需要的组件
type RouterDeps struct {
	GraphQL *GraphQLHandler
	Health  *HealthHandler
	JWT     *jwt.JWTService
	Revoked jwt.RevocationChecker
}

// NewRouter 注册中间件与路由
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(logger.RequestIDMiddleware())
	r.Use(logger.RequestLogger())
	r.Use(logger.ErrorLoggerMiddleware())

	r.GET("/", Index)
	r.GET("/health", deps.Health.Health)

	r.POST("/graphql", deps.JWT.AuthMiddleware(deps.Revoked), deps.GraphQL.Serve)

	return r
}
