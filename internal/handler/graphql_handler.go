package handler

import (
	"net/http"

	"social-system/pkg/logger"
	"social-system/pkg/response"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"
)

// GraphQLHandler 单一入口 POST /graphql
type GraphQLHandler struct {
	schema *graphql.Schema
}

func NewGraphQLHandler(schema *graphql.Schema) *GraphQLHandler {
	return &GraphQLHandler{schema: schema}
}

type graphqlRequest struct {
	Query         string                 `json:"query" binding:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Serve 执行一次查询/变更，认证信息由 JWT 中间件放入请求 context
func (h *GraphQLHandler) Serve(c *gin.Context) {
	var req graphqlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求体格式错误: "+err.Error())
		return
	}

	resp := h.schema.Exec(c.Request.Context(), req.Query, req.OperationName, req.Variables)
	if len(resp.Errors) > 0 {
		logger.Debug("GraphQL返回错误",
			zap.String("request_id", logger.GetRequestID(c)),
			zap.String("operation", req.OperationName),
			zap.Int("errors", len(resp.Errors)),
		)
	}
	c.JSON(http.StatusOK, resp)
}
