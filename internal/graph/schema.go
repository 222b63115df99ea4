// Package graph GraphQL 模式与解析器
// 每个查询/变更对应 Resolver 上的一个强类型方法，业务逻辑全部委托给 service 层
package graph

import (
	_ "embed"
	"errors"
	"fmt"

	"social-system/config"
	"social-system/internal/model"
	"social-system/internal/service"
	"social-system/pkg/logger"

	graphql "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"
)

//go:embed schema.graphql
var schemaSDL string

// ErrInternal 非业务错误对客户端统一显示的信息
var ErrInternal = errors.New("internal server error")

// NewSchema 解析模式并绑定解析器
func NewSchema(svc *service.Services, cfg config.GraphQLConfig) (*graphql.Schema, error) {
	opts := []graphql.SchemaOpt{}
	if cfg.MaxDepth > 0 {
		opts = append(opts, graphql.MaxDepth(cfg.MaxDepth))
	}
	if cfg.MaxParallelism > 0 {
		opts = append(opts, graphql.MaxParallelism(cfg.MaxParallelism))
	}
	schema, err := graphql.ParseSchema(schemaSDL, &Resolver{svc: svc}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse graphql schema: %w", err)
	}
	return schema, nil
}

// clientError 业务错误原样返回（携带 extensions.code），其他错误记录日志后隐藏细节
func clientError(op string, err error) error {
	if err == nil {
		return nil
	}
	var me *model.Error
	if errors.As(err, &me) {
		return me
	}
	logger.Error("GraphQL操作失败", zap.String("op", op), zap.Error(err))
	return ErrInternal
}
