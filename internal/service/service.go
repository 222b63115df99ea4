// Package service 业务层：授权检查与关系变更
// 每个需要登录的操作都先通过 RequireActor 取得发起者，再访问存储
package service

import (
	"context"

	"social-system/internal/repository"
)

// TokenIssuer 签发访问令牌
type TokenIssuer interface {
	IssueToken(userID, email string) (string, error)
}

// TokenRevoker 吊销用户已签发的令牌
type TokenRevoker interface {
	Revoke(ctx context.Context, userID string) error
}

// LoginLimiter 登录尝试限流
type LoginLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
	Reset(ctx context.Context, email string) error
}

// UnreadCounter 私信未读计数
type UnreadCounter interface {
	Increment(ctx context.Context, userID, threadID string) error
	Clear(ctx context.Context, userID, threadID string) error
	Total(ctx context.Context, userID string) (int64, error)
}

// Deps 可选的外部依赖，Redis 未启用时后三项为 nil
type Deps struct {
	Tokens  TokenIssuer
	Revoker TokenRevoker
	Limiter LoginLimiter
	Unread  UnreadCounter
}

// Services 全部业务服务
type Services struct {
	Users    *UserService
	Posts    *PostService
	Friends  *FriendService
	Messages *MessageService
}

// New 基于存储后端组装全部服务
func New(store repository.Store, deps Deps) *Services {
	return &Services{
		Users: &UserService{
			users:   store.Users,
			posts:   store.Posts,
			tokens:  deps.Tokens,
			revoker: deps.Revoker,
			limiter: deps.Limiter,
		},
		Posts: &PostService{
			posts:    store.Posts,
			graffiti: store.Graffiti,
			users:    store.Users,
		},
		Friends: &FriendService{
			users: store.Users,
		},
		Messages: &MessageService{
			threads: store.Threads,
			users:   store.Users,
			unread:  deps.Unread,
		},
	}
}
