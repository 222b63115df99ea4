package service

import (
	"context"
	"errors"

	"social-system/internal/model"
	"social-system/internal/repository"
	"social-system/pkg/jwt"
)

// RequireActor 取出已认证的发起者，未登录时返回 ErrAuthenticationRequired
func RequireActor(ctx context.Context) (jwt.Actor, error) {
	actor, ok := jwt.ActorFromContext(ctx)
	if !ok {
		return jwt.Actor{}, model.ErrAuthenticationRequired
	}
	return actor, nil
}

// requireUser 在 RequireActor 基础上加载发起者记录
// 令牌签名有效但用户已被删除时同样返回 ErrAuthenticationRequired，
// 会把发起者ID写入其他记录的操作都要先经过这里
func requireUser(ctx context.Context, users repository.UserRepository) (*model.User, error) {
	actor, err := RequireActor(ctx)
	if err != nil {
		return nil, err
	}
	user, err := users.GetByID(ctx, actor.UserID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, model.ErrAuthenticationRequired
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
