package redis

import (
	"context"
	"fmt"
	"time"
)

const RevokedKeyPrefix = keyPrefix + "revoked:"

// TokenRevoker 按用户吊销令牌，TTL 应不短于令牌有效期
type TokenRevoker struct {
	TTL time.Duration
}

// Revoke 吊销用户当前所有令牌
func (r TokenRevoker) Revoke(ctx context.Context, userID string) error {
	if client == nil {
		return errNotInitialized
	}
	if err := client.Set(ctx, RevokedKeyPrefix+userID, time.Now().Unix(), r.TTL).Err(); err != nil {
		return fmt.Errorf("吊销令牌失败: %w", err)
	}
	return nil
}

// IsRevoked 用户令牌是否已被吊销
func (r TokenRevoker) IsRevoked(ctx context.Context, userID string) (bool, error) {
	if client == nil {
		return false, errNotInitialized
	}
	n, err := client.Exists(ctx, RevokedKeyPrefix+userID).Result()
	if err != nil {
		return false, fmt.Errorf("查询令牌吊销状态失败: %w", err)
	}
	return n > 0, nil
}
