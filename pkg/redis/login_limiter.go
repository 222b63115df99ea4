package redis

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const LoginAttemptKeyPrefix = keyPrefix + "login:attempts:"

// LoginLimiter 固定窗口的登录尝试计数
type LoginLimiter struct {
	MaxAttempts int
	Window      time.Duration
}

func loginKey(email string) string {
	return LoginAttemptKeyPrefix + strings.ToLower(email)
}

// Allow 记录一次尝试，超出窗口内上限时返回 false
func (l LoginLimiter) Allow(ctx context.Context, email string) (bool, error) {
	if client == nil {
		return true, errNotInitialized
	}
	if l.MaxAttempts <= 0 {
		return true, nil
	}
	key := loginKey(email)

	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return true, fmt.Errorf("记录登录尝试失败: %w", err)
	}
	if count == 1 {
		if err := client.Expire(ctx, key, l.Window).Err(); err != nil {
			return true, fmt.Errorf("设置登录限流TTL失败: %w", err)
		}
	}
	return count <= int64(l.MaxAttempts), nil
}

// Reset 登录成功后清零
func (l LoginLimiter) Reset(ctx context.Context, email string) error {
	if client == nil {
		return errNotInitialized
	}
	if err := client.Del(ctx, loginKey(email)).Err(); err != nil {
		return fmt.Errorf("重置登录尝试失败: %w", err)
	}
	return nil
}
