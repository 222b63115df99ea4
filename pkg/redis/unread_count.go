package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// 未读私信计数
// 每个用户一个 hash：field 为会话ID，value 为该会话的未读条数
const (
	UnreadCountKeyPrefix = keyPrefix + "unread:"
	unreadTTL            = 30 * 24 * time.Hour
)

// UnreadCounter 基于全局客户端的未读计数器
type UnreadCounter struct{}

func unreadKey(userID string) string {
	return UnreadCountKeyPrefix + userID
}

// Increment 会话未读数加一
func (UnreadCounter) Increment(ctx context.Context, userID, threadID string) error {
	if client == nil {
		return errNotInitialized
	}
	key := unreadKey(userID)

	pipe := client.TxPipeline()
	pipe.HIncrBy(ctx, key, threadID, 1)
	pipe.Expire(ctx, key, unreadTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("增加未读消息计数失败: %w", err)
	}
	return nil
}

// Clear 清除某个会话的未读数
func (UnreadCounter) Clear(ctx context.Context, userID, threadID string) error {
	if client == nil {
		return errNotInitialized
	}
	if err := client.HDel(ctx, unreadKey(userID), threadID).Err(); err != nil {
		return fmt.Errorf("重置未读消息计数失败: %w", err)
	}
	return nil
}

// Total 用户所有会话的未读总数
func (UnreadCounter) Total(ctx context.Context, userID string) (int64, error) {
	if client == nil {
		return 0, errNotInitialized
	}
	values, err := client.HVals(ctx, unreadKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("获取未读消息计数失败: %w", err)
	}
	var total int64
	for _, v := range values {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("解析未读消息计数失败: %w", err)
		}
		if n > 0 {
			total += n
		}
	}
	return total, nil
}
