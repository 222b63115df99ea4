package model

import "time"

// MessageThread 私信会话
// Chatters 在创建时确定，之后不再变化
type MessageThread struct {
	ID        string
	Chatters  []string
	Messages  []*DirectMessage
	CreatedAt time.Time
}

// HasChatter 判断用户是否为会话参与者
func (t *MessageThread) HasChatter(userID string) bool {
	return containsID(t.Chatters, userID)
}

// DirectMessage 会话内的一条私信
type DirectMessage struct {
	ID             string
	MessageContent string
	AuthorID       string
	CreatedAt      time.Time
}
