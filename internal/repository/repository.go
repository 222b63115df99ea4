// Package repository 定义服务层使用的持久化契约
// 具体实现见 mongorepo（文档库）、gormrepo（MySQL）、memrepo（内存）
package repository

import (
	"context"

	"social-system/internal/model"
)

// RefField 用户文档上的引用集合字段
type RefField string

const (
	RefPosts          RefField = "posts"
	RefGraffitiPosts  RefField = "graffitiPosts"
	RefMessages       RefField = "messages"
	RefFriends        RefField = "friends"
	RefPendingFriends RefField = "pendingFriends"
)

// Valid 是否为已知字段
func (f RefField) Valid() bool {
	switch f {
	case RefPosts, RefGraffitiPosts, RefMessages, RefFriends, RefPendingFriends:
		return true
	}
	return false
}

// UserRepository 用户存储
// 找不到记录（包括非法ID）时返回 model.ErrNotFound 分类的错误
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	List(ctx context.Context) ([]*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// FindByIDs 按给定顺序返回存在的用户，不存在的ID直接跳过
	FindByIDs(ctx context.Context, ids []string) ([]*model.User, error)
	// Update 以单个合并文档更新，只写入 upd 中提供的字段，返回更新后的记录
	Update(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error)
	// Delete 删除并返回被删除的记录
	Delete(ctx context.Context, id string) (*model.User, error)

	// AddToSet 把 ref 加入用户的引用集合（已存在则不变），返回更新后的记录
	AddToSet(ctx context.Context, userID string, field RefField, ref string) (*model.User, error)
	// SendFriendRequest 把 senderID 加入 receiverID 的 pendingFriends，
	// 已经是好友时不做任何修改；返回接收者最新记录
	SendFriendRequest(ctx context.Context, receiverID, senderID string) (*model.User, error)
	// AcceptFriend 原子地把 requesterID 从 pendingFriends 移到 friends，
	// 要求请求存在；已是好友时原样返回；两者都不是时返回 ErrNotFound 分类错误
	AcceptFriend(ctx context.Context, userID, requesterID string) (*model.User, error)
	// AddFriend 原子地加入 friends 并从 pendingFriends 移除，不要求请求存在
	AddFriend(ctx context.Context, userID, friendID string) (*model.User, error)
}

// PostRepository 动态存储
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.Post, error)
	// AppendComment 追加评论并返回更新后的动态
	AppendComment(ctx context.Context, postID string, comment *model.Comment) (*model.Post, error)
}

// GraffitiRepository 涂鸦存储
type GraffitiRepository interface {
	Create(ctx context.Context, graffiti *model.GraffitiPost) error
	FindByIDs(ctx context.Context, ids []string) ([]*model.GraffitiPost, error)
}

// ThreadRepository 私信会话存储
type ThreadRepository interface {
	Create(ctx context.Context, thread *model.MessageThread) error
	GetByID(ctx context.Context, id string) (*model.MessageThread, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.MessageThread, error)
	// AppendMessage 仅当 authorID 是会话参与者时追加私信
	AppendMessage(ctx context.Context, threadID string, msg *model.DirectMessage) (*model.MessageThread, error)
}

// Store 一个后端提供的全部仓储
type Store struct {
	Users    UserRepository
	Posts    PostRepository
	Graffiti GraffitiRepository
	Threads  ThreadRepository
	// Ping 健康检查，可为空
	Ping func(ctx context.Context) error
}
