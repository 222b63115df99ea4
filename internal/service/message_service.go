package service

import (
	"context"

	"social-system/internal/model"
	"social-system/internal/repository"
	"social-system/pkg/logger"

	"go.uber.org/zap"
)

// MessageService 私信会话
type MessageService struct {
	threads repository.ThreadRepository
	users   repository.UserRepository
	unread  UnreadCounter
}

// CreateThread 与 recipientID 创建新会话
// 同一对用户重复调用会创建新的会话
func (s *MessageService) CreateThread(ctx context.Context, recipientID string) (*model.MessageThread, error) {
	actor, err := requireUser(ctx, s.users)
	if err != nil {
		return nil, err
	}
	if recipientID == actor.ID {
		return nil, model.Validation("cannot start a message thread with yourself")
	}
	if _, err := s.users.GetByID(ctx, recipientID); err != nil {
		return nil, err
	}

	thread := &model.MessageThread{Chatters: []string{actor.ID, recipientID}}
	if err := s.threads.Create(ctx, thread); err != nil {
		return nil, err
	}
	// 两个用户分别写入，任一失败不回滚已写入的部分
	for _, userID := range thread.Chatters {
		if _, err := s.users.AddToSet(ctx, userID, repository.RefMessages, thread.ID); err != nil {
			logger.Error("关联会话失败", zap.String("user_id", userID), zap.String("thread_id", thread.ID), zap.Error(err))
			return nil, err
		}
	}
	return thread, nil
}

// SendMessage 在会话中发送私信，发送者必须是会话参与者
func (s *MessageService) SendMessage(ctx context.Context, threadID, content string) (*model.MessageThread, error) {
	actor, err := requireUser(ctx, s.users)
	if err != nil {
		return nil, err
	}
	msg := &model.DirectMessage{MessageContent: content, AuthorID: actor.ID}
	thread, err := s.threads.AppendMessage(ctx, threadID, msg)
	if err != nil {
		return nil, err
	}

	if s.unread != nil {
		for _, chatter := range thread.Chatters {
			if chatter == actor.ID {
				continue
			}
			if err := s.unread.Increment(ctx, chatter, thread.ID); err != nil {
				logger.Warn("增加未读计数失败", zap.String("user_id", chatter), zap.Error(err))
			}
		}
	}
	return thread, nil
}

// MarkRead 清除当前用户在会话中的未读数，返回剩余未读总数
func (s *MessageService) MarkRead(ctx context.Context, threadID string) (int64, error) {
	actor, err := RequireActor(ctx)
	if err != nil {
		return 0, err
	}
	thread, err := s.threads.GetByID(ctx, threadID)
	if err != nil {
		return 0, err
	}
	if !thread.HasChatter(actor.UserID) {
		return 0, model.NotFound("message thread", threadID)
	}
	if s.unread == nil {
		return 0, nil
	}
	if err := s.unread.Clear(ctx, actor.UserID, threadID); err != nil {
		return 0, err
	}
	return s.unread.Total(ctx, actor.UserID)
}

// UnreadCount 当前用户的未读私信总数
func (s *MessageService) UnreadCount(ctx context.Context) (int64, error) {
	actor, err := RequireActor(ctx)
	if err != nil {
		return 0, err
	}
	if s.unread == nil {
		return 0, nil
	}
	return s.unread.Total(ctx, actor.UserID)
}

// GetUserWithThreads 查询用户并展开其私信会话
func (s *MessageService) GetUserWithThreads(ctx context.Context, userID string) (*model.User, error) {
	user, err := orNil(s.users.GetByID(ctx, userID))
	if user == nil || err != nil {
		return nil, err
	}
	if user.Threads, err = s.threads.FindByIDs(ctx, user.ThreadIDs); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *MessageService) FindByIDs(ctx context.Context, ids []string) ([]*model.MessageThread, error) {
	return s.threads.FindByIDs(ctx, ids)
}
