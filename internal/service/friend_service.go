package service

import (
	"context"
	"errors"

	"social-system/internal/model"
	"social-system/internal/repository"
	"social-system/pkg/logger"

	"go.uber.org/zap"
)

// FriendService 好友申请状态机：无关系 -> 待确认 -> 好友
type FriendService struct {
	users repository.UserRepository
}

// SendRequest 向 receiverID 发送好友申请，返回接收者
// 已是好友或已在待确认列表中时不做修改
func (s *FriendService) SendRequest(ctx context.Context, receiverID string) (*model.User, error) {
	actor, err := requireUser(ctx, s.users)
	if err != nil {
		return nil, err
	}
	if receiverID == actor.ID {
		return nil, model.Validation("cannot send a friend request to yourself")
	}
	receiver, err := s.users.GetByID(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if receiver.HasFriend(actor.ID) || receiver.HasPendingFriend(actor.ID) {
		return receiver, nil
	}
	return s.users.SendFriendRequest(ctx, receiverID, actor.ID)
}

// Accept 接受 requesterID 的好友申请，返回接受者
// 接受者一侧在一次原子更新中完成；申请者一侧随后单独更新，失败不回滚
func (s *FriendService) Accept(ctx context.Context, requesterID string) (*model.User, error) {
	actor, err := requireUser(ctx, s.users)
	if err != nil {
		return nil, err
	}
	accepter, err := s.users.AcceptFriend(ctx, actor.ID, requesterID)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.AddFriend(ctx, requesterID, actor.ID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("好友申请者已不存在", zap.String("requester_id", requesterID))
			return accepter, nil
		}
		logger.Error("更新申请者好友列表失败",
			zap.String("user_id", actor.ID),
			zap.String("requester_id", requesterID),
			zap.Error(err),
		)
		return nil, err
	}
	return accepter, nil
}
