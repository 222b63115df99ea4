package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"social-system/internal/model"
	"social-system/internal/repository"
	"social-system/pkg/logger"
	"social-system/pkg/password"

	"go.uber.org/zap"
)

// UserService 账户与用户查询
type UserService struct {
	users   repository.UserRepository
	posts   repository.PostRepository
	tokens  TokenIssuer
	revoker TokenRevoker
	limiter LoginLimiter
}

// RegisterInput 注册参数
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// UpdateInput 资料修改参数，nil 表示不修改
type UpdateInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
}

// Register 用户注册
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.AuthPayload, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, model.Validation("email and password are required")
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	token, err := s.tokens.IssueToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	logger.Info("用户注册成功", zap.String("user_id", user.ID))
	return &model.AuthPayload{Token: token, User: user}, nil
}

// Login 登录，邮箱不存在与密码错误使用不同的固定提示
func (s *UserService) Login(ctx context.Context, email, plainPassword string) (*model.AuthPayload, error) {
	email = strings.TrimSpace(email)
	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, email)
		if err != nil {
			logger.Warn("登录限流检查失败", zap.Error(err))
		} else if !allowed {
			return nil, model.ErrTooManyAttempts
		}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrEmailNotFound
		}
		return nil, err
	}
	if !password.Verify(plainPassword, user.PasswordHash) {
		return nil, model.ErrIncorrectPassword
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			logger.Warn("重置登录限流失败", zap.Error(err))
		}
	}
	token, err := s.tokens.IssueToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &model.AuthPayload{Token: token, User: user}, nil
}

// Me 当前登录用户，动态已展开
func (s *UserService) Me(ctx context.Context) (*model.User, error) {
	user, err := requireUser(ctx, s.users)
	if err != nil {
		return nil, err
	}
	if user.Posts, err = s.posts.FindByIDs(ctx, user.PostIDs); err != nil {
		return nil, err
	}
	return user, nil
}

// Update 修改当前用户资料，只写入提供的字段
func (s *UserService) Update(ctx context.Context, in UpdateInput) (*model.User, error) {
	actor, err := RequireActor(ctx)
	if err != nil {
		return nil, err
	}

	upd := model.UserUpdate{FirstName: in.FirstName, LastName: in.LastName}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email == "" {
			return nil, model.Validation("email must not be empty")
		}
		upd.Email = &email
	}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, model.Validation("password must not be empty")
		}
		hash, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		upd.PasswordHash = &hash
	}

	if upd.IsEmpty() {
		return s.users.GetByID(ctx, actor.UserID)
	}
	return s.users.Update(ctx, actor.UserID, upd)
}

// Delete 删除当前用户并吊销其令牌
// 不级联删除其动态、涂鸦、会话以及其他用户对它的引用
func (s *UserService) Delete(ctx context.Context) (*model.User, error) {
	actor, err := RequireActor(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Delete(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if s.revoker != nil {
		if err := s.revoker.Revoke(ctx, actor.UserID); err != nil {
			logger.Warn("吊销令牌失败", zap.String("user_id", actor.UserID), zap.Error(err))
		}
	}
	logger.Info("用户已删除", zap.String("user_id", actor.UserID))
	return user, nil
}

// List 全部用户
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	return s.users.List(ctx)
}

// Get 按ID查询，不存在时返回 nil
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	return orNil(s.users.GetByID(ctx, id))
}

// GetWithFriends 查询用户并展开好友
func (s *UserService) GetWithFriends(ctx context.Context, id string) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if user == nil || err != nil {
		return nil, err
	}
	if user.Friends, err = s.users.FindByIDs(ctx, user.FriendIDs); err != nil {
		return nil, err
	}
	return user, nil
}

// GetWithPendingFriends 查询用户并展开待确认好友
func (s *UserService) GetWithPendingFriends(ctx context.Context, id string) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if user == nil || err != nil {
		return nil, err
	}
	if user.PendingFriends, err = s.users.FindByIDs(ctx, user.PendingFriendIDs); err != nil {
		return nil, err
	}
	return user, nil
}

// FindByIDs 批量查询，用于展开引用
func (s *UserService) FindByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	return s.users.FindByIDs(ctx, ids)
}

func hashPassword(plain string) (string, error) {
	hash, err := password.Hash(plain)
	if errors.Is(err, password.ErrTooLong) {
		return "", model.Validation("password must be at most %d bytes", password.MaxLength)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}
