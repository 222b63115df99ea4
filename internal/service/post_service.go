package service

import (
	"context"
	"strings"

	"social-system/internal/model"
	"social-system/internal/repository"
	"social-system/pkg/logger"

	"go.uber.org/zap"
)

// PostService 动态、评论与涂鸦
type PostService struct {
	posts    repository.PostRepository
	graffiti repository.GraffitiRepository
	users    repository.UserRepository
}

// AddPost 发布动态，并把动态ID加入发布者的 posts
func (s *PostService) AddPost(ctx context.Context, postText string) (*model.Post, error) {
	actor, err := requireUser(ctx, s.users)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(postText) == "" {
		return nil, model.Validation("postText must not be empty")
	}
	post := &model.Post{AuthorID: actor.ID, PostText: postText}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	if _, err := s.users.AddToSet(ctx, actor.ID, repository.RefPosts, post.ID); err != nil {
		logger.Error("关联动态失败", zap.String("user_id", actor.ID), zap.String("post_id", post.ID), zap.Error(err))
		return nil, err
	}
	return post, nil
}

// AddComment 追加评论，相同内容重复提交也会追加
func (s *PostService) AddComment(ctx context.Context, postID, commentText string) (*model.Post, error) {
	actor, err := requireUser(ctx, s.users)
	if err != nil {
		return nil, err
	}
	comment := &model.Comment{CommentText: commentText, AuthorID: actor.ID}
	return s.posts.AppendComment(ctx, postID, comment)
}

// AddGraffiti 在他人主页留下涂鸦
// 涂鸦创建与接收者关联是两次写入，后者失败时不回滚
func (s *PostService) AddGraffiti(ctx context.Context, receivingUserID, postText string) (*model.GraffitiPost, error) {
	actor, err := requireUser(ctx, s.users)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, receivingUserID); err != nil {
		return nil, err
	}
	graffiti := &model.GraffitiPost{
		PostingUserID:   actor.ID,
		ReceivingUserID: receivingUserID,
		PostText:        postText,
	}
	if err := s.graffiti.Create(ctx, graffiti); err != nil {
		return nil, err
	}
	if _, err := s.users.AddToSet(ctx, receivingUserID, repository.RefGraffitiPosts, graffiti.ID); err != nil {
		logger.Error("关联涂鸦失败", zap.String("user_id", receivingUserID), zap.String("graffiti_id", graffiti.ID), zap.Error(err))
		return nil, err
	}
	return graffiti, nil
}

// Get 按ID查询动态，不存在时返回 nil
func (s *PostService) Get(ctx context.Context, id string) (*model.Post, error) {
	return orNil(s.posts.GetByID(ctx, id))
}

// GetUserWithGraffiti 查询用户并展开其主页涂鸦
func (s *PostService) GetUserWithGraffiti(ctx context.Context, userID string) (*model.User, error) {
	user, err := orNil(s.users.GetByID(ctx, userID))
	if user == nil || err != nil {
		return nil, err
	}
	if user.GraffitiPosts, err = s.graffiti.FindByIDs(ctx, user.GraffitiPostIDs); err != nil {
		return nil, err
	}
	return user, nil
}

// HomeFeed 用户所有好友的动态，按好友顺序排列；用户不存在时返回 nil
func (s *PostService) HomeFeed(ctx context.Context, userID string) ([]*model.Post, error) {
	user, err := orNil(s.users.GetByID(ctx, userID))
	if user == nil || err != nil {
		return nil, err
	}
	friends, err := s.users.FindByIDs(ctx, user.FriendIDs)
	if err != nil {
		return nil, err
	}
	var postIDs []string
	for _, f := range friends {
		postIDs = append(postIDs, f.PostIDs...)
	}
	feed, err := s.posts.FindByIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	return feed, nil
}

func (s *PostService) FindByIDs(ctx context.Context, ids []string) ([]*model.Post, error) {
	return s.posts.FindByIDs(ctx, ids)
}

func (s *PostService) FindGraffitiByIDs(ctx context.Context, ids []string) ([]*model.GraffitiPost, error) {
	return s.graffiti.FindByIDs(ctx, ids)
}
