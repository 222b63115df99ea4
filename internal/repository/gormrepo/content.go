package gormrepo

import (
	"context"
	"fmt"

	"social-system/internal/model"

	"gorm.io/gorm"
)

// PostRepository post / comment 表
type PostRepository struct {
	db *gorm.DB
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	rec := postRecord{PostText: post.PostText}
	if post.AuthorID != "" {
		author, err := parseID("user", post.AuthorID)
		if err != nil {
			return err
		}
		rec.AuthorID = author
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	post.ID = formatID(rec.ID)
	post.CreatedAt = rec.CreatedAt
	post.Comments = []*model.Comment{}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	pid, err := parseID("post", id)
	if err != nil {
		return nil, err
	}
	return r.load(r.db.WithContext(ctx), pid, id)
}

func (r *PostRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Post, error) {
	pids := parseIDs(ids)
	if len(pids) == 0 {
		return []*model.Post{}, nil
	}
	var recs []postRecord
	err := r.db.WithContext(ctx).Preload("Comments", orderByID).Where("id IN ?", pids).Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	byID := make(map[string]*model.Post, len(recs))
	for i := range recs {
		byID[formatID(recs[i].ID)] = recs[i].toModel()
	}
	out := make([]*model.Post, 0, len(recs))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *PostRepository) AppendComment(ctx context.Context, postID string, comment *model.Comment) (*model.Post, error) {
	pid, err := parseID("post", postID)
	if err != nil {
		return nil, err
	}
	author, err := parseID("user", comment.AuthorID)
	if err != nil {
		return nil, err
	}
	var out *model.Post
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&postRecord{}).Where("id = ?", pid).Count(&exists).Error; err != nil {
			return fmt.Errorf("find post: %w", err)
		}
		if exists == 0 {
			return model.NotFound("post", postID)
		}
		rec := commentRecord{PostID: pid, CommentText: comment.CommentText, AuthorID: author}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("append comment: %w", err)
		}
		comment.ID = formatID(rec.ID)
		comment.CreatedAt = rec.CreatedAt
		out, err = r.load(tx, pid, postID)
		return err
	})
	return out, err
}

func (r *PostRepository) load(db *gorm.DB, pid uint, id string) (*model.Post, error) {
	var rec postRecord
	if err := db.Preload("Comments", orderByID).First(&rec, pid).Error; err != nil {
		return nil, notFoundOr(err, "post", id, "find post")
	}
	return rec.toModel(), nil
}

// GraffitiRepository graffiti_post 表
type GraffitiRepository struct {
	db *gorm.DB
}

func (r *GraffitiRepository) Create(ctx context.Context, graffiti *model.GraffitiPost) error {
	poster, err := parseID("user", graffiti.PostingUserID)
	if err != nil {
		return err
	}
	receiver, err := parseID("user", graffiti.ReceivingUserID)
	if err != nil {
		return err
	}
	rec := graffitiRecord{
		PostingUserID:   poster,
		ReceivingUserID: receiver,
		PostText:        graffiti.PostText,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("create graffiti: %w", err)
	}
	graffiti.ID = formatID(rec.ID)
	graffiti.CreatedAt = rec.CreatedAt
	return nil
}

func (r *GraffitiRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.GraffitiPost, error) {
	gids := parseIDs(ids)
	if len(gids) == 0 {
		return []*model.GraffitiPost{}, nil
	}
	var recs []graffitiRecord
	if err := r.db.WithContext(ctx).Where("id IN ?", gids).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("find graffiti: %w", err)
	}
	byID := make(map[string]*model.GraffitiPost, len(recs))
	for i := range recs {
		byID[formatID(recs[i].ID)] = recs[i].toModel()
	}
	out := make([]*model.GraffitiPost, 0, len(recs))
	for _, id := range ids {
		if g, ok := byID[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

// ThreadRepository message_thread / thread_chatter / direct_message 表
type ThreadRepository struct {
	db *gorm.DB
}

func (r *ThreadRepository) Create(ctx context.Context, thread *model.MessageThread) error {
	chatters := parseIDs(thread.Chatters)
	if len(chatters) != len(thread.Chatters) {
		return model.Validation("invalid chatter id")
	}
	rec := threadRecord{Chatters: make([]threadChatterRecord, 0, len(chatters))}
	for _, uid := range chatters {
		rec.Chatters = append(rec.Chatters, threadChatterRecord{UserID: uid})
	}
	// 会话与参与者一起写入
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rec).Error
	}); err != nil {
		return fmt.Errorf("create message thread: %w", err)
	}
	thread.ID = formatID(rec.ID)
	thread.CreatedAt = rec.CreatedAt
	thread.Messages = []*model.DirectMessage{}
	return nil
}

func (r *ThreadRepository) GetByID(ctx context.Context, id string) (*model.MessageThread, error) {
	tid, err := parseID("message thread", id)
	if err != nil {
		return nil, err
	}
	return r.load(r.db.WithContext(ctx), tid, id)
}

func (r *ThreadRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.MessageThread, error) {
	tids := parseIDs(ids)
	if len(tids) == 0 {
		return []*model.MessageThread{}, nil
	}
	var recs []threadRecord
	err := r.db.WithContext(ctx).
		Preload("Chatters", orderByID).
		Preload("Messages", orderByID).
		Where("id IN ?", tids).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("find message threads: %w", err)
	}
	byID := make(map[string]*model.MessageThread, len(recs))
	for i := range recs {
		byID[formatID(recs[i].ID)] = recs[i].toModel()
	}
	out := make([]*model.MessageThread, 0, len(recs))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *ThreadRepository) AppendMessage(ctx context.Context, threadID string, msg *model.DirectMessage) (*model.MessageThread, error) {
	tid, err := parseID("message thread", threadID)
	if err != nil {
		return nil, err
	}
	author, err := parseID("user", msg.AuthorID)
	if err != nil {
		return nil, err
	}
	var out *model.MessageThread
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member int64
		err := tx.Model(&threadChatterRecord{}).
			Where("thread_id = ? AND user_id = ?", tid, author).
			Count(&member).Error
		if err != nil {
			return fmt.Errorf("find thread chatter: %w", err)
		}
		if member == 0 {
			return model.NotFound("message thread", threadID)
		}
		rec := directMessageRecord{ThreadID: tid, MessageContent: msg.MessageContent, AuthorID: author}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("append message: %w", err)
		}
		msg.ID = formatID(rec.ID)
		msg.CreatedAt = rec.CreatedAt
		out, err = r.load(tx, tid, threadID)
		return err
	})
	return out, err
}

func (r *ThreadRepository) load(db *gorm.DB, tid uint, id string) (*model.MessageThread, error) {
	var rec threadRecord
	err := db.Preload("Chatters", orderByID).Preload("Messages", orderByID).First(&rec, tid).Error
	if err != nil {
		return nil, notFoundOr(err, "message thread", id, "find message thread")
	}
	return rec.toModel(), nil
}
