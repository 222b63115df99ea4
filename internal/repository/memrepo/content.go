package memrepo

import (
	"context"

	"social-system/internal/model"
)

type postRepo struct {
	db *memDB
}

func (r *postRepo) Create(_ context.Context, post *model.Post) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	post.ID = newID()
	post.CreatedAt = r.db.now()
	if post.Comments == nil {
		post.Comments = []*model.Comment{}
	}
	r.db.posts[post.ID] = copyPost(post)
	return nil
}

func (r *postRepo) GetByID(_ context.Context, id string) (*model.Post, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p, ok := r.db.posts[id]
	if !ok {
		return nil, model.NotFound("post", id)
	}
	return copyPost(p), nil
}

func (r *postRepo) FindByIDs(_ context.Context, ids []string) ([]*model.Post, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]*model.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.db.posts[id]; ok {
			out = append(out, copyPost(p))
		}
	}
	return out, nil
}

func (r *postRepo) AppendComment(_ context.Context, postID string, comment *model.Comment) (*model.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.posts[postID]
	if !ok {
		return nil, model.NotFound("post", postID)
	}
	comment.ID = newID()
	comment.CreatedAt = r.db.now()
	c := *comment
	p.Comments = append(p.Comments, &c)
	return copyPost(p), nil
}

type graffitiRepo struct {
	db *memDB
}

func (r *graffitiRepo) Create(_ context.Context, graffiti *model.GraffitiPost) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	graffiti.ID = newID()
	graffiti.CreatedAt = r.db.now()
	g := *graffiti
	r.db.graffiti[g.ID] = &g
	return nil
}

func (r *graffitiRepo) FindByIDs(_ context.Context, ids []string) ([]*model.GraffitiPost, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]*model.GraffitiPost, 0, len(ids))
	for _, id := range ids {
		if g, ok := r.db.graffiti[id]; ok {
			v := *g
			out = append(out, &v)
		}
	}
	return out, nil
}

type threadRepo struct {
	db *memDB
}

func (r *threadRepo) Create(_ context.Context, thread *model.MessageThread) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	thread.ID = newID()
	thread.CreatedAt = r.db.now()
	if thread.Messages == nil {
		thread.Messages = []*model.DirectMessage{}
	}
	r.db.threads[thread.ID] = copyThread(thread)
	return nil
}

func (r *threadRepo) GetByID(_ context.Context, id string) (*model.MessageThread, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	t, ok := r.db.threads[id]
	if !ok {
		return nil, model.NotFound("message thread", id)
	}
	return copyThread(t), nil
}

func (r *threadRepo) FindByIDs(_ context.Context, ids []string) ([]*model.MessageThread, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]*model.MessageThread, 0, len(ids))
	for _, id := range ids {
		if t, ok := r.db.threads[id]; ok {
			out = append(out, copyThread(t))
		}
	}
	return out, nil
}

func (r *threadRepo) AppendMessage(_ context.Context, threadID string, msg *model.DirectMessage) (*model.MessageThread, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	t, ok := r.db.threads[threadID]
	if !ok || !t.HasChatter(msg.AuthorID) {
		return nil, model.NotFound("message thread", threadID)
	}
	msg.ID = newID()
	msg.CreatedAt = r.db.now()
	m := *msg
	t.Messages = append(t.Messages, &m)
	return copyThread(t), nil
}
