// Package memrepo 进程内存储，用于本地开发（database.driver=memory）和测试
package memrepo

import (
	"sync"
	"time"

	"social-system/internal/model"
	"social-system/internal/repository"

	"github.com/google/uuid"
)

// New 创建一个空的内存后端
func New() repository.Store {
	db := &memDB{
		users:    make(map[string]*model.User),
		posts:    make(map[string]*model.Post),
		graffiti: make(map[string]*model.GraffitiPost),
		threads:  make(map[string]*model.MessageThread),
		now:      time.Now,
	}
	return repository.Store{
		Users:    &userRepo{db: db},
		Posts:    &postRepo{db: db},
		Graffiti: &graffitiRepo{db: db},
		Threads:  &threadRepo{db: db},
	}
}

// memDB 所有集合共用一把锁，单条记录的组合更新天然原子
type memDB struct {
	mu        sync.RWMutex
	users     map[string]*model.User
	userOrder []string
	posts     map[string]*model.Post
	graffiti  map[string]*model.GraffitiPost
	threads   map[string]*model.MessageThread
	now       func() time.Time
}

func newID() string { return uuid.NewString() }

func copyUser(u *model.User) *model.User {
	c := *u
	c.PostIDs = append([]string(nil), u.PostIDs...)
	c.GraffitiPostIDs = append([]string(nil), u.GraffitiPostIDs...)
	c.ThreadIDs = append([]string(nil), u.ThreadIDs...)
	c.FriendIDs = append([]string(nil), u.FriendIDs...)
	c.PendingFriendIDs = append([]string(nil), u.PendingFriendIDs...)
	c.Posts, c.GraffitiPosts, c.Threads, c.Friends, c.PendingFriends = nil, nil, nil, nil, nil
	return &c
}

func copyPost(p *model.Post) *model.Post {
	c := *p
	c.Comments = make([]*model.Comment, 0, len(p.Comments))
	for _, cm := range p.Comments {
		v := *cm
		c.Comments = append(c.Comments, &v)
	}
	return &c
}

func copyThread(t *model.MessageThread) *model.MessageThread {
	c := *t
	c.Chatters = append([]string(nil), t.Chatters...)
	c.Messages = make([]*model.DirectMessage, 0, len(t.Messages))
	for _, m := range t.Messages {
		v := *m
		c.Messages = append(c.Messages, &v)
	}
	return &c
}

func addToSet(ids []string, id string) []string {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

func pull(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func refSlice(u *model.User, field repository.RefField) *[]string {
	switch field {
	case repository.RefPosts:
		return &u.PostIDs
	case repository.RefGraffitiPosts:
		return &u.GraffitiPostIDs
	case repository.RefMessages:
		return &u.ThreadIDs
	case repository.RefFriends:
		return &u.FriendIDs
	case repository.RefPendingFriends:
		return &u.PendingFriendIDs
	}
	return nil
}
