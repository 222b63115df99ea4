package graph

import (
	"context"

	"social-system/internal/model"

	graphql "github.com/graph-gophers/graphql-go"
)

// 嵌套字段：父对象已展开时直接使用，否则按ID批量查询

func (r *Resolver) wrapUser(u *model.User) *userResolver {
	if u == nil {
		return nil
	}
	return &userResolver{root: r, u: u}
}

func (r *Resolver) wrapUsers(users []*model.User) []*userResolver {
	out := make([]*userResolver, 0, len(users))
	for _, u := range users {
		out = append(out, r.wrapUser(u))
	}
	return out
}

func (r *Resolver) wrapPost(p *model.Post) *postResolver {
	if p == nil {
		return nil
	}
	return &postResolver{root: r, p: p}
}

func (r *Resolver) wrapPosts(posts []*model.Post) []*postResolver {
	out := make([]*postResolver, 0, len(posts))
	for _, p := range posts {
		out = append(out, r.wrapPost(p))
	}
	return out
}

func (r *Resolver) wrapGraffiti(g *model.GraffitiPost) *graffitiResolver {
	if g == nil {
		return nil
	}
	return &graffitiResolver{root: r, g: g}
}

func (r *Resolver) wrapThread(t *model.MessageThread) *threadResolver {
	if t == nil {
		return nil
	}
	return &threadResolver{root: r, t: t}
}

// userByID 解析单个引用，用户已被删除时返回 null
func (r *Resolver) userByID(ctx context.Context, op, id string) (*userResolver, error) {
	if id == "" {
		return nil, nil
	}
	u, err := r.svc.Users.Get(ctx, id)
	if err != nil {
		return nil, clientError(op, err)
	}
	return r.wrapUser(u), nil
}

type userResolver struct {
	root *Resolver
	u    *model.User
}

func (r *userResolver) ID() graphql.ID { return graphql.ID(r.u.ID) }

func (r *userResolver) FirstName() *string { return &r.u.FirstName }

func (r *userResolver) LastName() *string { return &r.u.LastName }

func (r *userResolver) Email() string { return r.u.Email }

func (r *userResolver) CreatedAt() graphql.Time { return graphql.Time{Time: r.u.CreatedAt} }

func (r *userResolver) Posts(ctx context.Context) ([]*postResolver, error) {
	posts := r.u.Posts
	if posts == nil {
		var err error
		if posts, err = r.root.svc.Posts.FindByIDs(ctx, r.u.PostIDs); err != nil {
			return nil, clientError("User.posts", err)
		}
	}
	return r.root.wrapPosts(posts), nil
}

func (r *userResolver) GraffitiPosts(ctx context.Context) ([]*graffitiResolver, error) {
	items := r.u.GraffitiPosts
	if items == nil {
		var err error
		if items, err = r.root.svc.Posts.FindGraffitiByIDs(ctx, r.u.GraffitiPostIDs); err != nil {
			return nil, clientError("User.graffitiPosts", err)
		}
	}
	out := make([]*graffitiResolver, 0, len(items))
	for _, g := range items {
		out = append(out, r.root.wrapGraffiti(g))
	}
	return out, nil
}

func (r *userResolver) Messages(ctx context.Context) ([]*threadResolver, error) {
	threads := r.u.Threads
	if threads == nil {
		var err error
		if threads, err = r.root.svc.Messages.FindByIDs(ctx, r.u.ThreadIDs); err != nil {
			return nil, clientError("User.messages", err)
		}
	}
	out := make([]*threadResolver, 0, len(threads))
	for _, t := range threads {
		out = append(out, r.root.wrapThread(t))
	}
	return out, nil
}

func (r *userResolver) Friends(ctx context.Context) ([]*userResolver, error) {
	friends := r.u.Friends
	if friends == nil {
		var err error
		if friends, err = r.root.svc.Users.FindByIDs(ctx, r.u.FriendIDs); err != nil {
			return nil, clientError("User.friends", err)
		}
	}
	return r.root.wrapUsers(friends), nil
}

func (r *userResolver) PendingFriends(ctx context.Context) ([]*userResolver, error) {
	pending := r.u.PendingFriends
	if pending == nil {
		var err error
		if pending, err = r.root.svc.Users.FindByIDs(ctx, r.u.PendingFriendIDs); err != nil {
			return nil, clientError("User.pendingFriends", err)
		}
	}
	return r.root.wrapUsers(pending), nil
}

type postResolver struct {
	root *Resolver
	p    *model.Post
}

func (r *postResolver) ID() graphql.ID { return graphql.ID(r.p.ID) }

func (r *postResolver) PostText() string { return r.p.PostText }

func (r *postResolver) CreatedAt() graphql.Time { return graphql.Time{Time: r.p.CreatedAt} }

func (r *postResolver) Author(ctx context.Context) (*userResolver, error) {
	return r.root.userByID(ctx, "Post.author", r.p.AuthorID)
}

func (r *postResolver) Comments() []*commentResolver {
	out := make([]*commentResolver, 0, len(r.p.Comments))
	for _, c := range r.p.Comments {
		out = append(out, &commentResolver{root: r.root, c: c})
	}
	return out
}

type commentResolver struct {
	root *Resolver
	c    *model.Comment
}

func (r *commentResolver) ID() graphql.ID { return graphql.ID(r.c.ID) }

func (r *commentResolver) CommentText() string { return r.c.CommentText }

func (r *commentResolver) CreatedAt() graphql.Time { return graphql.Time{Time: r.c.CreatedAt} }

func (r *commentResolver) CommentAuthor(ctx context.Context) (*userResolver, error) {
	return r.root.userByID(ctx, "Comment.commentAuthor", r.c.AuthorID)
}

type graffitiResolver struct {
	root *Resolver
	g    *model.GraffitiPost
}

func (r *graffitiResolver) ID() graphql.ID { return graphql.ID(r.g.ID) }

func (r *graffitiResolver) PostText() string { return r.g.PostText }

func (r *graffitiResolver) CreatedAt() graphql.Time { return graphql.Time{Time: r.g.CreatedAt} }

func (r *graffitiResolver) PostingUser(ctx context.Context) (*userResolver, error) {
	return r.root.userByID(ctx, "GraffitiPost.postingUser", r.g.PostingUserID)
}

func (r *graffitiResolver) ReceivingUser(ctx context.Context) (*userResolver, error) {
	return r.root.userByID(ctx, "GraffitiPost.receivingUser", r.g.ReceivingUserID)
}

type threadResolver struct {
	root *Resolver
	t    *model.MessageThread
}

func (r *threadResolver) ID() graphql.ID { return graphql.ID(r.t.ID) }

func (r *threadResolver) CreatedAt() graphql.Time { return graphql.Time{Time: r.t.CreatedAt} }

func (r *threadResolver) Chatters(ctx context.Context) ([]*userResolver, error) {
	users, err := r.root.svc.Users.FindByIDs(ctx, r.t.Chatters)
	if err != nil {
		return nil, clientError("Message.chatters", err)
	}
	return r.root.wrapUsers(users), nil
}

func (r *threadResolver) Dm() []*dmResolver {
	out := make([]*dmResolver, 0, len(r.t.Messages))
	for _, m := range r.t.Messages {
		out = append(out, &dmResolver{root: r.root, m: m})
	}
	return out
}

type dmResolver struct {
	root *Resolver
	m    *model.DirectMessage
}

func (r *dmResolver) ID() graphql.ID { return graphql.ID(r.m.ID) }

func (r *dmResolver) MessageContent() string { return r.m.MessageContent }

func (r *dmResolver) CreatedAt() graphql.Time { return graphql.Time{Time: r.m.CreatedAt} }

func (r *dmResolver) MessageAuthor(ctx context.Context) (*userResolver, error) {
	return r.root.userByID(ctx, "DM.messageAuthor", r.m.AuthorID)
}

type authResolver struct {
	token string
	user  *userResolver
}

func (r *authResolver) Token() graphql.ID { return graphql.ID(r.token) }

func (r *authResolver) User() *userResolver { return r.user }
