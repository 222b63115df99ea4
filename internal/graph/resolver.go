package graph

import (
	"context"

	"social-system/internal/service"

	graphql "github.com/graph-gophers/graphql-go"
)

// Resolver 根解析器，同时承载 Query 与 Mutation
type Resolver struct {
	svc *service.Services
}

type userIDArgs struct {
	UserID graphql.ID
}

func (r *Resolver) AllUser(ctx context.Context) ([]*userResolver, error) {
	users, err := r.svc.Users.List(ctx)
	if err != nil {
		return nil, clientError("allUser", err)
	}
	return r.wrapUsers(users), nil
}

func (r *Resolver) User(ctx context.Context, args userIDArgs) (*userResolver, error) {
	u, err := r.svc.Users.GetWithFriends(ctx, string(args.UserID))
	if err != nil {
		return nil, clientError("user", err)
	}
	return r.wrapUser(u), nil
}

func (r *Resolver) UserPost(ctx context.Context, args struct{ PostID graphql.ID }) (*postResolver, error) {
	p, err := r.svc.Posts.Get(ctx, string(args.PostID))
	if err != nil {
		return nil, clientError("userPost", err)
	}
	return r.wrapPost(p), nil
}

func (r *Resolver) UserGraffitiPost(ctx context.Context, args userIDArgs) (*userResolver, error) {
	u, err := r.svc.Posts.GetUserWithGraffiti(ctx, string(args.UserID))
	if err != nil {
		return nil, clientError("userGraffitiPost", err)
	}
	return r.wrapUser(u), nil
}

func (r *Resolver) UserMessage(ctx context.Context, args userIDArgs) (*userResolver, error) {
	u, err := r.svc.Messages.GetUserWithThreads(ctx, string(args.UserID))
	if err != nil {
		return nil, clientError("userMessage", err)
	}
	return r.wrapUser(u), nil
}

func (r *Resolver) UserPendingFriend(ctx context.Context, args userIDArgs) (*userResolver, error) {
	u, err := r.svc.Users.GetWithPendingFriends(ctx, string(args.UserID))
	if err != nil {
		return nil, clientError("userPendingFriend", err)
	}
	return r.wrapUser(u), nil
}

func (r *Resolver) UserHomePage(ctx context.Context, args userIDArgs) (*[]*postResolver, error) {
	feed, err := r.svc.Posts.HomeFeed(ctx, string(args.UserID))
	if err != nil {
		return nil, clientError("userHomePage", err)
	}
	if feed == nil {
		return nil, nil
	}
	out := r.wrapPosts(feed)
	return &out, nil
}

func (r *Resolver) Me(ctx context.Context) (*userResolver, error) {
	u, err := r.svc.Users.Me(ctx)
	if err != nil {
		return nil, clientError("me", err)
	}
	return r.wrapUser(u), nil
}

func (r *Resolver) UnreadCount(ctx context.Context) (int32, error) {
	n, err := r.svc.Messages.UnreadCount(ctx)
	if err != nil {
		return 0, clientError("unreadCount", err)
	}
	return int32(n), nil
}
