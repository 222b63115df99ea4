package graph

import (
	"context"

	"social-system/internal/service"

	graphql "github.com/graph-gophers/graphql-go"
)

func (r *Resolver) AddUser(ctx context.Context, args struct {
	FirstName *string
	LastName  *string
	Email     string
	Password  string
}) (*authResolver, error) {
	in := service.RegisterInput{Email: args.Email, Password: args.Password}
	if args.FirstName != nil {
		in.FirstName = *args.FirstName
	}
	if args.LastName != nil {
		in.LastName = *args.LastName
	}
	auth, err := r.svc.Users.Register(ctx, in)
	if err != nil {
		return nil, clientError("addUser", err)
	}
	return &authResolver{token: auth.Token, user: r.wrapUser(auth.User)}, nil
}

func (r *Resolver) DeleteUser(ctx context.Context) (*userResolver, error) {
	u, err := r.svc.Users.Delete(ctx)
	if err != nil {
		return nil, clientError("deleteUser", err)
	}
	return r.wrapUser(u), nil
}

func (r *Resolver) UpdateUser(ctx context.Context, args struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
}) (*userResolver, error) {
	u, err := r.svc.Users.Update(ctx, service.UpdateInput{
		FirstName: args.FirstName,
		LastName:  args.LastName,
		Email:     args.Email,
		Password:  args.Password,
	})
	if err != nil {
		return nil, clientError("updateUser", err)
	}
	return r.wrapUser(u), nil
}

func (r *Resolver) Login(ctx context.Context, args struct {
	Email    string
	Password string
}) (*authResolver, error) {
	auth, err := r.svc.Users.Login(ctx, args.Email, args.Password)
	if err != nil {
		return nil, clientError("login", err)
	}
	return &authResolver{token: auth.Token, user: r.wrapUser(auth.User)}, nil
}

func (r *Resolver) AddPost(ctx context.Context, args struct{ PostText string }) (*postResolver, error) {
	p, err := r.svc.Posts.AddPost(ctx, args.PostText)
	if err != nil {
		return nil, clientError("addPost", err)
	}
	return r.wrapPost(p), nil
}

func (r *Resolver) AddComment(ctx context.Context, args struct {
	PostID      graphql.ID
	CommentText string
}) (*postResolver, error) {
	p, err := r.svc.Posts.AddComment(ctx, string(args.PostID), args.CommentText)
	if err != nil {
		return nil, clientError("addComment", err)
	}
	return r.wrapPost(p), nil
}

func (r *Resolver) AddGraffiti(ctx context.Context, args struct {
	ReceivingUser graphql.ID
	PostText      string
}) (*graffitiResolver, error) {
	g, err := r.svc.Posts.AddGraffiti(ctx, string(args.ReceivingUser), args.PostText)
	if err != nil {
		return nil, clientError("addGraffiti", err)
	}
	return r.wrapGraffiti(g), nil
}

func (r *Resolver) SendPendingFriend(ctx context.Context, args struct{ ReceiverID graphql.ID }) (*userResolver, error) {
	u, err := r.svc.Friends.SendRequest(ctx, string(args.ReceiverID))
	if err != nil {
		return nil, clientError("sendPendingFriend", err)
	}
	return r.wrapUser(u), nil
}

func (r *Resolver) AddFriend(ctx context.Context, args struct{ RequesterID graphql.ID }) (*userResolver, error) {
	u, err := r.svc.Friends.Accept(ctx, string(args.RequesterID))
	if err != nil {
		return nil, clientError("addFriend", err)
	}
	return r.wrapUser(u), nil
}

func (r *Resolver) CreateMessageThread(ctx context.Context, args struct{ RecipientID graphql.ID }) (*threadResolver, error) {
	t, err := r.svc.Messages.CreateThread(ctx, string(args.RecipientID))
	if err != nil {
		return nil, clientError("createMessageThread", err)
	}
	return r.wrapThread(t), nil
}

func (r *Resolver) SendMessage(ctx context.Context, args struct {
	ThreadID       graphql.ID
	MessageContent string
}) (*threadResolver, error) {
	t, err := r.svc.Messages.SendMessage(ctx, string(args.ThreadID), args.MessageContent)
	if err != nil {
		return nil, clientError("sendMessage", err)
	}
	return r.wrapThread(t), nil
}

func (r *Resolver) MarkThreadRead(ctx context.Context, args struct{ ThreadID graphql.ID }) (int32, error) {
	n, err := r.svc.Messages.MarkRead(ctx, string(args.ThreadID))
	if err != nil {
		return 0, clientError("markThreadRead", err)
	}
	return int32(n), nil
}
