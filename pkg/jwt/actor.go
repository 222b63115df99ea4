package jwt

import "context"

// Actor 已认证的请求发起者
type Actor struct {
	UserID string
	Email  string
}

type actorKey struct{}

// WithActor 把发起者放入 context
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext 取出发起者，未认证时 ok 为 false
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	if !ok || actor.UserID == "" {
		return Actor{}, false
	}
	return actor, true
}
