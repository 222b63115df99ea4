package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"social-system/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterThenLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	auth, err := f.svc.Users.Register(ctx, RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "  ada@example.com ",
		Password:  "engine",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", auth.User.Email)
	assert.Equal(t, "token-"+auth.User.ID, auth.Token)
	assert.NotEqual(t, "engine", auth.User.PasswordHash)

	login, err := f.svc.Users.Login(ctx, "ada@example.com", "engine")
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, login.User.ID)
	assert.Equal(t, auth.Token, login.Token)
	assert.Equal(t, 1, f.limiter.resets)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Users.Register(ctx, RegisterInput{Email: "  ", Password: "x"})
	requireKind(t, err, model.KindValidation)

	_, err = f.svc.Users.Register(ctx, RegisterInput{Email: "a@b.c"})
	requireKind(t, err, model.KindValidation)

	_, err = f.svc.Users.Register(ctx, RegisterInput{Email: "a@b.c", Password: strings.Repeat("x", 73)})
	requireKind(t, err, model.KindValidation)

	_, err = f.svc.Users.Register(ctx, RegisterInput{Email: "a@b.c", Password: "x"})
	require.NoError(t, err)
	_, err = f.svc.Users.Register(ctx, RegisterInput{Email: "a@b.c", Password: "y"})
	assert.ErrorIs(t, err, model.ErrEmailTaken)
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, _ := f.register(t, "grace")

	_, err := f.svc.Users.Login(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, model.ErrEmailNotFound)
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	assert.Equal(t, "Email address not found", err.Error())

	_, err = f.svc.Users.Login(ctx, user.Email, "wrong")
	assert.ErrorIs(t, err, model.ErrIncorrectPassword)
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	assert.Equal(t, "Incorrect email/password", err.Error())
	assert.Zero(t, f.limiter.resets)
}

func TestLoginLimiter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, _ := f.register(t, "linus")

	f.limiter.allow = false
	_, err := f.svc.Users.Login(ctx, user.Email, "password-linus")
	assert.ErrorIs(t, err, model.ErrTooManyAttempts)

	// 限流器不可用时放行
	f.limiter.err = errors.New("redis down")
	_, err = f.svc.Users.Login(ctx, user.Email, "password-linus")
	assert.NoError(t, err)
}

func TestUpdateOnlySuppliedFields(t *testing.T) {
	f := newFixture(t)
	user, ctx := f.register(t, "alan")

	email := "x@y.com"
	updated, err := f.svc.Users.Update(ctx, UpdateInput{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "x@y.com", updated.Email)
	assert.Equal(t, user.FirstName, updated.FirstName)
	assert.Equal(t, user.LastName, updated.LastName)
	assert.Equal(t, user.PasswordHash, updated.PasswordHash)

	_, err = f.svc.Users.Login(context.Background(), "x@y.com", "password-alan")
	require.NoError(t, err)

	first, pw := "Alan M.", "new-secret"
	updated, err = f.svc.Users.Update(ctx, UpdateInput{FirstName: &first, Password: &pw})
	require.NoError(t, err)
	assert.Equal(t, "Alan M.", updated.FirstName)
	assert.Equal(t, "x@y.com", updated.Email)

	_, err = f.svc.Users.Login(context.Background(), "x@y.com", "new-secret")
	require.NoError(t, err)
	_, err = f.svc.Users.Login(context.Background(), "x@y.com", "password-alan")
	assert.ErrorIs(t, err, model.ErrIncorrectPassword)
}

func TestUpdateEmptyDoesNotWrite(t *testing.T) {
	f := newFixture(t)
	user, ctx := f.register(t, "barbara")
	before := f.writes.n

	got, err := f.svc.Users.Update(ctx, UpdateInput{})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, before, f.writes.n)

	blank := " "
	_, err = f.svc.Users.Update(ctx, UpdateInput{Email: &blank})
	requireKind(t, err, model.KindValidation)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	user, ctx := f.register(t, "ken")

	deleted, err := f.svc.Users.Delete(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, deleted.ID)
	assert.Equal(t, []string{user.ID}, f.revoker.revoked)

	got, err := f.svc.Users.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = f.svc.Users.Delete(ctx)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestMeExpandsPosts(t *testing.T) {
	f := newFixture(t)
	user, ctx := f.register(t, "margaret")

	_, err := f.svc.Users.Me(context.Background())
	assert.ErrorIs(t, err, model.ErrAuthenticationRequired)

	post, err := f.svc.Posts.AddPost(ctx, "hello")
	require.NoError(t, err)

	me, err := f.svc.Users.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.ID)
	require.Len(t, me.Posts, 1)
	assert.Equal(t, post.ID, me.Posts[0].ID)
	assert.Equal(t, user.ID, me.Posts[0].AuthorID)
}

func TestLookupsReturnNilForUnknownIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.Users.Get(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, u)

	u, err = f.svc.Users.GetWithFriends(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, u)

	u, err = f.svc.Users.GetWithPendingFriends(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, u)

	u, err = f.svc.Posts.GetUserWithGraffiti(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, u)

	u, err = f.svc.Messages.GetUserWithThreads(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, u)

	p, err := f.svc.Posts.Get(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestUnauthenticatedMutationsWriteNothing(t *testing.T) {
	f := newFixture(t)
	other, _ := f.register(t, "target")
	ctx := context.Background()
	before := f.writes.n

	email := "a@b.c"
	calls := map[string]func() error{
		"deleteUser": func() error { _, err := f.svc.Users.Delete(ctx); return err },
		"updateUser": func() error { _, err := f.svc.Users.Update(ctx, UpdateInput{Email: &email}); return err },
		"me":         func() error { _, err := f.svc.Users.Me(ctx); return err },
		"addPost":    func() error { _, err := f.svc.Posts.AddPost(ctx, "text"); return err },
		"addComment": func() error { _, err := f.svc.Posts.AddComment(ctx, "p", "text"); return err },
		"addGraffiti": func() error {
			_, err := f.svc.Posts.AddGraffiti(ctx, other.ID, "text")
			return err
		},
		"sendPendingFriend":   func() error { _, err := f.svc.Friends.SendRequest(ctx, other.ID); return err },
		"addFriend":           func() error { _, err := f.svc.Friends.Accept(ctx, other.ID); return err },
		"createMessageThread": func() error { _, err := f.svc.Messages.CreateThread(ctx, other.ID); return err },
		"sendMessage":         func() error { _, err := f.svc.Messages.SendMessage(ctx, "t", "hi"); return err },
		"markThreadRead":      func() error { _, err := f.svc.Messages.MarkRead(ctx, "t"); return err },
		"unreadCount":         func() error { _, err := f.svc.Messages.UnreadCount(ctx); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			assert.ErrorIs(t, err, model.ErrAuthenticationRequired)
			requireKind(t, err, model.KindAuthenticationRequired)
		})
	}
	assert.Equal(t, before, f.writes.n)
	assert.Empty(t, f.revoker.revoked)
}

func TestDeletedActorCannotWrite(t *testing.T) {
	f := newFixture(t)
	_, ctxA := f.register(t, "ghost")
	b, ctxB := f.register(t, "bob")

	post, err := f.svc.Posts.AddPost(ctxB, "still here")
	require.NoError(t, err)

	_, err = f.svc.Users.Delete(ctxA)
	require.NoError(t, err)
	before := f.writes.n

	calls := map[string]func() error{
		"me":                  func() error { _, err := f.svc.Users.Me(ctxA); return err },
		"addPost":             func() error { _, err := f.svc.Posts.AddPost(ctxA, "boo"); return err },
		"addComment":          func() error { _, err := f.svc.Posts.AddComment(ctxA, post.ID, "boo"); return err },
		"addGraffiti":         func() error { _, err := f.svc.Posts.AddGraffiti(ctxA, b.ID, "boo"); return err },
		"sendPendingFriend":   func() error { _, err := f.svc.Friends.SendRequest(ctxA, b.ID); return err },
		"addFriend":           func() error { _, err := f.svc.Friends.Accept(ctxA, b.ID); return err },
		"createMessageThread": func() error { _, err := f.svc.Messages.CreateThread(ctxA, b.ID); return err },
		"sendMessage":         func() error { _, err := f.svc.Messages.SendMessage(ctxA, "t", "boo"); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, call(), model.ErrAuthenticationRequired)
		})
	}
	assert.Equal(t, before, f.writes.n)

	bob, err := f.svc.Users.GetWithPendingFriends(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Empty(t, bob.PendingFriendIDs)
	assert.Empty(t, bob.GraffitiPostIDs)

	got, err := f.svc.Posts.Get(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Comments)
}
