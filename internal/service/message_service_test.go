package service

import (
	"context"
	"testing"

	"social-system/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadsAndMessages(t *testing.T) {
	f := newFixture(t)
	a, ctxA := f.register(t, "alice")
	b, ctxB := f.register(t, "bob")
	_, ctxC := f.register(t, "carol")

	thread, err := f.svc.Messages.CreateThread(ctxA, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, thread.Chatters)

	thread, err = f.svc.Messages.SendMessage(ctxA, thread.ID, "hey bob")
	require.NoError(t, err)
	last := thread.Messages[len(thread.Messages)-1]
	assert.Equal(t, "hey bob", last.MessageContent)
	assert.Equal(t, a.ID, last.AuthorID)

	for _, id := range []string{a.ID, b.ID} {
		u, err := f.svc.Messages.GetUserWithThreads(context.Background(), id)
		require.NoError(t, err)
		require.Len(t, u.Threads, 1)
		assert.Equal(t, thread.ID, u.Threads[0].ID)
		assert.Equal(t, "hey bob", u.Threads[0].Messages[0].MessageContent)
	}

	_, err = f.svc.Messages.SendMessage(ctxC, thread.ID, "let me in")
	requireKind(t, err, model.KindNotFound)
	_, err = f.svc.Messages.SendMessage(ctxA, "missing", "hello")
	requireKind(t, err, model.KindNotFound)

	// 同一对用户可以创建多个会话
	second, err := f.svc.Messages.CreateThread(ctxB, a.ID)
	require.NoError(t, err)
	assert.NotEqual(t, thread.ID, second.ID)
}

func TestCreateThreadErrors(t *testing.T) {
	f := newFixture(t)
	a, ctxA := f.register(t, "alice")

	_, err := f.svc.Messages.CreateThread(ctxA, a.ID)
	requireKind(t, err, model.KindValidation)

	before := f.writes.n
	_, err = f.svc.Messages.CreateThread(ctxA, "missing")
	requireKind(t, err, model.KindNotFound)
	assert.Equal(t, before, f.writes.n)
}

func TestUnreadCounts(t *testing.T) {
	f := newFixture(t)
	_, ctxA := f.register(t, "alice")
	b, ctxB := f.register(t, "bob")
	_, ctxC := f.register(t, "carol")

	thread, err := f.svc.Messages.CreateThread(ctxA, b.ID)
	require.NoError(t, err)
	for _, text := range []string{"one", "two"} {
		_, err = f.svc.Messages.SendMessage(ctxA, thread.ID, text)
		require.NoError(t, err)
	}

	n, err := f.svc.Messages.UnreadCount(ctxB)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = f.svc.Messages.UnreadCount(ctxA)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = f.svc.Messages.MarkRead(ctxC, thread.ID)
	requireKind(t, err, model.KindNotFound)

	n, err = f.svc.Messages.MarkRead(ctxB, thread.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUnreadWithoutCounter(t *testing.T) {
	f := newFixture(t)
	f.svc.Messages.unread = nil
	_, ctxA := f.register(t, "alice")
	b, _ := f.register(t, "bob")

	thread, err := f.svc.Messages.CreateThread(ctxA, b.ID)
	require.NoError(t, err)
	_, err = f.svc.Messages.SendMessage(ctxA, thread.ID, "hi")
	require.NoError(t, err)

	n, err := f.svc.Messages.UnreadCount(ctxA)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = f.svc.Messages.MarkRead(ctxA, thread.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRequireActor(t *testing.T) {
	_, err := RequireActor(context.Background())
	assert.ErrorIs(t, err, model.ErrAuthenticationRequired)
	assert.Equal(t, "You need to be logged in!", err.Error())

	f := newFixture(t)
	u, ctx := f.register(t, "dora")
	actor, err := RequireActor(ctx)
	require.NoError(t, err)
	assert.Equal(t, u.ID, actor.UserID)
}
