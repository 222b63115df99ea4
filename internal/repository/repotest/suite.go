// Package repotest 所有存储后端共用的行为测试
// 各后端的 _test.go 构造好 repository.Store 后调用 RunAll
package repotest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"social-system/internal/model"
	"social-system/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunAll 依次运行全部用例
func RunAll(t *testing.T, store repository.Store) {
	cases := map[string]func(*testing.T, repository.Store){
		"UserCreateAndLookup":        testUserCreateAndLookup,
		"UserDuplicateEmail":         testUserDuplicateEmail,
		"UserPartialUpdate":          testUserPartialUpdate,
		"UserDelete":                 testUserDelete,
		"UserNotFound":               testUserNotFound,
		"NonCanonicalIDs":            testNonCanonicalIDs,
		"AddToSetIsIdempotent":       testAddToSetIsIdempotent,
		"FriendRequestIdempotent":    testFriendRequestIdempotent,
		"FriendRequestToFriendNoop":  testFriendRequestToFriendNoop,
		"AcceptFriendMovesPending":   testAcceptFriendMovesPending,
		"AcceptFriendWithoutRequest": testAcceptFriendWithoutRequest,
		"AddFriendUnconditional":     testAddFriendUnconditional,
		"PostComments":               testPostComments,
		"Graffiti":                   testGraffiti,
		"Threads":                    testThreads,
		"FindByIDsKeepsOrder":        testFindByIDsKeepsOrder,
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			fn(t, store)
		})
	}
}

func newUser(t *testing.T, store repository.Store) *model.User {
	t.Helper()
	u := &model.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
	}
	require.NoError(t, store.Users.Create(context.Background(), u))
	require.NotEmpty(t, u.ID)
	return u
}

func testUserCreateAndLookup(t *testing.T, store repository.Store) {
	ctx := context.Background()
	u := newUser(t, store)

	byID, err := store.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, byID.Email)
	assert.Equal(t, "hash", byID.PasswordHash)
	assert.False(t, byID.CreatedAt.IsZero())

	byEmail, err := store.Users.GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	all, err := store.Users.List(ctx)
	require.NoError(t, err)
	found := false
	for _, x := range all {
		if x.ID == u.ID {
			found = true
		}
	}
	assert.True(t, found, "List should include the created user")
}

func testUserDuplicateEmail(t *testing.T, store repository.Store) {
	u := newUser(t, store)
	dup := &model.User{Email: u.Email, PasswordHash: "x"}

	err := store.Users.Create(context.Background(), dup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrEmailTaken))
}

func testUserPartialUpdate(t *testing.T, store repository.Store) {
	ctx := context.Background()
	u := newUser(t, store)
	email := uuid.NewString() + "@example.org"

	updated, err := store.Users.Update(ctx, u.ID, model.UserUpdate{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, email, updated.Email)
	assert.Equal(t, "Test", updated.FirstName)
	assert.Equal(t, "User", updated.LastName)
	assert.Equal(t, "hash", updated.PasswordHash)

	first := "Grace"
	updated, err = store.Users.Update(ctx, u.ID, model.UserUpdate{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Grace", updated.FirstName)
	assert.Equal(t, email, updated.Email)
}

func testUserDelete(t *testing.T, store repository.Store) {
	ctx := context.Background()
	u := newUser(t, store)

	deleted, err := store.Users.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, deleted.ID)
	assert.Equal(t, u.Email, deleted.Email)

	_, err = store.Users.GetByID(ctx, u.ID)
	assert.True(t, errors.Is(err, model.ErrNotFound))

	_, err = store.Users.Delete(ctx, u.ID)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func testUserNotFound(t *testing.T, store repository.Store) {
	ctx := context.Background()

	for _, id := range []string{"not-a-valid-id", "000000000000000000000000", "999999999"} {
		_, err := store.Users.GetByID(ctx, id)
		assert.True(t, errors.Is(err, model.ErrNotFound), "id %q", id)

		_, err = store.Users.AddToSet(ctx, id, repository.RefPosts, "x")
		assert.True(t, errors.Is(err, model.ErrNotFound), "id %q", id)
	}

	_, err := store.Users.GetByEmail(ctx, uuid.NewString()+"@nowhere.test")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

// 同一记录的其他写法（前导零、大写十六进制）不能查到记录，
// 否则它们会以不同的字符串进入引用集合
func testNonCanonicalIDs(t *testing.T, store repository.Store) {
	ctx := context.Background()
	u := newUser(t, store)

	variants := []string{"0" + u.ID}
	if upper := strings.ToUpper(u.ID); upper != u.ID {
		variants = append(variants, upper)
	}
	for _, id := range variants {
		_, err := store.Users.GetByID(ctx, id)
		assert.True(t, errors.Is(err, model.ErrNotFound), "id %q", id)
	}

	found, err := store.Users.FindByIDs(ctx, append(variants, u.ID))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, u.ID, found[0].ID)
}

func testAddToSetIsIdempotent(t *testing.T, store repository.Store) {
	ctx := context.Background()
	u := newUser(t, store)
	p := &model.Post{AuthorID: u.ID, PostText: "hello"}
	require.NoError(t, store.Posts.Create(ctx, p))

	_, err := store.Users.AddToSet(ctx, u.ID, repository.RefPosts, p.ID)
	require.NoError(t, err)
	got, err := store.Users.AddToSet(ctx, u.ID, repository.RefPosts, p.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{p.ID}, got.PostIDs)
}

func testFriendRequestIdempotent(t *testing.T, store repository.Store) {
	ctx := context.Background()
	a, b := newUser(t, store), newUser(t, store)

	_, err := store.Users.SendFriendRequest(ctx, b.ID, a.ID)
	require.NoError(t, err)
	got, err := store.Users.SendFriendRequest(ctx, b.ID, a.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{a.ID}, got.PendingFriendIDs)
}

func testFriendRequestToFriendNoop(t *testing.T, store repository.Store) {
	ctx := context.Background()
	a, b := newUser(t, store), newUser(t, store)

	_, err := store.Users.AddFriend(ctx, b.ID, a.ID)
	require.NoError(t, err)
	got, err := store.Users.SendFriendRequest(ctx, b.ID, a.ID)
	require.NoError(t, err)

	assert.Empty(t, got.PendingFriendIDs)
	assert.Equal(t, []string{a.ID}, got.FriendIDs)
}

func testAcceptFriendMovesPending(t *testing.T, store repository.Store) {
	ctx := context.Background()
	a, b := newUser(t, store), newUser(t, store)

	_, err := store.Users.SendFriendRequest(ctx, b.ID, a.ID)
	require.NoError(t, err)

	got, err := store.Users.AcceptFriend(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, got.FriendIDs)
	assert.Empty(t, got.PendingFriendIDs)

	again, err := store.Users.AcceptFriend(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, again.FriendIDs)
}

func testAcceptFriendWithoutRequest(t *testing.T, store repository.Store) {
	ctx := context.Background()
	a, b := newUser(t, store), newUser(t, store)

	_, err := store.Users.AcceptFriend(ctx, b.ID, a.ID)
	assert.True(t, errors.Is(err, model.ErrNotFound))

	got, err := store.Users.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, got.FriendIDs)
}

func testAddFriendUnconditional(t *testing.T, store repository.Store) {
	ctx := context.Background()
	a, b := newUser(t, store), newUser(t, store)

	_, err := store.Users.SendFriendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)

	got, err := store.Users.AddFriend(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, got.FriendIDs)
	assert.Empty(t, got.PendingFriendIDs)
}

func testPostComments(t *testing.T, store repository.Store) {
	ctx := context.Background()
	a, b := newUser(t, store), newUser(t, store)
	p := &model.Post{AuthorID: a.ID, PostText: "first post"}
	require.NoError(t, store.Posts.Create(ctx, p))
	require.NotEmpty(t, p.ID)

	_, err := store.Posts.AppendComment(ctx, p.ID, &model.Comment{CommentText: "nice", AuthorID: b.ID})
	require.NoError(t, err)
	got, err := store.Posts.AppendComment(ctx, p.ID, &model.Comment{CommentText: "nice", AuthorID: b.ID})
	require.NoError(t, err)

	require.Len(t, got.Comments, 2)
	assert.Equal(t, "nice", got.Comments[1].CommentText)
	assert.Equal(t, b.ID, got.Comments[1].AuthorID)
	assert.NotEqual(t, got.Comments[0].ID, got.Comments[1].ID)

	stored, err := store.Posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "first post", stored.PostText)
	assert.Len(t, stored.Comments, 2)

	_, err = store.Posts.AppendComment(ctx, "missing", &model.Comment{CommentText: "x", AuthorID: a.ID})
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func testGraffiti(t *testing.T, store repository.Store) {
	ctx := context.Background()
	a, b := newUser(t, store), newUser(t, store)
	g := &model.GraffitiPost{PostingUserID: a.ID, ReceivingUserID: b.ID, PostText: "was here"}
	require.NoError(t, store.Graffiti.Create(ctx, g))
	require.NotEmpty(t, g.ID)

	got, err := store.Graffiti.FindByIDs(ctx, []string{g.ID, "missing"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].PostingUserID)
	assert.Equal(t, b.ID, got[0].ReceivingUserID)
}

func testThreads(t *testing.T, store repository.Store) {
	ctx := context.Background()
	a, b, c := newUser(t, store), newUser(t, store), newUser(t, store)
	th := &model.MessageThread{Chatters: []string{a.ID, b.ID}}
	require.NoError(t, store.Threads.Create(ctx, th))
	require.NotEmpty(t, th.ID)

	got, err := store.Threads.AppendMessage(ctx, th.ID, &model.DirectMessage{MessageContent: "hi", AuthorID: a.ID})
	require.NoError(t, err)
	got, err = store.Threads.AppendMessage(ctx, th.ID, &model.DirectMessage{MessageContent: "hey", AuthorID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, got.Chatters)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "hey", got.Messages[1].MessageContent)
	assert.Equal(t, b.ID, got.Messages[1].AuthorID)

	_, err = store.Threads.AppendMessage(ctx, th.ID, &model.DirectMessage{MessageContent: "intrude", AuthorID: c.ID})
	assert.True(t, errors.Is(err, model.ErrNotFound))

	_, err = store.Threads.AppendMessage(ctx, "missing", &model.DirectMessage{MessageContent: "x", AuthorID: a.ID})
	assert.True(t, errors.Is(err, model.ErrNotFound))

	stored, err := store.Threads.GetByID(ctx, th.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Messages, 2)
}

func testFindByIDsKeepsOrder(t *testing.T, store repository.Store) {
	ctx := context.Background()
	a, b, c := newUser(t, store), newUser(t, store), newUser(t, store)

	got, err := store.Users.FindByIDs(ctx, []string{c.ID, "missing", a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, c.ID, got[0].ID)
	assert.Equal(t, a.ID, got[1].ID)
	assert.Equal(t, b.ID, got[2].ID)

	empty, err := store.Users.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
