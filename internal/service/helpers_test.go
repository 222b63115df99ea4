package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"social-system/internal/model"
	"social-system/internal/repository"
	"social-system/internal/repository/memrepo"
	"social-system/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeTokens struct{}

func (fakeTokens) IssueToken(userID, email string) (string, error) {
	return "token-" + userID, nil
}

type fakeRevoker struct{ revoked []string }

func (r *fakeRevoker) Revoke(_ context.Context, userID string) error {
	r.revoked = append(r.revoked, userID)
	return nil
}

type fakeLimiter struct {
	allow  bool
	err    error
	resets int
}

func (l *fakeLimiter) Allow(context.Context, string) (bool, error) { return l.allow, l.err }

func (l *fakeLimiter) Reset(context.Context, string) error {
	l.resets++
	return nil
}

type fakeUnread struct {
	counts map[string]map[string]int64
}

func newFakeUnread() *fakeUnread {
	return &fakeUnread{counts: map[string]map[string]int64{}}
}

func (u *fakeUnread) Increment(_ context.Context, userID, threadID string) error {
	if u.counts[userID] == nil {
		u.counts[userID] = map[string]int64{}
	}
	u.counts[userID][threadID]++
	return nil
}

func (u *fakeUnread) Clear(_ context.Context, userID, threadID string) error {
	delete(u.counts[userID], threadID)
	return nil
}

func (u *fakeUnread) Total(_ context.Context, userID string) (int64, error) {
	var total int64
	for _, n := range u.counts[userID] {
		total += n
	}
	return total, nil
}

// 统计写操作次数的存储包装
type writeCounter struct{ n int }

type spyUsers struct {
	repository.UserRepository
	w *writeCounter
}

func (s spyUsers) Create(ctx context.Context, u *model.User) error {
	s.w.n++
	return s.UserRepository.Create(ctx, u)
}

func (s spyUsers) Update(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	s.w.n++
	return s.UserRepository.Update(ctx, id, upd)
}

func (s spyUsers) Delete(ctx context.Context, id string) (*model.User, error) {
	s.w.n++
	return s.UserRepository.Delete(ctx, id)
}

func (s spyUsers) AddToSet(ctx context.Context, id string, f repository.RefField, ref string) (*model.User, error) {
	s.w.n++
	return s.UserRepository.AddToSet(ctx, id, f, ref)
}

func (s spyUsers) SendFriendRequest(ctx context.Context, receiverID, senderID string) (*model.User, error) {
	s.w.n++
	return s.UserRepository.SendFriendRequest(ctx, receiverID, senderID)
}

func (s spyUsers) AcceptFriend(ctx context.Context, userID, requesterID string) (*model.User, error) {
	s.w.n++
	return s.UserRepository.AcceptFriend(ctx, userID, requesterID)
}

func (s spyUsers) AddFriend(ctx context.Context, userID, friendID string) (*model.User, error) {
	s.w.n++
	return s.UserRepository.AddFriend(ctx, userID, friendID)
}

type spyPosts struct {
	repository.PostRepository
	w *writeCounter
}

func (s spyPosts) Create(ctx context.Context, p *model.Post) error {
	s.w.n++
	return s.PostRepository.Create(ctx, p)
}

func (s spyPosts) AppendComment(ctx context.Context, postID string, c *model.Comment) (*model.Post, error) {
	s.w.n++
	return s.PostRepository.AppendComment(ctx, postID, c)
}

type spyGraffiti struct {
	repository.GraffitiRepository
	w *writeCounter
}

func (s spyGraffiti) Create(ctx context.Context, g *model.GraffitiPost) error {
	s.w.n++
	return s.GraffitiRepository.Create(ctx, g)
}

type spyThreads struct {
	repository.ThreadRepository
	w *writeCounter
}

func (s spyThreads) Create(ctx context.Context, t *model.MessageThread) error {
	s.w.n++
	return s.ThreadRepository.Create(ctx, t)
}

func (s spyThreads) AppendMessage(ctx context.Context, threadID string, m *model.DirectMessage) (*model.MessageThread, error) {
	s.w.n++
	return s.ThreadRepository.AppendMessage(ctx, threadID, m)
}

type fixture struct {
	svc     *Services
	writes  *writeCounter
	revoker *fakeRevoker
	limiter *fakeLimiter
	unread  *fakeUnread
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memrepo.New()
	w := &writeCounter{}
	spied := repository.Store{
		Users:    spyUsers{store.Users, w},
		Posts:    spyPosts{store.Posts, w},
		Graffiti: spyGraffiti{store.Graffiti, w},
		Threads:  spyThreads{store.Threads, w},
	}
	f := &fixture{
		writes:  w,
		revoker: &fakeRevoker{},
		limiter: &fakeLimiter{allow: true},
		unread:  newFakeUnread(),
	}
	f.svc = New(spied, Deps{
		Tokens:  fakeTokens{},
		Revoker: f.revoker,
		Limiter: f.limiter,
		Unread:  f.unread,
	})
	return f
}

// register 注册一个用户并返回其登录态 context
func (f *fixture) register(t *testing.T, firstName string) (*model.User, context.Context) {
	t.Helper()
	auth, err := f.svc.Users.Register(context.Background(), RegisterInput{
		FirstName: firstName,
		LastName:  "Tester",
		Email:     fmt.Sprintf("%s-%s@example.com", firstName, uuid.NewString()),
		Password:  "password-" + firstName,
	})
	require.NoError(t, err)
	return auth.User, asActor(auth.User)
}

func asActor(u *model.User) context.Context {
	return jwt.WithActor(context.Background(), jwt.Actor{UserID: u.ID, Email: u.Email})
}

func requireKind(t *testing.T, err error, kind model.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	var me *model.Error
	require.True(t, errors.As(err, &me), "unexpected error type: %v", err)
	require.Equal(t, kind, me.Kind, me.Message)
}
