package jwt

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"social-system/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		ExpireTime: time.Hour,
		Issuer:     "social-system-test",
	})
}

func TestIssueAndValidate(t *testing.T) {
	s := newTestService()

	token, err := s.IssueToken("user-1", "ada@example.com")
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, Actor{UserID: "user-1", Email: "ada@example.com"}, claims.Actor())
}

func TestValidateRejectsBadTokens(t *testing.T) {
	s := newTestService()

	_, err := s.ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = s.ValidateToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewJWTService(config.JWTConfig{Secret: "another-secret", ExpireTime: time.Hour, Issuer: "social-system-test"})
	token, err := other.IssueToken("user-1", "")
	require.NoError(t, err)
	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	otherIssuer := NewJWTService(config.JWTConfig{Secret: "test-secret-key-for-unit-tests", ExpireTime: time.Hour, Issuer: "someone-else"})
	token, err = otherIssuer.IssueToken("user-1", "")
	require.NoError(t, err)
	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewJWTService(config.JWTConfig{Secret: "test-secret-key-for-unit-tests", ExpireTime: -time.Minute, Issuer: "social-system-test"})
	token, err = expired.IssueToken("user-1", "")
	require.NoError(t, err)
	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.IssueToken("", "ada@example.com")
	assert.Error(t, err)
}

func TestActorContext(t *testing.T) {
	_, ok := ActorFromContext(context.Background())
	assert.False(t, ok)

	_, ok = ActorFromContext(WithActor(context.Background(), Actor{}))
	assert.False(t, ok)

	actor, ok := ActorFromContext(WithActor(context.Background(), Actor{UserID: "u1"}))
	assert.True(t, ok)
	assert.Equal(t, "u1", actor.UserID)
}

type revokedSet map[string]bool

func (r revokedSet) IsRevoked(_ context.Context, userID string) (bool, error) {
	return r[userID], nil
}

type brokenChecker struct{}

func (brokenChecker) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := newTestService()
	token, err := s.IssueToken("user-1", "ada@example.com")
	require.NoError(t, err)

	run := func(checker RevocationChecker, header string) (Actor, bool) {
		var (
			actor Actor
			ok    bool
		)
		r := gin.New()
		r.Use(s.AuthMiddleware(checker))
		r.GET("/", func(c *gin.Context) {
			actor, ok = ActorFromContext(c.Request.Context())
			c.Status(http.StatusNoContent)
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusNoContent, w.Code)
		return actor, ok
	}

	actor, ok := run(nil, "Bearer "+token)
	assert.True(t, ok)
	assert.Equal(t, "user-1", actor.UserID)

	_, ok = run(nil, "")
	assert.False(t, ok)

	_, ok = run(nil, "Bearer garbage")
	assert.False(t, ok)

	_, ok = run(nil, token)
	assert.False(t, ok)

	_, ok = run(revokedSet{"user-1": true}, "Bearer "+token)
	assert.False(t, ok)

	_, ok = run(brokenChecker{}, "Bearer "+token)
	assert.True(t, ok)
}
