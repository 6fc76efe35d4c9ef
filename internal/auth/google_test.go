package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(svc *GoogleService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestStartRequiresConfiguration(t *testing.T) {
	r := newAuthRouter(NewGoogleService("", "", "", "http://ui", nil))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/start", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestStartRedirectsWithStoredState(t *testing.T) {
	states := NewMemoryStateStore(nil)
	r := newAuthRouter(NewGoogleService("id", "secret", "http://api/cb", "http://ui", states))

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/start", nil))
	require.Equal(t, http.StatusFound, resp.Code)

	loc, err := url.Parse(resp.Header().Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)

	ok, err := states.Consume(context.Background(), state)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCallbackRejectsUnknownState(t *testing.T) {
	r := newAuthRouter(NewGoogleService("id", "secret", "http://api/cb", "http://ui", nil))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?state=nope&code=c", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.True(t, strings.Contains(resp.Body.String(), "invalid or expired state"))
}

func TestMemoryStateStoreExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStateStore(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "s1", time.Minute))
	now = now.Add(2 * time.Minute)
	ok, err := store.Consume(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStateStoreSingleUse(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStateStore(client)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "s1", time.Minute))
	ok, err := store.Consume(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Consume(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "s2", time.Minute))
	mr.FastForward(2 * time.Minute)
	ok, err = store.Consume(ctx, "s2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAppendToken(t *testing.T) {
	got, err := appendToken("http://ui/auth?next=dash", "abc")
	require.NoError(t, err)
	assert.Equal(t, "http://ui/auth?next=dash&token=abc", got)

	_, err = appendToken("", "abc")
	assert.Error(t, err)
}
