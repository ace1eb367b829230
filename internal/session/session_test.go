package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/brandadmin/internal/grid"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client, time.Hour), mr
}

func TestStore_Flashes(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddFlash(ctx, "s1", FlashSuccess, "Successful deletion"))
	require.NoError(t, store.AddFlash(ctx, "s1", FlashError, "Cannot delete"))
	require.NoError(t, store.AddFlash(ctx, "s2", FlashInfo, "other session"))

	assert.Equal(t, time.Hour, mr.TTL(store.flashKey("s1")))

	got, err := store.PopFlashes(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []Flash{
		{Type: FlashSuccess, Message: "Successful deletion"},
		{Type: FlashError, Message: "Cannot delete"},
	}, got)

	t.Run("Should be shown only once", func(t *testing.T) {
		again, err := store.PopFlashes(ctx, "s1")
		require.NoError(t, err)
		assert.Empty(t, again)
	})

	t.Run("Should keep other sessions apart", func(t *testing.T) {
		other, err := store.PopFlashes(ctx, "s2")
		require.NoError(t, err)
		assert.Len(t, other, 1)
	})
}

func TestStore_Filters(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	_, ok, err := store.LoadFilters(ctx, "s1", grid.ManufacturerGridID)
	require.NoError(t, err)
	assert.False(t, ok)

	saved := grid.Filters{
		GridID:    grid.ManufacturerGridID,
		Filters:   map[string]string{"name": "acme"},
		OrderBy:   "name",
		SortOrder: "desc",
		Offset:    50,
		Limit:     50,
	}
	require.NoError(t, store.SaveFilters(ctx, "s1", saved))

	got, ok, err := store.LoadFilters(ctx, "s1", grid.ManufacturerGridID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, saved, got)

	_, ok, err = store.LoadFilters(ctx, "s1", grid.ManufacturerAddressGridID)
	require.NoError(t, err)
	assert.False(t, ok, "filters are stored per grid")
}

func TestStore_FiltersExpire(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveFilters(ctx, "s1", grid.Filters{GridID: "manufacturer"}))

	mr.FastForward(2 * time.Hour)

	_, ok, err := store.LoadFilters(ctx, "s1", "manufacturer")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMiddleware(t *testing.T) {
	store, _ := setupTestStore(t)
	var seen string
	h := store.Middleware(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = IDFromContext(r.Context())
	}))

	t.Run("Should issue a session id when the cookie is missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		_, err := uuid.Parse(seen)
		require.NoError(t, err)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, seen, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	})

	t.Run("Should keep a valid session id", func(t *testing.T) {
		sid := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: sid})
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, sid, seen)
	})

	t.Run("Should replace a malformed session id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "../../etc"})
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.NotEqual(t, "../../etc", seen)
	})
}
