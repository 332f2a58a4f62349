package sec

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGuard(t *testing.T) (*Guard, *JWTCodec) {
	t.Helper()
	codec, err := NewJWTCodec(testSecret, "HS256")
	require.NoError(t, err)
	return NewGuard(codec, slog.Default()), codec
}

// identityEcho writes the resolved username, or fails the request if the
// guard let it through without one.
func identityEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetIdentity(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_, _ = w.Write([]byte(id.Username))
	})
}

func TestGuard_Resolve(t *testing.T) {
	t.Parallel()

	guard, codec := newTestGuard(t)

	token, err := codec.Encode(testIdentity(), time.Minute)
	require.NoError(t, err)
	id, err := guard.Resolve(t.Context(), token)
	require.NoError(t, err)
	assert.Equal(t, testIdentity(), id)

	_, err = guard.Resolve(t.Context(), "garbage")
	require.ErrorIs(t, err, ErrMalformed)

	incomplete := testIdentity()
	incomplete.OwnerID = 0
	token, err = codec.Encode(incomplete, time.Minute)
	require.NoError(t, err)
	_, err = guard.Resolve(t.Context(), token)
	require.ErrorIs(t, err, ErrInvalidIdentity)
}

func TestBearerMiddleware(t *testing.T) {
	t.Parallel()

	guard, codec := newTestGuard(t)
	handler := NewBearerMiddleware(guard).Wrap(identityEcho(t))

	valid, err := codec.Encode(testIdentity(), time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "valid", header: "Bearer " + valid, status: http.StatusOK, body: "bob"},
		{name: "missing header", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + valid, status: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer garbage", status: http.StatusUnauthorized},
		{name: "token in cookie only", status: http.StatusUnauthorized},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequestWithContext(t.Context(), http.MethodGet, "/todo/read_all", nil)
			if test.header != "" {
				req.Header.Set("Authorization", test.header)
			}
			req.AddCookie(&http.Cookie{Name: "access_token", Value: valid})
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, test.status, rec.Code)
			if test.body != "" {
				assert.Equal(t, test.body, rec.Body.String())
			}
		})
	}
}

func TestCookieMiddleware(t *testing.T) {
	t.Parallel()

	guard, codec := newTestGuard(t)
	cookie := SessionCookie{Name: "access_token"}
	handler := guard.CookieMiddleware(cookie, "/auth/login-page")(identityEcho(t))

	valid, err := codec.Encode(testIdentity(), time.Minute)
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	expiredCodec, err := NewJWTCodec(testSecret, "HS256", WithClock(func() time.Time { return past }))
	require.NoError(t, err)
	expired, err := expiredCodec.Encode(testIdentity(), time.Minute)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequestWithContext(t.Context(), http.MethodGet, "/todos/todo-page", nil)
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: valid})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "bob", rec.Body.String())
		assert.Empty(t, rec.Result().Cookies())
	})

	for name, value := range map[string]string{
		"missing": "",
		"garbage": "garbage",
		"expired": expired,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequestWithContext(t.Context(), http.MethodGet, "/todos/todo-page", nil)
			if value != "" {
				req.AddCookie(&http.Cookie{Name: cookie.Name, Value: value})
			}
			req.Header.Set("Authorization", "Bearer "+valid)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/auth/login-page", rec.Header().Get("Location"))
			cookies := rec.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, cookie.Name, cookies[0].Name)
			assert.Empty(t, cookies[0].Value)
			assert.Negative(t, cookies[0].MaxAge)
		})
	}
}

func TestIdentityContext(t *testing.T) {
	t.Parallel()

	_, ok := GetIdentity(context.Background())
	assert.False(t, ok)

	ctx := SetIdentity(t.Context(), testIdentity())
	id, ok := GetIdentity(ctx)
	require.True(t, ok)
	assert.Equal(t, testIdentity(), id)
	assert.Equal(t, "42", id.Owner())

	ctx = SetIdentity(t.Context(), Identity{Username: "bob"})
	_, ok = GetIdentity(ctx)
	assert.False(t, ok)
}
