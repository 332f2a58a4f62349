package sec

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"connectrpc.com/authn"
	"connectrpc.com/connect"
)

// ErrInvalidIdentity is returned when a token decodes but lacks a subject,
// user ID or owner key.
var ErrInvalidIdentity = errors.New("access token carries an incomplete identity")

// Guard translates a raw request credential into an [Identity]. Both the
// bearer and cookie adapters share its [Guard.Resolve].
type Guard struct {
	codec  TokenCodec
	logger *slog.Logger
}

// NewGuard returns a Guard decoding credentials with codec.
func NewGuard(codec TokenCodec, logger *slog.Logger) *Guard {
	return &Guard{codec: codec, logger: logger}
}

// Resolve decodes token and returns its identity.
func (g *Guard) Resolve(ctx context.Context, token string) (Identity, error) {
	id, err := g.codec.Decode(token)
	if err != nil {
		g.logger.DebugContext(ctx, "rejected access token", slog.Any("error", err))
		return Identity{}, err
	}
	if !id.Valid() {
		g.logger.DebugContext(ctx, "rejected access token", slog.Any("error", ErrInvalidIdentity))
		return Identity{}, ErrInvalidIdentity
	}
	return id, nil
}

// NewBearerMiddleware returns middleware for the API surface. The credential
// must arrive as an "Authorization: Bearer" header; a missing or invalid token
// is answered with a 401 Unauthenticated error and the request goes no
// further.
func NewBearerMiddleware(guard *Guard, opts ...connect.HandlerOption) *authn.Middleware {
	return authn.NewMiddleware(func(ctx context.Context, req *http.Request) (any, error) {
		token, ok := authn.BearerToken(req)
		if !ok {
			return nil, authn.Errorf("missing bearer token")
		}
		id, err := guard.Resolve(ctx, token)
		if err != nil {
			return nil, authn.Errorf("invalid bearer token")
		}
		return id, nil
	}, opts...)
}

// CookieMiddleware guards the page surface. The credential is read from
// cookie; when it is missing or fails to resolve, the cookie is cleared and
// the client is redirected to loginPath. It never fails the request.
func (g *Guard) CookieMiddleware(cookie SessionCookie, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := cookie.Read(r)
			if !ok {
				redirectToLogin(w, r, cookie, loginPath)
				return
			}
			id, err := g.Resolve(r.Context(), token)
			if err != nil {
				redirectToLogin(w, r, cookie, loginPath)
				return
			}
			next.ServeHTTP(w, r.WithContext(SetIdentity(r.Context(), id)))
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request, cookie SessionCookie, loginPath string) {
	cookie.Clear(w, r)
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}
