package sec

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stolasapp/todo/internal/storage"
)

// ErrAuthenticationFailed is returned for any bad username/password pair. It
// deliberately does not distinguish an unknown user from a wrong password.
var ErrAuthenticationFailed = errors.New("invalid username or password")

// TokenTypeBearer is the token type reported alongside issued access tokens.
const TokenTypeBearer = "bearer"

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"-"`
}

// Authenticator verifies username/password pairs against the user store and
// issues access tokens for them.
type Authenticator struct {
	users  storage.Users
	hasher Hasher
	codec  TokenCodec
	ttl    time.Duration
	now    func() time.Time

	// dummy is verified against when the user does not exist, so both failure
	// paths pay for one bcrypt comparison.
	dummy []byte
}

// NewAuthenticator returns an Authenticator over users. Tokens are minted by
// codec with the given lifetime.
func NewAuthenticator(
	users storage.Users,
	hasher Hasher,
	codec TokenCodec,
	ttl time.Duration,
) (*Authenticator, error) {
	dummy, err := hasher.Hash("not a real password")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare authenticator: %w", err)
	}
	return &Authenticator{
		users:  users,
		hasher: hasher,
		codec:  codec,
		ttl:    ttl,
		now:    time.Now,
		dummy:  dummy,
	}, nil
}

// Authenticate resolves the identity for username if password matches. Any
// mismatch, including an unknown username, returns [ErrAuthenticationFailed].
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (Identity, error) {
	user, err := a.users.GetUserByName(ctx, username)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		a.hasher.Verify(password, a.dummy)
		return Identity{}, ErrAuthenticationFailed
	case err != nil:
		return Identity{}, fmt.Errorf("failed to look up user: %w", err)
	case !a.hasher.Verify(password, user.PasswordHash):
		return Identity{}, ErrAuthenticationFailed
	default:
		return IdentityOf(user), nil
	}
}

// IssueToken authenticates the pair and mints an access token for the
// resulting identity.
func (a *Authenticator) IssueToken(ctx context.Context, username, password string) (Token, error) {
	id, err := a.Authenticate(ctx, username, password)
	if err != nil {
		return Token{}, err
	}
	expires := a.now().Add(a.ttl)
	access, err := a.codec.Encode(id, a.ttl)
	if err != nil {
		return Token{}, err
	}
	return Token{
		AccessToken: access,
		TokenType:   TokenTypeBearer,
		ExpiresAt:   expires,
	}, nil
}
