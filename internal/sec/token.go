package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLen is the minimum length of an HMAC signing secret, in bytes.
const MinSecretLen = 32

// TokenCodec mints and validates access tokens carrying an [Identity].
type TokenCodec interface {
	// Encode returns a signed token for id that expires after ttl.
	Encode(id Identity, ttl time.Duration) (string, error)
	// Decode verifies token and returns the identity it carries. Failures are
	// always a [*DecodeError].
	Decode(token string) (Identity, error)
}

// DecodeKind classifies why a token failed to decode.
type DecodeKind int

// Decode failure kinds.
const (
	DecodeMalformed DecodeKind = iota + 1
	DecodeInvalidSignature
	DecodeExpired
)

// String satisfies [fmt.Stringer].
func (k DecodeKind) String() string {
	switch k {
	case DecodeMalformed:
		return "malformed"
	case DecodeInvalidSignature:
		return "invalid signature"
	case DecodeExpired:
		return "expired"
	default:
		return fmt.Sprintf("DecodeKind(%d)", int(k))
	}
}

// DecodeError is returned by [TokenCodec.Decode]. The message only reveals the
// kind; use [errors.Unwrap] to access the cause.
type DecodeError struct {
	Kind  DecodeKind
	cause error
}

// Sentinel decode errors for use with [errors.Is].
var (
	ErrMalformed        = &DecodeError{Kind: DecodeMalformed}
	ErrInvalidSignature = &DecodeError{Kind: DecodeInvalidSignature}
	ErrExpired          = &DecodeError{Kind: DecodeExpired}
)

// Error satisfies [error].
func (e *DecodeError) Error() string {
	return "access token " + e.Kind.String()
}

// Unwrap returns the underlying cause of the decode error.
func (e *DecodeError) Unwrap() error {
	return e.cause
}

// Is matches any DecodeError of the same kind.
func (e *DecodeError) Is(target error) bool {
	var other *DecodeError
	return errors.As(target, &other) && other.Kind == e.Kind
}

type tokenClaims struct {
	jwt.RegisteredClaims

	OwnerID uint64 `json:"oid,string"`
	UserID  uint64 `json:"uid,string"`
	Role    string `json:"role,omitempty"`
}

// JWTCodec is a [TokenCodec] producing HMAC-signed JWTs.
type JWTCodec struct {
	method *jwt.SigningMethodHMAC
	secret []byte
	leeway time.Duration
	now    func() time.Time
}

// CodecOption configures a [JWTCodec].
type CodecOption func(*JWTCodec)

// WithLeeway tolerates clock skew of up to d when validating time claims.
func WithLeeway(d time.Duration) CodecOption {
	return func(c *JWTCodec) { c.leeway = d }
}

// WithClock replaces the codec's time source.
func WithClock(now func() time.Time) CodecOption {
	return func(c *JWTCodec) { c.now = now }
}

// NewJWTCodec returns a codec signing with secret using the named HMAC
// algorithm (HS256, HS384 or HS512).
func NewJWTCodec(secret []byte, algorithm string, opts ...CodecOption) (*JWTCodec, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("signing secret must be at least %d bytes", MinSecretLen)
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	codec := &JWTCodec{
		method: method,
		secret: secret,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(codec)
	}
	return codec, nil
}

// Encode satisfies [TokenCodec].
func (c *JWTCodec) Encode(id Identity, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	now := c.now()
	token := jwt.NewWithClaims(c.method, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		OwnerID: id.OwnerID,
		UserID:  id.UserID,
		Role:    id.Role,
	})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// Decode satisfies [TokenCodec].
func (c *JWTCodec) Decode(token string) (Identity, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(c.leeway),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return Identity{}, &DecodeError{Kind: decodeKind(err), cause: err}
	}
	return Identity{
		Username: claims.Subject,
		OwnerID:  claims.OwnerID,
		UserID:   claims.UserID,
		Role:     claims.Role,
	}, nil
}

// decodeKind maps jwt parse errors onto a [DecodeKind]. The signature is
// checked before any time claim, so a forged expired token reports an invalid
// signature.
func decodeKind(err error) DecodeKind {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return DecodeInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return DecodeExpired
	default:
		return DecodeMalformed
	}
}

var _ TokenCodec = (*JWTCodec)(nil)
