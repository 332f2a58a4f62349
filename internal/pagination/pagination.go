// Package pagination provides utilities around page tokens.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
)

var (
	tokenEncoding = base64.RawURLEncoding
	validate      = validator.New(validator.WithRequiredStructEnabled())
)

// TokenError is an opaque error related to pagination tokens. The error message
// does not reveal internal details; use [errors.Unwrap] to access the cause.
type TokenError struct {
	cause error
}

// Error satisfies [error].
func (terr TokenError) Error() string {
	return "invalid pagination token"
}

// Unwrap returns the underlying cause of the token error.
func (terr TokenError) Unwrap() error {
	return terr.cause
}

// FromToken decodes an opaque pagination token into the provided struct,
// which is then checked against its validate tags. Returns a [TokenError] if
// decoding or validation fails.
func FromToken[T any](tkn string, out *T) error {
	if tkn == "" {
		return TokenError{cause: errors.New("empty token")}
	}
	data, err := tokenEncoding.DecodeString(tkn)
	if err != nil {
		return TokenError{cause: err}
	}
	if err = json.Unmarshal(data, out); err != nil {
		return TokenError{cause: err}
	}
	if err = validate.Struct(out); err != nil {
		return TokenError{cause: err}
	}
	return nil
}

// ToToken encodes a struct into an opaque pagination token. Returns a
// [TokenError] if validation or encoding fails.
func ToToken[T any](in T) (string, error) {
	if err := validate.Struct(in); err != nil {
		return "", TokenError{cause: err}
	}
	data, err := json.Marshal(in)
	if err != nil {
		return "", TokenError{cause: err}
	}
	return tokenEncoding.EncodeToString(data), nil
}
