package pagination

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testToken struct {
	AfterID uint64 `json:"a,string" validate:"required"`
	Filter  string `json:"f,omitempty"`
}

func TestToToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      testToken
		wantErr bool
	}{
		{
			name:    "valid token",
			in:      testToken{AfterID: 1234, Filter: "this.complete"},
			wantErr: false,
		},
		{
			name:    "invalid token missing required field",
			in:      testToken{Filter: "this.complete"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tkn, err := ToToken(tt.in)
			if tt.wantErr {
				var tokenErr TokenError
				require.ErrorAs(t, err, &tokenErr)
				assert.Empty(t, tkn)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, tkn)
			}
		})
	}
}

func TestFromToken(t *testing.T) {
	t.Parallel()

	valid := testToken{AfterID: 99}
	validToken, err := ToToken(valid)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{
			name:    "valid token",
			token:   validToken,
			wantErr: false,
		},
		{
			name:    "empty token",
			token:   "",
			wantErr: true,
		},
		{
			name:    "invalid base64",
			token:   "not-valid-base64!!!",
			wantErr: true,
		},
		{
			name:    "valid base64 invalid json",
			token:   tokenEncoding.EncodeToString([]byte("not json")),
			wantErr: true,
		},
		{
			name:    "valid json fails validation",
			token:   tokenEncoding.EncodeToString([]byte(`{"f":"x"}`)),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out testToken
			err := FromToken(tt.token, &out)
			if tt.wantErr {
				var tokenErr TokenError
				require.ErrorAs(t, err, &tokenErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, valid, out)
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	in := testToken{AfterID: 1 << 62, Filter: `this.title.contains("milk")`}

	tkn, err := ToToken(in)
	require.NoError(t, err)

	var out testToken
	err = FromToken(tkn, &out)
	require.NoError(t, err)

	assert.Equal(t, in, out)
}

func TestTokenErrorMessage(t *testing.T) {
	t.Parallel()

	err := TokenError{cause: errors.New("underlying cause")}
	assert.Equal(t, "invalid pagination token", err.Error())
	assert.EqualError(t, errors.Unwrap(err), "underlying cause")
}
