package sec

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func testIdentity() Identity {
	return Identity{
		Username: "bob",
		OwnerID:  42,
		UserID:   42,
		Role:     "user",
	}
}

func TestNewJWTCodec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		secret    []byte
		algorithm string
		wantErr   string
	}{
		{name: "HS256", secret: testSecret, algorithm: "HS256"},
		{name: "HS384", secret: testSecret, algorithm: "HS384"},
		{name: "HS512", secret: testSecret, algorithm: "HS512"},
		{name: "short secret", secret: []byte("short"), algorithm: "HS256", wantErr: "at least 32 bytes"},
		{name: "asymmetric algorithm", secret: testSecret, algorithm: "RS256", wantErr: "unsupported signing algorithm"},
		{name: "none algorithm", secret: testSecret, algorithm: "none", wantErr: "unsupported signing algorithm"},
		{name: "unknown algorithm", secret: testSecret, algorithm: "nope", wantErr: "unsupported signing algorithm"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			codec, err := NewJWTCodec(test.secret, test.algorithm)
			if test.wantErr != "" {
				require.ErrorContains(t, err, test.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, codec)
		})
	}
}

func TestJWTCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec, err := NewJWTCodec(testSecret, "HS256")
	require.NoError(t, err)

	token, err := codec.Encode(testIdentity(), time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."))

	id, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, testIdentity(), id)
}

func TestJWTCodec_Encode_InvalidTTL(t *testing.T) {
	t.Parallel()

	codec, err := NewJWTCodec(testSecret, "HS256")
	require.NoError(t, err)

	_, err = codec.Encode(testIdentity(), 0)
	require.Error(t, err)
	_, err = codec.Encode(testIdentity(), -time.Second)
	require.Error(t, err)
}

func TestJWTCodec_Decode_Expired(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := NewJWTCodec(testSecret, "HS256", WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	token, err := issuer.Encode(testIdentity(), 20*time.Minute)
	require.NoError(t, err)

	later := now.Add(21 * time.Minute)
	validator, err := NewJWTCodec(testSecret, "HS256", WithClock(func() time.Time { return later }))
	require.NoError(t, err)

	_, err = validator.Decode(token)
	require.ErrorIs(t, err, ErrExpired)
	require.NotErrorIs(t, err, ErrInvalidSignature)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, DecodeExpired, decodeErr.Kind)
	assert.Equal(t, "access token expired", decodeErr.Error())
	assert.Error(t, decodeErr.Unwrap())
}

func TestJWTCodec_Decode_Leeway(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := NewJWTCodec(testSecret, "HS256", WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	token, err := issuer.Encode(testIdentity(), time.Minute)
	require.NoError(t, err)

	later := now.Add(time.Minute + 10*time.Second)
	strict, err := NewJWTCodec(testSecret, "HS256", WithClock(func() time.Time { return later }))
	require.NoError(t, err)
	_, err = strict.Decode(token)
	require.ErrorIs(t, err, ErrExpired)

	lenient, err := NewJWTCodec(testSecret, "HS256",
		WithClock(func() time.Time { return later }),
		WithLeeway(30*time.Second),
	)
	require.NoError(t, err)
	id, err := lenient.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, testIdentity(), id)
}

func TestJWTCodec_Decode_InvalidSignature(t *testing.T) {
	t.Parallel()

	codec, err := NewJWTCodec(testSecret, "HS256")
	require.NoError(t, err)
	token, err := codec.Encode(testIdentity(), time.Minute)
	require.NoError(t, err)

	t.Run("tampered signature", func(t *testing.T) {
		t.Parallel()
		sigStart := strings.LastIndex(token, ".") + 1
		replacement := "A"
		if token[sigStart] == 'A' {
			replacement = "B"
		}
		tampered := token[:sigStart] + replacement + token[sigStart+1:]
		_, err := codec.Decode(tampered)
		require.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("other secret", func(t *testing.T) {
		t.Parallel()
		other, err := NewJWTCodec([]byte("fedcba9876543210fedcba9876543210"), "HS256")
		require.NoError(t, err)
		_, err = other.Decode(token)
		require.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("other algorithm", func(t *testing.T) {
		t.Parallel()
		other, err := NewJWTCodec(testSecret, "HS512")
		require.NoError(t, err)
		_, err = other.Decode(token)
		require.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("forged and expired", func(t *testing.T) {
		t.Parallel()
		past := time.Now().Add(-time.Hour)
		forger, err := NewJWTCodec([]byte("fedcba9876543210fedcba9876543210"), "HS256",
			WithClock(func() time.Time { return past }))
		require.NoError(t, err)
		forged, err := forger.Encode(testIdentity(), time.Minute)
		require.NoError(t, err)
		_, err = codec.Decode(forged)
		require.ErrorIs(t, err, ErrInvalidSignature)
	})
}

func TestJWTCodec_Decode_Malformed(t *testing.T) {
	t.Parallel()

	codec, err := NewJWTCodec(testSecret, "HS256")
	require.NoError(t, err)

	for _, token := range []string{
		"",
		"garbage",
		"a.b.c",
		"not.a.token.at.all",
	} {
		_, err := codec.Decode(token)
		require.ErrorIs(t, err, ErrMalformed, "token %q", token)
	}
}

func TestDecodeKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "malformed", DecodeMalformed.String())
	assert.Equal(t, "invalid signature", DecodeInvalidSignature.String())
	assert.Equal(t, "expired", DecodeExpired.String())
	assert.Equal(t, "DecodeKind(99)", DecodeKind(99).String())
}
