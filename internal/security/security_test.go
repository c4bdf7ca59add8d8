package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	password := "testPassword123"

	hash, err := HashPassword(password)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	hash2, err := HashPassword(password)
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2, "hashes should differ due to salt")
}

func TestCheckPassword(t *testing.T) {
	password := "mySecurePassword"
	hash, err := HashPassword(password)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{name: "correct password", password: password, hash: hash, want: true},
		{name: "incorrect password", password: "wrongPassword", hash: hash, want: false},
		{name: "empty password", password: "", hash: hash, want: false},
		{name: "no hash configured", password: password, hash: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckPassword(tt.password, tt.hash))
		})
	}
}

func TestSessionTokens(t *testing.T) {
	tokens := NewSessionTokens("secret", time.Hour)

	token, expires, err := tokens.Issue("abc-123")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	id, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", id)

	_, err = NewSessionTokens("other", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = tokens.Issue("")
	assert.Error(t, err)
}

func TestSessionTokensExpired(t *testing.T) {
	tokens := NewSessionTokens("secret", -time.Minute)
	token, _, err := tokens.Issue("abc")
	require.NoError(t, err)

	_, err = tokens.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionTokensRejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "abc",
		Issuer:    tokenIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewSessionTokens("secret", time.Hour).Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCSRFToken(t *testing.T) {
	g := NewCSRFGenerator("secret")

	token, err := g.GenerateToken("session-1")
	require.NoError(t, err)
	assert.True(t, g.ValidateToken("session-1", token))
	assert.False(t, g.ValidateToken("session-2", token))
	assert.False(t, g.ValidateToken("session-1", ""))
	assert.False(t, g.ValidateToken("", token))
	assert.False(t, g.ValidateToken("", ""))

	_, err = g.GenerateToken("")
	assert.Error(t, err)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Hour)
	defer rl.Stop()
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"))
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", GetClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
	assert.Equal(t, "203.0.113.7", GetClientIP(r))
}

func TestSessionCookie(t *testing.T) {
	r := httptest.NewRequest("GET", "https://quiz.example.com/", nil)
	c := CreateSessionCookie(r, "quiz_session", "tok", time.Now().Add(time.Hour))
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)

	plain := httptest.NewRequest("GET", "/", nil)
	plain.Header.Set("X-Forwarded-Proto", "https")
	assert.True(t, IsSecureRequest(plain))

	del := CreateDeleteCookie(plain, "quiz_session")
	assert.Equal(t, -1, del.MaxAge)
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	assert.Empty(t, TokenFromRequest(r))

	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "from-cookie"})
	assert.Equal(t, "from-cookie", TokenFromRequest(r))

	r.Header.Set("Authorization", "Bearer from-header")
	assert.Equal(t, "from-header", TokenFromRequest(r))
}
