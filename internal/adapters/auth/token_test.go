package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"guestrsvp/internal/domain"
)

func TestJWTIssuer_Issue(t *testing.T) {
	secret := "test-secret"
	issuer := NewJWTIssuer(secret)

	token, err := issuer.Issue("user-123", "u@example.com", 24*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Parse and verify claims
	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(*jwtClaims)
	require.True(t, ok)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "u@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, jwt.ClaimStrings{adminAudience}, claims.Audience)
}

func TestJWTVerifier_Verify(t *testing.T) {
	token, err := NewJWTIssuer("s3cret").Issue("user-1", "a@b.co", time.Hour)
	require.NoError(t, err)

	userID, err := NewJWTVerifier("s3cret").Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	_, err = NewJWTVerifier("other").Verify(token)
	assert.Error(t, err)
}

func TestJWTVerifier_Verify_expired(t *testing.T) {
	issuer := &jwtIssuer{secret: []byte("s3cret"), now: func() time.Time { return time.Now().Add(-2 * time.Hour) }}
	token, err := issuer.Issue("user-1", "a@b.co", time.Hour)
	require.NoError(t, err)

	_, err = NewJWTVerifier("s3cret").Verify(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTVerifier_Verify_rejectsSignedLinks(t *testing.T) {
	const secret = "shared-secret"
	sig, err := NewLinkSigner(secret).Sign("11111111-1111-1111-1111-111111111111", domain.LinkScopeView, time.Now().Add(time.Hour))
	require.NoError(t, err)

	userID, err := NewJWTVerifier(secret).Verify(sig)
	assert.Error(t, err)
	assert.Empty(t, userID)
}

func TestJWTVerifier_Verify_requiresAdminAudience(t *testing.T) {
	const secret = "s3cret"
	claims := jwtClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = NewJWTVerifier(secret).Verify(token)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidAudience)
}

func TestJWTVerifier_Verify_rejectsScopedToken(t *testing.T) {
	const secret = "s3cret"
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{adminAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Scope: string(domain.LinkScopeSubmit),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = NewJWTVerifier(secret).Verify(token)
	assert.Error(t, err)
}
