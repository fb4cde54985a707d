package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"guestrsvp/internal/domain"
)

const linkAudience = "rsvp-link"

type linkClaims struct {
	jwt.RegisteredClaims
	Scope domain.LinkScope `json:"scope"`
}

type jwtLinkSigner struct {
	secret []byte
	now    func() time.Time
}

// NewLinkSigner returns a LinkSigner producing compact HS256 tokens that carry the guest id as
// subject, the link scope and an expiry. The expiry is rounded up to a whole second so a link
// stays valid through the instant it was signed for.
func NewLinkSigner(secret string) domain.LinkSigner {
	return &jwtLinkSigner{secret: []byte(secret), now: time.Now}
}

func (s *jwtLinkSigner) Sign(guestID string, scope domain.LinkScope, expiresAt time.Time) (string, error) {
	claims := linkClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   guestID,
			Audience:  jwt.ClaimStrings{linkAudience},
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(ceilSecond(expiresAt)),
		},
		Scope: scope,
	}
	sig, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign link: %w", err)
	}
	return sig, nil
}

func (s *jwtLinkSigner) Verify(sig, guestID string, scope domain.LinkScope) error {
	if sig == "" || guestID == "" {
		return domain.ErrLinkUnauthorized
	}
	claims := &linkClaims{}
	_, err := jwt.ParseWithClaims(sig, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithSubject(guestID),
		jwt.WithAudience(linkAudience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrLinkUnauthorized, err)
	}
	if claims.Scope != scope {
		return fmt.Errorf("%w: scope %q does not allow %q", domain.ErrLinkUnauthorized, claims.Scope, scope)
	}
	return nil
}

// ceilSecond rounds t up to the next whole second; NumericDate drops sub-second precision and
// a token is expired once now reaches exp.
func ceilSecond(t time.Time) time.Time {
	if t.Equal(t.Truncate(time.Second)) {
		return t
	}
	return t.Truncate(time.Second).Add(time.Second)
}
