// Package jwttoken handles bearer token creation and validation. Tokens
// carry the actor's user ID and role; the role claim is only a hint for
// read paths. The assignment creation path re-reads the role from the
// directory and never trusts this claim.
package jwttoken

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "talentflow/pkg/domain"
	dErrors "talentflow/pkg/domain-errors"
)

// Claims are the JWT claims for TalentFlow access tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Service signs and validates tokens with a shared HMAC key.
type Service struct {
	signingKey []byte
	issuer     string
	audience   string
}

func NewService(signingKey, issuer, audience string) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

// GenerateAccessToken issues a signed token for the given actor. Used by
// the login flow (out of scope here) and by tests.
func (s *Service) GenerateAccessToken(userID id.UserID, role id.Role, expiresIn time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID.String(),
		Role:   role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
		},
	})
	return token.SignedString(s.signingKey)
}

// ValidateToken parses and verifies a token, returning the typed actor
// identity. All failures map to CodeUnauthorized; callers must not
// distinguish them in responses.
func (s *Service) ValidateToken(tokenString string) (id.UserID, id.Role, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.signingKey, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return id.UserID{}, "", dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token")
	}

	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return id.UserID{}, "", dErrors.New(dErrors.CodeUnauthorized, "invalid token subject")
	}
	role, err := id.ParseRole(claims.Role)
	if err != nil {
		return id.UserID{}, "", dErrors.New(dErrors.CodeUnauthorized, "invalid token role")
	}
	return userID, role, nil
}
