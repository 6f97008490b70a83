package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity signed into every access token. Otp is opaque
// token-rotation material copied from the user row; once the stored value
// changes, previously issued tokens no longer match it.
type Claims struct {
	Username string `json:"username"`
	Otp      string `json:"otp,omitempty"`
	jwt.RegisteredClaims
}

type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func (j *JWTer) Issue(sub, username, otp string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		Otp:      otp,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// Parse verifies signature, issuer and expiry; fails closed on any mismatch.
func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer), jwt.WithLeeway(60*time.Second))

	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, ErrInvalidToken
}

// Check backs POST /auth/check: any parse failure is reported as false,
// never surfaced as an error.
func (j *JWTer) Check(tokenStr string) bool {
	_, err := j.Parse(tokenStr)
	return err == nil
}
