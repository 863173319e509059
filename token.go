package loanauth

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/rs/xid"
)

// Claims is the self-contained token payload. The Id (jti) keys the
// server-side session record, which is what makes revocation possible
// despite the token itself never touching storage on verification.
type Claims struct {
	AccountID string `json:"accountId"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Email     string `json:"email"`
	jwt.StandardClaims
}

const tokenTTL = 6 * time.Hour

type Tokens struct {
	signingKey []byte
	ttl        time.Duration
}

func NewTokens(signingKey []byte) *Tokens {
	return &Tokens{signingKey: signingKey, ttl: tokenTTL}
}

func (t *Tokens) Issue(acc *Account, p *Profile) (string, *Claims, error) {
	now := time.Now().UTC()
	claims := &Claims{
		AccountID: string(acc.ID),
		Username:  p.Username,
		Role:      string(p.Role),
		Email:     acc.Email,
		StandardClaims: jwt.StandardClaims{
			Id:        xid.New().String(),
			Issuer:    "auth",
			Subject:   string(acc.ID),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(t.ttl).Unix(),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.signingKey)
	if err != nil {
		return "", nil, err
	}
	return tokenString, claims, nil
}

// Parse verifies signature and expiry. Any failure collapses to
// ErrUnauthenticated; callers never learn why a token was rejected.
func (t *Tokens) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.signingKey, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}
	return claims, nil
}
