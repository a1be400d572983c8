package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every decode failure: bad signature, expired,
// or malformed. Callers deliberately cannot tell which.
var ErrInvalidToken = errors.New("invalid token")

// Token type discriminator carried in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the payload of both token kinds: subject (account id as a decimal
// string), email, type discriminator, and the registered expiry.
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email"`
	TokenType string `json:"type"`
}

// AccountID parses the subject claim as the numeric account id.
func (c *Claims) AccountID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// RemainingTTL returns the time left until the token expires, or zero if the
// expiry claim is missing. Negative results mean the token has already expired.
func (c *Claims) RemainingTTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Time.Sub(now)
}

// TokenCodec issues and decodes HS256-signed access and refresh tokens using a
// process-wide shared secret.
type TokenCodec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenCodec returns a TokenCodec signing with secret. accessTTL and
// refreshTTL are the default lifetimes used by IssuePair.
func NewTokenCodec(secret string, accessTTL, refreshTTL time.Duration) *TokenCodec {
	return &TokenCodec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Issue signs a token of the given type for the account, expiring after ttl.
func (c *TokenCodec) Issue(accountID int64, email, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(accountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:     email,
		TokenType: tokenType,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// IssuePair issues an access and a refresh token for the account using the
// codec's default lifetimes.
func (c *TokenCodec) IssuePair(accountID int64, email string) (accessToken, refreshToken string, err error) {
	accessToken, err = c.Issue(accountID, email, TokenTypeAccess, c.accessTTL)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = c.Issue(accountID, email, TokenTypeRefresh, c.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// AccessTTL returns the default access token lifetime.
func (c *TokenCodec) AccessTTL() time.Duration { return c.accessTTL }

// Decode verifies signature and expiry and returns the embedded claims.
// All failures collapse to ErrInvalidToken.
func (c *TokenCodec) Decode(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
