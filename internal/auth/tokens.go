package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	UseAccess  = "access"
	UseRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the typed JWT payload. Use distinguishes access tokens from
// refresh tokens so one can never be presented as the other.
type Claims struct {
	UserID string `json:"user_id"`
	Use    string `json:"use"`
	jwt.RegisteredClaims
}

// Tokens issues and parses the bearer credentials of the API.
type Tokens struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokens(secret string, accessTTL, refreshTTL time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (t *Tokens) sign(userID, use string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Use:    use,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// NewAccessToken creates a short-lived access token for the user.
func (t *Tokens) NewAccessToken(userID string) (string, error) {
	return t.sign(userID, UseAccess, t.accessTTL)
}

// NewRefreshToken creates a longer-lived token used to refresh access.
func (t *Tokens) NewRefreshToken(userID string) (string, error) {
	return t.sign(userID, UseRefresh, t.refreshTTL)
}

// Parse validates the signature and expiry and checks the token use.
func (t *Tokens) Parse(raw, use string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Use != use || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RefreshTTL exposes the refresh lifetime so the store can align its TTL.
func (t *Tokens) RefreshTTL() time.Duration { return t.refreshTTL }
