package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrTokenExpired is returned when a token is syntactically valid but past
// its expiry. Callers distinguish it so clients can run the refresh flow.
var ErrTokenExpired = errors.New("token expired")

var errInvalidToken = errors.New("invalid token")

// Claims carried by both access and refresh tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies the access/refresh token pair. The two
// token kinds use distinct secrets so a leaked refresh secret cannot mint
// access tokens and vice versa.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessLife    time.Duration
	refreshLife   time.Duration
}

func NewTokenManager(accessSecret, refreshSecret string, accessLife, refreshLife time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessLife:    accessLife,
		refreshLife:   refreshLife,
	}
}

func (m *TokenManager) GenerateAccessToken(userID uuid.UUID, email string) (string, error) {
	return m.generate(userID, email, m.accessSecret, m.accessLife)
}

func (m *TokenManager) GenerateRefreshToken(userID uuid.UUID, email string) (string, error) {
	return m.generate(userID, email, m.refreshSecret, m.refreshLife)
}

func (m *TokenManager) generate(userID uuid.UUID, email string, secret []byte, life time.Duration) (string, error) {
	claims := Claims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(life)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (m *TokenManager) ParseAccessToken(tokenStr string) (*Claims, error) {
	return parse(tokenStr, m.accessSecret)
}

func (m *TokenManager) ParseRefreshToken(tokenStr string) (*Claims, error) {
	return parse(tokenStr, m.refreshSecret)
}

func parse(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errInvalidToken
	}
	if !token.Valid || claims.UserID == "" {
		return nil, errInvalidToken
	}
	return claims, nil
}
