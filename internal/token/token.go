package token

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/skyreserve/skyreserve/internal/domain"
)

var ErrInvalidToken = errors.New("token is not valid")

type sessionClaims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

// Manager issues and resolves bearer session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

func (m *Manager) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Admin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Resolve returns the user id carried by a presented token. Signed JWTs are
// verified; when verification fails, the legacy "token_<userId>_<anything>"
// shape is still accepted for old clients. The legacy path carries no
// integrity guarantee, it only recovers an id from a well-known prefix.
func (m *Manager) Resolve(tokenString string) (int64, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err == nil && parsed.Valid {
		id, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			return 0, ErrInvalidToken
		}
		return id, nil
	}

	return resolveLegacy(tokenString)
}

func resolveLegacy(tokenString string) (int64, error) {
	if !strings.HasPrefix(tokenString, "token_") {
		return 0, ErrInvalidToken
	}
	parts := strings.Split(tokenString, "_")
	if len(parts) < 2 {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}
