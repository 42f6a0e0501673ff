package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"parley/config"
	"parley/pkg/errors"
)

// Claims carried by access tokens. Token issuance belongs to the auth
// service; this package only needs to resolve "bearer token → user id" for
// the connection gatekeeper. IssueToken exists for tests and tooling.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
}

func VerifyToken(raw string, cfg config.JWT) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, errors.ErrMissingToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.ErrInvalidToken
		}
		return []byte(cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, errors.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errors.ErrInvalidToken
	}
	return userID, nil
}

func IssueToken(userID uuid.UUID, username string, cfg config.JWT) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.ExpiredIn) * time.Second)),
		},
		Username: username,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
}

// ExtractToken pulls the bearer token from the query string or the
// Authorization header. WebSocket clients in browsers cannot set headers, so
// the query parameter is tried first.
func ExtractToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
