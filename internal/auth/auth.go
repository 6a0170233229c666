// Package auth provides JWT-based authentication for the admin API.
//
// A single admin account is configured through a bcrypt password hash.
// Successful logins are issued an HS256-signed JWT which the RequireAuth
// middleware validates on protected routes.
package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/VaclavObornik/prg-chatbot/internal/common/errors"
)

// TokenTTL is how long an issued admin token stays valid.
const TokenTTL = 24 * time.Hour

// Auth issues and validates admin API tokens.
type Auth struct {
	secret       []byte
	passwordHash string
	now          func() time.Time
}

// Claims is the JWT payload carried by admin tokens.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// New creates an authenticator. The secret signs tokens, passwordHash is the
// bcrypt hash of the admin password.
func New(secret, passwordHash string) *Auth {
	return &Auth{
		secret:       []byte(secret),
		passwordHash: passwordHash,
		now:          time.Now,
	}
}

// Login checks the admin password and issues a signed token.
func (a *Auth) Login(username, password string) (string, error) {
	if username != "admin" {
		return "", errors.AuthError("invalid credentials")
	}
	if a.passwordHash == "" {
		return "", errors.ConfigError("admin login is not configured")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(password)); err != nil {
		return "", errors.AuthError("invalid credentials")
	}

	now := a.now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", errors.InternalError("failed to sign token", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a token, returning its claims.
func (a *Auth) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.AuthError("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, errors.AuthError("invalid token")
	}
	if !token.Valid {
		return nil, errors.AuthError("invalid token")
	}
	return claims, nil
}

// RequireAuth wraps a handler so only requests with a valid Bearer token
// pass through.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			unauthorized(w, "missing Authorization header")
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			unauthorized(w, "invalid Authorization header format")
			return
		}

		claims, err := a.ValidateToken(tokenString)
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}

		r.Header.Set("X-Username", claims.Username)
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error": "` + msg + `"}`))
}

// HashPassword produces the bcrypt hash stored in ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.InternalError("failed to hash password", err)
	}
	return string(hash), nil
}
