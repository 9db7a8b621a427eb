package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	apperrors "lwsbooking/internal/errors"
)

const sessionClaim = "sid"

// TokenIssuer signs and checks the bearer tokens that tie a visitor to a booking session.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer uses secret when set, otherwise a random key that lives as long as the process.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generating session secret: %w", err)
		}
	}
	return &TokenIssuer{secret: key, ttl: ttl, now: time.Now}, nil
}

func (t *TokenIssuer) Issue(sessionID string) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		sessionClaim: sessionID,
		"iat":        now.Unix(),
		"exp":        now.Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// SessionID validates raw and returns the session it was issued for.
func (t *TokenIssuer) SessionID(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(tok *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("unexpected claims")
	}
	sid, _ := claims[sessionClaim].(string)
	if sid == "" {
		return "", errors.New("token carries no session")
	}
	return sid, nil
}

// SessionTokenMiddleware only lets requests through whose bearer token was issued for
// the {id} in the path.
func SessionTokenMiddleware(issuer *TokenIssuer) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				apperrors.WriteJSON(w, apperrors.ErrUnauthorized("Missing session token"))
				return
			}
			sid, err := issuer.SessionID(strings.TrimPrefix(header, "Bearer "))
			if err != nil || sid != mux.Vars(r)["id"] {
				apperrors.WriteJSON(w, apperrors.ErrUnauthorized("Invalid session token"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
