package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/quillhq/quill-backend/internal/config"
	"github.com/quillhq/quill-backend/internal/entity"
)

// Authenticator resolves the caller of an HTTP request to a user identity.
type Authenticator interface {
	CurrentUser(r *http.Request) (*entity.User, error)
}

var _ Authenticator = &SessionAuthenticator{}

// SessionAuthenticator resolves users from the session cookie issued by the
// auth provider. The cookie value is an HS256 JWT whose "sub" claim carries
// the opaque user id.
type SessionAuthenticator struct {
	cookieName string
	secret     []byte
}

func NewSessionAuthenticator(cfg config.AuthConfig) *SessionAuthenticator {
	return &SessionAuthenticator{
		cookieName: cfg.CookieName,
		secret:     []byte(cfg.SessionSecret),
	}
}

// CurrentUser returns the user identity for the request, or
// entity.ErrUnauthorized when the session cookie is absent or invalid.
func (a *SessionAuthenticator) CurrentUser(r *http.Request) (*entity.User, error) {
	cookie, err := r.Cookie(a.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, entity.ErrUnauthorized
	}

	userID, err := a.validateToken(cookie.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrUnauthorized, err)
	}

	return &entity.User{ID: userID}, nil
}

func (a *SessionAuthenticator) validateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("token has no subject")
	}

	return sub, nil
}

// IssueSessionToken signs a session token for the given user. Used by local
// tooling and tests; production sessions are minted by the auth provider.
func (a *SessionAuthenticator) IssueSessionToken(userID string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}
