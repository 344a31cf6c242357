package auth

import (
	"net/http"

	"github.com/quillhq/quill-backend/internal/entity"
)

var _ Authenticator = &MockAuthenticator{}

// MockAuthenticator resolves every request to a fixed user. Local use only.
type MockAuthenticator struct {
	userID string
}

func NewMockAuthenticator(userID string) *MockAuthenticator {
	return &MockAuthenticator{userID: userID}
}

func (a *MockAuthenticator) CurrentUser(r *http.Request) (*entity.User, error) {
	if a.userID == "" {
		return nil, entity.ErrUnauthorized
	}
	return &entity.User{ID: a.userID}, nil
}
