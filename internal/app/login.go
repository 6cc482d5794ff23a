package app

import (
	"fmt"

	"github.com/dispecer/fleetray/internal/colors"
	"github.com/dispecer/fleetray/internal/store"
)

// CredentialStore persists the backend credential and user identity.
type CredentialStore interface {
	SetValue(key, value string) error
	DeleteValue(key string) error
}

// LoginUseCase stores the credential every backend call reads at call time.
type LoginUseCase struct {
	store CredentialStore
}

// NewLoginUseCase creates the login use-case.
func NewLoginUseCase(store CredentialStore) *LoginUseCase {
	if store == nil {
		panic("NewLoginUseCase: store dependency cannot be nil")
	}
	return &LoginUseCase{store: store}
}

// Execute saves the token and user id.
func (u *LoginUseCase) Execute(token, userID string) error {
	if token == "" {
		return fmt.Errorf("login: token is required")
	}
	if userID == "" {
		return fmt.Errorf("login: user id is required")
	}
	if err := u.store.SetValue(store.KeyAuthToken, token); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := u.store.SetValue(store.KeyUserID, userID); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	colors.Success(fmt.Sprintf("Signed in as %s", userID))
	return nil
}

// Logout removes the stored credential.
func (u *LoginUseCase) Logout() error {
	if err := u.store.DeleteValue(store.KeyAuthToken); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if err := u.store.DeleteValue(store.KeyUserID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	colors.Success("Signed out")
	return nil
}
