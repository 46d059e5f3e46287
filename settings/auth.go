package settings

import (
	"crypto/subtle"
	"errors"
	"sync"
)

var (
	ErrWrongPassword          = errors.New("current password is incorrect")
	ErrInvalidConfirmationKey = errors.New("invalid confirmation key")
)

// Auth holds the single shared admin credential. The active password lives
// here, loaded from the persisted config at construction and mutated in place
// on change, so nothing else in the process carries credential state.
type Auth struct {
	mu              sync.Mutex
	password        string
	confirmationKey string
	settings        *Service
}

func NewAuth(settings *Service, confirmationKey string) (*Auth, error) {
	cfg, err := settings.Get()
	if err != nil {
		return nil, err
	}
	return &Auth{
		password:        cfg.Password,
		confirmationKey: confirmationKey,
		settings:        settings,
	}, nil
}

// Verify reports whether candidate matches the active password, in constant
// time.
func (a *Auth) Verify(candidate string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(a.password)) == 1
}

// Change swaps the active password after checking the confirmation key and
// the old password, and persists the new one to the config file.
func (a *Auth) Change(oldPass, newPass, passKey string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if subtle.ConstantTimeCompare([]byte(passKey), []byte(a.confirmationKey)) != 1 {
		return ErrInvalidConfirmationKey
	}
	if subtle.ConstantTimeCompare([]byte(oldPass), []byte(a.password)) != 1 {
		return ErrWrongPassword
	}

	if err := a.settings.SetPassword(newPass); err != nil {
		return err
	}
	a.password = newPass
	return nil
}
