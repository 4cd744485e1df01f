package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/pkg/backend"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/util"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrNotSignedIn        = errors.New("not signed in")
	ErrSessionExpired     = errors.New("session expired")
	ErrAdminRequired      = errors.New("admin login required")
)

// AccountBackend is the part of the backend API that issues tokens.
type AccountBackend interface {
	Login(ctx context.Context, creds backend.Credentials) (*backend.AuthResponse, error)
	Signup(ctx context.Context, creds backend.Credentials) (*backend.AuthResponse, error)
	AdminLogin(ctx context.Context, creds backend.AdminCredentials) (*backend.AdminLoginResponse, error)
}

// Identity is a signed-in shopper.
type Identity struct {
	User  backend.User
	Token string
}

// AuthService keeps the identity of a session in the store. The cart is not
// tied to identity and survives login and logout.
type AuthService interface {
	Login(ctx context.Context, sessionID, email, password string) (*backend.User, error)
	Signup(ctx context.Context, sessionID, name, email, password string) (*backend.User, error)
	Logout(ctx context.Context, sessionID string) error
	// CurrentIdentity returns ErrNotSignedIn, or ErrSessionExpired after
	// dropping an expired token.
	CurrentIdentity(ctx context.Context, sessionID string) (*Identity, error)

	AdminLogin(ctx context.Context, sessionID, username, password string) error
	AdminLogout(ctx context.Context, sessionID string) error
	AdminToken(ctx context.Context, sessionID string) (string, error)
}

type authService struct {
	backend AccountBackend
	store   repository.Store
	now     func() time.Time
}

func NewAuthService(backend AccountBackend, store repository.Store) AuthService {
	return &authService{
		backend: backend,
		store:   store,
		now:     time.Now,
	}
}

func (s *authService) Login(ctx context.Context, sessionID, email, password string) (*backend.User, error) {
	logger.Info("Attempting login", map[string]interface{}{
		"session_id": sessionID,
		"email":      email,
	})

	resp, err := s.backend.Login(ctx, backend.Credentials{Email: email, Password: password})
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) || errors.Is(err, backend.ErrBadRequest) {
			logger.Warn("Login failed: invalid credentials", map[string]interface{}{
				"email": email,
			})
			return nil, ErrInvalidCredentials
		}
		logger.Error("Login request failed", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	if err := s.saveIdentity(ctx, sessionID, resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (s *authService) Signup(ctx context.Context, sessionID, name, email, password string) (*backend.User, error) {
	logger.Info("Attempting signup", map[string]interface{}{
		"session_id": sessionID,
		"email":      email,
	})

	resp, err := s.backend.Signup(ctx, backend.Credentials{Email: email, Password: password, Name: name})
	if err != nil {
		if errors.Is(err, backend.ErrBadRequest) {
			logger.Warn("Signup rejected", map[string]interface{}{
				"email":  email,
				"detail": backend.Detail(err),
			})
			return nil, ErrEmailAlreadyExists
		}
		logger.Error("Signup request failed", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	if err := s.saveIdentity(ctx, sessionID, resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (s *authService) saveIdentity(ctx context.Context, sessionID string, resp *backend.AuthResponse) error {
	userJSON, err := json.Marshal(resp.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.store.Write(ctx, model.TokenKey(sessionID), resp.Token); err != nil {
		logger.Error("Failed to store session token", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return err
	}
	if err := s.store.Write(ctx, model.UserKey(sessionID), string(userJSON)); err != nil {
		logger.Error("Failed to store session user", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return err
	}

	logger.Info("Session signed in", map[string]interface{}{
		"session_id": sessionID,
		"user_id":    resp.User.ID,
	})
	return nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, model.TokenKey(sessionID)); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, model.UserKey(sessionID)); err != nil {
		return err
	}
	logger.Info("Session signed out", map[string]interface{}{
		"session_id": sessionID,
	})
	return nil
}

func (s *authService) CurrentIdentity(ctx context.Context, sessionID string) (*Identity, error) {
	token, err := s.store.Read(ctx, model.TokenKey(sessionID))
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return nil, ErrNotSignedIn
		}
		return nil, err
	}

	if util.IsTokenExpired(token, s.now()) {
		logger.Info("Dropping expired session token", map[string]interface{}{
			"session_id": sessionID,
		})
		if err := s.Logout(ctx, sessionID); err != nil {
			logger.Warn("Failed to clear expired session", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
		return nil, ErrSessionExpired
	}

	raw, err := s.store.Read(ctx, model.UserKey(sessionID))
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return nil, ErrNotSignedIn
		}
		return nil, err
	}

	var user backend.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		// Same recovery as a malformed cart: forget it.
		logger.Debug("Discarding malformed session user", map[string]interface{}{
			"session_id": sessionID,
		})
		_ = s.Logout(ctx, sessionID)
		return nil, ErrNotSignedIn
	}
	return &Identity{User: user, Token: token}, nil
}

func (s *authService) AdminLogin(ctx context.Context, sessionID, username, password string) error {
	resp, err := s.backend.AdminLogin(ctx, backend.AdminCredentials{Username: username, Password: password})
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) || errors.Is(err, backend.ErrBadRequest) {
			logger.Warn("Admin login failed", map[string]interface{}{
				"username": username,
			})
			return ErrInvalidCredentials
		}
		logger.Error("Admin login request failed", err)
		return err
	}

	if err := s.store.Write(ctx, model.AdminTokenKey(sessionID), resp.Token); err != nil {
		logger.Error("Failed to store admin token", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return err
	}
	logger.Info("Admin signed in", map[string]interface{}{
		"session_id": sessionID,
		"username":   username,
	})
	return nil
}

func (s *authService) AdminLogout(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, model.AdminTokenKey(sessionID))
}

func (s *authService) AdminToken(ctx context.Context, sessionID string) (string, error) {
	token, err := s.store.Read(ctx, model.AdminTokenKey(sessionID))
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return "", ErrAdminRequired
		}
		return "", err
	}
	if util.IsTokenExpired(token, s.now()) {
		_ = s.AdminLogout(ctx, sessionID)
		return "", ErrAdminRequired
	}
	return token, nil
}
