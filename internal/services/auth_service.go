package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nota/internal/core"
	"nota/internal/log"
	"nota/internal/notify"
	"nota/internal/records"
)

// AuthService keeps a single local session flag. Credentials are checked for
// shape only and passwords are never stored.
type AuthService struct {
	store    *records.Store
	notifier notify.Notifier
	logger   *log.Logger
	now      func() time.Time
}

func NewAuthService(store *records.Store, notifier notify.Notifier, logger *log.Logger) *AuthService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &AuthService{
		store:    store,
		notifier: notifier,
		logger:   logger.WithComponent(log.ComponentAuth),
		now:      time.Now,
	}
}

// Signup stores the user profile and sets the session flag.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (core.UserData, error) {
	if err := core.ValidateSignup(name, email, password); err != nil {
		return core.UserData{}, err
	}
	now := s.now()
	user := core.UserData{
		Name:         strings.TrimSpace(name),
		Email:        strings.TrimSpace(email),
		RegisteredAt: now.UTC().Format(time.RFC3339),
	}
	if err := s.store.SaveUserData(ctx, user); err != nil {
		return core.UserData{}, fmt.Errorf("save user: %w", err)
	}
	if err := s.store.SetAuthenticated(ctx); err != nil {
		return core.UserData{}, err
	}

	s.logger.InfoContext(ctx, "User signed up", "email", user.Email)
	sendNotification(ctx, s.notifier, s.logger, notify.Notification{
		Title: notify.TitleSignedUp, Description: "Selamat bergabung!",
		Severity: notify.SeveritySuccess, Timestamp: now,
	})
	return user, nil
}

// Login accepts any well-formed email and non-empty password.
func (s *AuthService) Login(ctx context.Context, email, password string) error {
	if err := core.ValidateLogin(email, password); err != nil {
		return err
	}
	if err := s.store.SetAuthenticated(ctx); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "User logged in", "email", strings.TrimSpace(email))
	sendNotification(ctx, s.notifier, s.logger, notify.Notification{
		Title: notify.TitleLoggedIn, Description: "Selamat datang kembali!",
		Severity: notify.SeveritySuccess, Timestamp: s.now(),
	})
	return nil
}

// Logout clears the session flag. Stored records and profile are kept.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.store.ClearAuthenticated(ctx); err != nil {
		return err
	}
	sendNotification(ctx, s.notifier, s.logger, notify.Notification{
		Title: notify.TitleLoggedOut, Description: "Anda telah keluar dari akun",
		Severity: notify.SeverityInfo, Timestamp: s.now(),
	})
	return nil
}

func (s *AuthService) IsAuthenticated(ctx context.Context) (bool, error) {
	return s.store.Authenticated(ctx)
}
