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

// ProfileService reads and overwrites the profile settings blobs.
type ProfileService struct {
	store    *records.Store
	notifier notify.Notifier
	logger   *log.Logger
	now      func() time.Time
}

func NewProfileService(store *records.Store, notifier notify.Notifier, logger *log.Logger) *ProfileService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ProfileService{
		store:    store,
		notifier: notifier,
		logger:   logger.WithComponent(log.ComponentProfile),
		now:      time.Now,
	}
}

// BusinessInfo returns found=false when nothing was saved or the stored value is unreadable.
func (s *ProfileService) BusinessInfo(ctx context.Context) (core.BusinessInfo, bool, error) {
	info, found, err := s.store.BusinessInfo(ctx)
	return info, found, s.readErr(ctx, err)
}

func (s *ProfileService) SaveBusinessInfo(ctx context.Context, info core.BusinessInfo) (core.BusinessInfo, error) {
	info, err := core.ValidateBusinessInfo(info)
	if err != nil {
		return core.BusinessInfo{}, err
	}
	if err := s.store.SaveBusinessInfo(ctx, info); err != nil {
		return core.BusinessInfo{}, fmt.Errorf("save business info: %w", err)
	}
	s.saved(ctx, "Informasi bisnis telah diperbarui")
	return info, nil
}

func (s *ProfileService) PaymentData(ctx context.Context) (core.PaymentData, bool, error) {
	pd, found, err := s.store.PaymentData(ctx)
	return pd, found, s.readErr(ctx, err)
}

func (s *ProfileService) SavePaymentData(ctx context.Context, pd core.PaymentData) (core.PaymentData, error) {
	pd, err := core.ValidatePaymentData(pd)
	if err != nil {
		return core.PaymentData{}, err
	}
	if err := s.store.SavePaymentData(ctx, pd); err != nil {
		return core.PaymentData{}, fmt.Errorf("save payment data: %w", err)
	}
	s.saved(ctx, "Data pembayaran telah diperbarui")
	return pd, nil
}

func (s *ProfileService) ProfilePhoto(ctx context.Context) (string, bool, error) {
	return s.store.ProfilePhoto(ctx)
}

func (s *ProfileService) SaveProfilePhoto(ctx context.Context, dataURL string) error {
	dataURL = strings.TrimSpace(dataURL)
	if err := core.ValidateProfilePhoto(dataURL); err != nil {
		return err
	}
	if err := s.store.SaveProfilePhoto(ctx, dataURL); err != nil {
		return fmt.Errorf("save profile photo: %w", err)
	}
	s.saved(ctx, "Foto profil telah diperbarui")
	return nil
}

func (s *ProfileService) UserData(ctx context.Context) (core.UserData, bool, error) {
	u, found, err := s.store.UserData(ctx)
	return u, found, s.readErr(ctx, err)
}

func (s *ProfileService) readErr(ctx context.Context, err error) error {
	if records.IsReadError(err) {
		s.logger.WarnContext(ctx, "Stored profile value is unreadable, treating as absent", log.FieldError, err)
		return nil
	}
	return err
}

func (s *ProfileService) saved(ctx context.Context, description string) {
	sendNotification(ctx, s.notifier, s.logger, notify.Notification{
		Title:       notify.TitleProfileSaved,
		Description: description,
		Severity:    notify.SeveritySuccess,
		Timestamp:   s.now(),
	})
}
