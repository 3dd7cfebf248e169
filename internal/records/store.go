// Package records is the typed repository for payment requests, receipts,
// profile settings and the session flag, stored as JSON documents in a kv.Store.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"nota/internal/core"
	"nota/internal/kv"
)

// StorageReadError reports a value that exists but cannot be decoded.
type StorageReadError struct {
	Key string
	Err error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Key, e.Err)
}

func (e *StorageReadError) Unwrap() error { return e.Err }

// IsReadError reports whether err wraps a StorageReadError.
func IsReadError(err error) bool {
	var rerr *StorageReadError
	return errors.As(err, &rerr)
}

const authenticatedValue = "true"

// Store reads and writes records through a kv.Store.
// Collections are kept newest first.
type Store struct {
	kv kv.Store
}

func NewStore(s kv.Store) *Store {
	return &Store{kv: s}
}

// MaxID returns the largest id stored in either collection, or 0 when both
// are empty. An unreadable collection is skipped.
func (s *Store) MaxID(ctx context.Context) (int64, error) {
	var maxID int64
	reqs, err := s.LoadInvoices(ctx)
	if err != nil && !IsReadError(err) {
		return 0, err
	}
	for _, r := range reqs {
		maxID = max(maxID, r.ID)
	}
	rcs, err := s.LoadReceipts(ctx)
	if err != nil && !IsReadError(err) {
		return 0, err
	}
	for _, r := range rcs {
		maxID = max(maxID, r.ID)
	}
	return maxID, nil
}

func (s *Store) LoadInvoices(ctx context.Context) ([]core.PaymentRequest, error) {
	return loadList[core.PaymentRequest](ctx, s.kv, kv.KeyInvoices)
}

func (s *Store) SaveInvoices(ctx context.Context, reqs []core.PaymentRequest) error {
	return save(ctx, s.kv, kv.KeyInvoices, reqs)
}

// AppendInvoice prepends req and persists the whole sequence. A collection
// that cannot be read is never overwritten.
func (s *Store) AppendInvoice(ctx context.Context, req core.PaymentRequest) error {
	return prepend(ctx, s.kv, kv.KeyInvoices, req)
}

func (s *Store) LoadReceipts(ctx context.Context) ([]core.PaymentReceipt, error) {
	return loadList[core.PaymentReceipt](ctx, s.kv, kv.KeyReceipts)
}

func (s *Store) SaveReceipts(ctx context.Context, rcs []core.PaymentReceipt) error {
	return save(ctx, s.kv, kv.KeyReceipts, rcs)
}

func (s *Store) AppendReceipt(ctx context.Context, rc core.PaymentReceipt) error {
	return prepend(ctx, s.kv, kv.KeyReceipts, rc)
}

func (s *Store) BusinessInfo(ctx context.Context) (core.BusinessInfo, bool, error) {
	return loadValue[core.BusinessInfo](ctx, s.kv, kv.KeyBusinessInfo)
}

func (s *Store) SaveBusinessInfo(ctx context.Context, info core.BusinessInfo) error {
	return save(ctx, s.kv, kv.KeyBusinessInfo, info)
}

func (s *Store) PaymentData(ctx context.Context) (core.PaymentData, bool, error) {
	return loadValue[core.PaymentData](ctx, s.kv, kv.KeyPaymentData)
}

func (s *Store) SavePaymentData(ctx context.Context, pd core.PaymentData) error {
	return save(ctx, s.kv, kv.KeyPaymentData, pd)
}

func (s *Store) UserData(ctx context.Context) (core.UserData, bool, error) {
	return loadValue[core.UserData](ctx, s.kv, kv.KeyUserData)
}

func (s *Store) SaveUserData(ctx context.Context, u core.UserData) error {
	return save(ctx, s.kv, kv.KeyUserData, u)
}

// ProfilePhoto is stored raw, as a data URL string.
func (s *Store) ProfilePhoto(ctx context.Context) (string, bool, error) {
	v, found, err := s.kv.Get(ctx, kv.KeyProfilePhoto)
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", kv.KeyProfilePhoto, err)
	}
	return v, found, nil
}

func (s *Store) SaveProfilePhoto(ctx context.Context, dataURL string) error {
	if err := s.kv.Set(ctx, kv.KeyProfilePhoto, dataURL); err != nil {
		return fmt.Errorf("set %s: %w", kv.KeyProfilePhoto, err)
	}
	return nil
}

// Authenticated reports whether the session flag is set to "true".
func (s *Store) Authenticated(ctx context.Context) (bool, error) {
	v, found, err := s.kv.Get(ctx, kv.KeyIsAuthenticated)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", kv.KeyIsAuthenticated, err)
	}
	return found && v == authenticatedValue, nil
}

func (s *Store) SetAuthenticated(ctx context.Context) error {
	if err := s.kv.Set(ctx, kv.KeyIsAuthenticated, authenticatedValue); err != nil {
		return fmt.Errorf("set %s: %w", kv.KeyIsAuthenticated, err)
	}
	return nil
}

func (s *Store) ClearAuthenticated(ctx context.Context) error {
	if err := s.kv.Delete(ctx, kv.KeyIsAuthenticated); err != nil {
		return fmt.Errorf("delete %s: %w", kv.KeyIsAuthenticated, err)
	}
	return nil
}

func loadList[T any](ctx context.Context, s kv.Store, key string) ([]T, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	if !found || raw == "" {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, &StorageReadError{Key: key, Err: err}
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func loadValue[T any](ctx context.Context, s kv.Store, key string) (T, bool, error) {
	var v T
	raw, found, err := s.Get(ctx, key)
	if err != nil {
		return v, false, fmt.Errorf("get %s: %w", key, err)
	}
	if !found || raw == "" {
		return v, false, nil
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return v, false, &StorageReadError{Key: key, Err: err}
	}
	return v, true, nil
}

func save(ctx context.Context, s kv.Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func prepend[T any](ctx context.Context, s kv.Store, key string, item T) error {
	existing, err := loadList[T](ctx, s, key)
	if err != nil {
		return err
	}
	next := make([]T, 0, len(existing)+1)
	next = append(next, item)
	next = append(next, existing...)
	return save(ctx, s, key, next)
}
