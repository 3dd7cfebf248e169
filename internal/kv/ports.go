package kv

import "context"

// Keys used by the record store. Each value is a JSON document.
const (
	KeyInvoices        = "invoices"
	KeyReceipts        = "receipts"
	KeyBusinessInfo    = "businessInfo"
	KeyPaymentData     = "paymentData"
	KeyUserData        = "userData"
	KeyProfilePhoto    = "profilePhoto"
	KeyIsAuthenticated = "isAuthenticated"
)

// Ports for storage backends.
type (
	// Store is a flat string key-value store. Get reports found=false for a
	// missing key instead of an error.
	Store interface {
		Get(ctx context.Context, key string) (value string, found bool, err error)
		Set(ctx context.Context, key, value string) error
		Delete(ctx context.Context, key string) error
	}

	// Pinger is implemented by backends that can report readiness.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)

// Keys lists every key the application reads or writes.
func Keys() []string {
	return []string{
		KeyInvoices, KeyReceipts, KeyBusinessInfo, KeyPaymentData,
		KeyUserData, KeyProfilePhoto, KeyIsAuthenticated,
	}
}
