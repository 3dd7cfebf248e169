package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusWaiting Status = "waiting"
	StatusOverdue Status = "overdue"
	StatusPaid    Status = "paid"
)

const (
	MethodTransfer PaymentMethod = "transfer"
	MethodCash     PaymentMethod = "cash"
	MethodEWallet  PaymentMethod = "ewallet"
	MethodOther    PaymentMethod = "other"
)

const (
	KindRequest RecordKind = "request"
	KindReceipt RecordKind = "receipt"
)

// ReceiptLabel is the status label shown for every receipt.
const ReceiptLabel = "Lunas"

const (
	isoDateLayout    = "2006-01-02"
	localeDateLayout = "02/01/2006"
)

type (
	Status        string
	PaymentMethod string
	RecordKind    string

	BankDetails struct {
		BankName      string `json:"bankName"`
		AccountNumber string `json:"accountNumber"`
		AccountHolder string `json:"accountHolder"`
	}

	WalletDetails struct {
		Provider    string `json:"provider"`
		PhoneNumber string `json:"phoneNumber"`
		AccountName string `json:"accountName"`
	}

	// PaymentDetails carries exactly one of Bank or Wallet.
	PaymentDetails struct {
		Bank   *BankDetails   `json:"bank,omitempty"`
		Wallet *WalletDetails `json:"wallet,omitempty"`
	}

	RecordBase struct {
		ID             int64           `json:"id"`
		Client         string          `json:"client"`
		Description    string          `json:"description"`
		Amount         Amount          `json:"amount"`
		PaymentMethod  PaymentMethod   `json:"paymentMethod"`
		PaymentDetails *PaymentDetails `json:"paymentDetails"`
		IssuedDate     string          `json:"issuedDate"`
	}

	// PaymentRequest is an invoice: money owed by a client.
	PaymentRequest struct {
		RecordBase
		DueDate  string `json:"dueDate"`
		Status   Status `json:"status"`
		PaidDate string `json:"paidDate,omitempty"`
	}

	// PaymentReceipt is money already received. It is always paid.
	PaymentReceipt struct {
		RecordBase
		ReceiptDate string `json:"receiptDate"`
	}

	BusinessInfo struct {
		BusinessName string `json:"businessName"`
		Address      string `json:"address"`
		Email        string `json:"email"`
		Phone        string `json:"phone"`
	}

	// PaymentData is the saved default payment method shown on the profile page.
	PaymentData struct {
		Method       PaymentMethod   `json:"method"`
		BankOption   string          `json:"bankOption"`
		WalletOption string          `json:"walletOption"`
		Details      *PaymentDetails `json:"details"`
	}

	UserData struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		RegisteredAt string `json:"registeredAt"`
	}
)

// Record is the common view over both record kinds.
type Record interface {
	Kind() RecordKind
	Base() RecordBase
	StatusLabel() string
	ActivityDate() string
}

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrInvalidMethod  = errors.New("invalid payment method")
	ErrRecordNotFound = errors.New("record not found")
)

func (s Status) IsValid() bool {
	switch s {
	case StatusWaiting, StatusOverdue, StatusPaid:
		return true
	}
	return false
}

// Label returns the display text of the status.
func (s Status) Label() string {
	switch s {
	case StatusWaiting:
		return "Menunggu"
	case StatusOverdue:
		return "Jatuh Tempo"
	case StatusPaid:
		return "Dibayar"
	default:
		return string(s)
	}
}

func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodTransfer, MethodCash, MethodEWallet, MethodOther:
		return true
	}
	return false
}

func (m PaymentMethod) Label() string {
	switch m {
	case MethodTransfer:
		return "Transfer Bank"
	case MethodCash:
		return "Tunai"
	case MethodEWallet:
		return "E-wallet"
	case MethodOther:
		return "Lainnya"
	default:
		return string(m)
	}
}

// PaymentMethods lists the accepted methods in display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{MethodTransfer, MethodCash, MethodEWallet, MethodOther}
}

// IsEmpty reports whether neither sub-record is set. Empty details are
// treated as absent.
func (d *PaymentDetails) IsEmpty() bool {
	return d == nil || (d.Bank == nil && d.Wallet == nil)
}

// MatchesMethod reports whether the details fit the given method.
// Absent or empty details always match.
func (d *PaymentDetails) MatchesMethod(m PaymentMethod) bool {
	if d.IsEmpty() {
		return true
	}
	switch m {
	case MethodTransfer:
		return d.Bank != nil && d.Wallet == nil
	case MethodEWallet:
		return d.Wallet != nil && d.Bank == nil
	default:
		return false
	}
}

func (r PaymentRequest) Kind() RecordKind     { return KindRequest }
func (r PaymentRequest) Base() RecordBase     { return r.RecordBase }
func (r PaymentRequest) StatusLabel() string  { return r.Status.Label() }
func (r PaymentRequest) ActivityDate() string { return r.IssuedDate }

func (r PaymentReceipt) Kind() RecordKind     { return KindReceipt }
func (r PaymentReceipt) Base() RecordBase     { return r.RecordBase }
func (r PaymentReceipt) StatusLabel() string  { return ReceiptLabel }
func (r PaymentReceipt) ActivityDate() string { return r.ReceiptDate }

// IsPaid reports whether the request counts toward received totals.
func (r PaymentRequest) IsPaid() bool {
	return r.Status == StatusPaid
}

// ParseDate accepts ISO (2006-01-02), the id-ID locale form (02/01/2006)
// and RFC 3339 timestamps. The result is midnight UTC of that calendar day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range []string{isoDateLayout, localeDateLayout, "2/1/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, ErrInvalidDate
}

// NormalizeDate rewrites any accepted date form as ISO.
func NormalizeDate(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return t.Format(isoDateLayout), nil
}

// FormatISODate renders t's calendar day in ISO form.
func FormatISODate(t time.Time) string {
	return t.Format(isoDateLayout)
}

// FormatLocaleDate renders t's calendar day the way the id-ID locale does.
func FormatLocaleDate(t time.Time) string {
	return t.Format(localeDateLayout)
}

// CalendarDay truncates t to midnight UTC of its local calendar day.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
