package core

import (
	"sort"
	"strings"
)

// Form field names used as keys in ValidationErrors.
const (
	FieldClient         = "client"
	FieldDescription    = "description"
	FieldAmount         = "amount"
	FieldDueDate        = "dueDate"
	FieldReceiptDate    = "receiptDate"
	FieldPaymentMethod  = "paymentMethod"
	FieldPaymentDetails = "paymentDetails"
	FieldBusinessName   = "businessName"
	FieldEmail          = "email"
	FieldName           = "name"
	FieldPassword       = "password"
	FieldPhoto          = "photo"
	FieldMethod         = "method"
)

const (
	maxClientLength      = 120
	maxDescriptionLength = 500
	minPasswordLength    = 8
)

// ValidationErrors maps a form field to a message shown next to it.
// A non-empty value blocks submission.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + v[f]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has a message.
func (v ValidationErrors) Add(field, msg string) {
	if _, ok := v[field]; !ok {
		v[field] = msg
	}
}

// Err returns nil when there are no messages.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// FormInput holds raw creation-form values as typed by the user.
// Date is the due date for requests and the receipt date for receipts.
type FormInput struct {
	Client         string
	Description    string
	Amount         string
	Date           string
	PaymentMethod  string
	PaymentDetails *PaymentDetails
}

// RequestDraft is a validated, normalized payment request without identity.
type RequestDraft struct {
	Client         string
	Description    string
	Amount         Amount
	DueDate        string
	PaymentMethod  PaymentMethod
	PaymentDetails *PaymentDetails
}

// ReceiptDraft is a validated, normalized receipt without identity.
type ReceiptDraft struct {
	Client         string
	Description    string
	Amount         Amount
	ReceiptDate    string
	PaymentMethod  PaymentMethod
	PaymentDetails *PaymentDetails
}

type normalizedForm struct {
	client      string
	description string
	amount      Amount
	date        string
	method      PaymentMethod
	details     *PaymentDetails
}

// ValidateRequest validates a payment-request form.
func ValidateRequest(in FormInput) (RequestDraft, error) {
	n, errs := validateForm(in, FieldDueDate, "Tenggat waktu wajib diisi")
	if err := errs.Err(); err != nil {
		return RequestDraft{}, err
	}
	return RequestDraft{
		Client:         n.client,
		Description:    n.description,
		Amount:         n.amount,
		DueDate:        n.date,
		PaymentMethod:  n.method,
		PaymentDetails: n.details,
	}, nil
}

// ValidateReceipt validates a payment-receipt form.
func ValidateReceipt(in FormInput) (ReceiptDraft, error) {
	n, errs := validateForm(in, FieldReceiptDate, "Tanggal penerimaan wajib diisi")
	if err := errs.Err(); err != nil {
		return ReceiptDraft{}, err
	}
	return ReceiptDraft{
		Client:         n.client,
		Description:    n.description,
		Amount:         n.amount,
		ReceiptDate:    n.date,
		PaymentMethod:  n.method,
		PaymentDetails: n.details,
	}, nil
}

func validateForm(in FormInput, dateField, dateRequired string) (normalizedForm, ValidationErrors) {
	errs := ValidationErrors{}
	var n normalizedForm

	n.client = strings.TrimSpace(in.Client)
	switch {
	case n.client == "":
		errs.Add(FieldClient, "Nama klien wajib diisi")
	case len(n.client) > maxClientLength:
		errs.Add(FieldClient, "Nama klien terlalu panjang")
	}

	n.description = strings.TrimSpace(in.Description)
	switch {
	case n.description == "":
		errs.Add(FieldDescription, "Deskripsi wajib diisi")
	case len(n.description) > maxDescriptionLength:
		errs.Add(FieldDescription, "Deskripsi terlalu panjang")
	}

	if strings.TrimSpace(in.Amount) == "" {
		errs.Add(FieldAmount, "Jumlah wajib diisi")
	} else if isNegativeInput(in.Amount) {
		errs.Add(FieldAmount, "Jumlah harus lebih dari nol")
	} else if len(strings.TrimLeft(digitsOnly(in.Amount), "0")) > maxAmountDigits {
		errs.Add(FieldAmount, "Jumlah terlalu besar")
	} else if v, err := ParseAmount(in.Amount); err != nil {
		errs.Add(FieldAmount, "Jumlah harus berupa angka")
	} else if v <= 0 {
		errs.Add(FieldAmount, "Jumlah harus lebih dari nol")
	} else {
		n.amount = FormatAmount(v)
	}

	if strings.TrimSpace(in.Date) == "" {
		errs.Add(dateField, dateRequired)
	} else if d, err := NormalizeDate(in.Date); err != nil {
		errs.Add(dateField, "Format tanggal tidak valid")
	} else {
		n.date = d
	}

	n.method = PaymentMethod(strings.TrimSpace(in.PaymentMethod))
	switch {
	case n.method == "":
		errs.Add(FieldPaymentMethod, "Metode pembayaran wajib dipilih")
	case !n.method.IsValid():
		errs.Add(FieldPaymentMethod, "Metode pembayaran tidak dikenal")
	case !in.PaymentDetails.MatchesMethod(n.method):
		errs.Add(FieldPaymentDetails, "Detail pembayaran tidak sesuai dengan metode")
	case !in.PaymentDetails.IsEmpty():
		n.details = in.PaymentDetails
	}

	return n, errs
}

// isNegativeInput reports a leading minus sign, with or without the "Rp" prefix.
func isNegativeInput(raw string) bool {
	s := strings.TrimSpace(raw)
	s = strings.TrimSpace(strings.TrimPrefix(s, strings.TrimSpace(AmountPrefix)))
	return strings.HasPrefix(s, "-")
}

// ValidateBusinessInfo trims the fields and requires a business name.
func ValidateBusinessInfo(info BusinessInfo) (BusinessInfo, error) {
	errs := ValidationErrors{}
	info.BusinessName = strings.TrimSpace(info.BusinessName)
	info.Address = strings.TrimSpace(info.Address)
	info.Email = strings.TrimSpace(info.Email)
	info.Phone = strings.TrimSpace(info.Phone)
	if info.BusinessName == "" {
		errs.Add(FieldBusinessName, "Nama bisnis wajib diisi")
	}
	if info.Email != "" && !looksLikeEmail(info.Email) {
		errs.Add(FieldEmail, "Email tidak valid")
	}
	return info, errs.Err()
}

// ValidatePaymentData checks the saved payment method and its details.
func ValidatePaymentData(pd PaymentData) (PaymentData, error) {
	errs := ValidationErrors{}
	pd.Method = PaymentMethod(strings.TrimSpace(string(pd.Method)))
	pd.BankOption = strings.TrimSpace(pd.BankOption)
	pd.WalletOption = strings.TrimSpace(pd.WalletOption)
	switch {
	case pd.Method == "":
		errs.Add(FieldMethod, "Metode pembayaran wajib dipilih")
	case !pd.Method.IsValid():
		errs.Add(FieldMethod, "Metode pembayaran tidak dikenal")
	case !pd.Details.MatchesMethod(pd.Method):
		errs.Add(FieldPaymentDetails, "Detail pembayaran tidak sesuai dengan metode")
	}
	return pd, errs.Err()
}

// ValidateProfilePhoto accepts image data URLs only.
func ValidateProfilePhoto(dataURL string) error {
	if !strings.HasPrefix(dataURL, "data:image/") || !strings.Contains(dataURL, ",") {
		return ValidationErrors{FieldPhoto: "Foto harus berupa gambar"}
	}
	return nil
}

// ValidateSignup checks the registration form.
func ValidateSignup(name, email, password string) error {
	errs := ValidationErrors{}
	if strings.TrimSpace(name) == "" {
		errs.Add(FieldName, "Nama wajib diisi")
	}
	validateCredentials(errs, email, password)
	if len(password) > 0 && len(password) < minPasswordLength {
		errs.Add(FieldPassword, "Password harus memiliki minimal 8 karakter")
	}
	return errs.Err()
}

// ValidateLogin checks the login form. Any well-formed pair is accepted.
func ValidateLogin(email, password string) error {
	errs := ValidationErrors{}
	validateCredentials(errs, email, password)
	return errs.Err()
}

func validateCredentials(errs ValidationErrors, email, password string) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add(FieldEmail, "Email wajib diisi")
	} else if !looksLikeEmail(email) {
		errs.Add(FieldEmail, "Email tidak valid")
	}
	if password == "" {
		errs.Add(FieldPassword, "Password wajib diisi")
	}
}

func looksLikeEmail(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " \t")
}
