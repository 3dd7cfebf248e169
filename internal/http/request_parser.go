package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"nota/internal/core"
)

// maxBodyBytes bounds request bodies. Profile photos arrive as data URLs.
const maxBodyBytes = 5 << 20

// RequestBodyParser reads a JSON or form-encoded body once and serves
// field lookups from whichever shape it found.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]json.RawMessage
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the request body and stores it for parsing.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse decodes the body as JSON when it looks like an object, otherwise as
// form values.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	body := strings.TrimSpace(string(p.body))
	if body == "" {
		p.formData = url.Values{}
		return nil
	}

	if body[0] == '{' || strings.HasPrefix(p.contentType, "application/json") {
		p.jsonData = make(map[string]json.RawMessage)
		if err := json.Unmarshal([]byte(body), &p.jsonData); err != nil {
			p.jsonData = nil
			p.err = fmt.Errorf("decode json body: %w", err)
			return p.err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(body)
	return p.err
}

// Get returns a trimmed, sanitized string value. JSON numbers and booleans
// are rendered as text.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		raw, ok := p.jsonData[key]
		if !ok {
			return ""
		}
		return sanitizeInput(stringValue(raw))
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// Decode unmarshals the value under key into dst. In form bodies the value
// must itself be a JSON document. Missing or null values leave dst untouched
// and report false.
func (p *RequestBodyParser) Decode(key string, dst any) (bool, error) {
	var raw []byte
	switch {
	case p.jsonData != nil:
		v, ok := p.jsonData[key]
		if !ok || string(v) == "null" {
			return false, nil
		}
		raw = v
	case p.formData != nil:
		v := strings.TrimSpace(p.formData.Get(key))
		if v == "" {
			return false, nil
		}
		raw = []byte(v)
	default:
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// FormInput collects the record creation fields. dateField names the date
// key ("dueDate" or "receiptDate"); "date" is accepted as a fallback.
// Without a paymentDetails object, flat bank or wallet fields are used.
func (p *RequestBodyParser) FormInput(dateField string) (core.FormInput, error) {
	in := core.FormInput{
		Client:        p.Get(core.FieldClient),
		Description:   p.Get(core.FieldDescription),
		Amount:        p.Get(core.FieldAmount),
		Date:          p.Get(dateField),
		PaymentMethod: p.Get(core.FieldPaymentMethod),
	}
	if in.Date == "" {
		in.Date = p.Get("date")
	}

	var details core.PaymentDetails
	found, err := p.Decode(core.FieldPaymentDetails, &details)
	if err != nil {
		return core.FormInput{}, err
	}
	if found {
		in.PaymentDetails = &details
		return in, nil
	}
	in.PaymentDetails = p.flatDetails(core.PaymentMethod(in.PaymentMethod))
	return in, nil
}

func (p *RequestBodyParser) flatDetails(method core.PaymentMethod) *core.PaymentDetails {
	switch method {
	case core.MethodTransfer:
		bank := core.BankDetails{
			BankName:      p.Get("bankName"),
			AccountNumber: p.Get("accountNumber"),
			AccountHolder: p.Get("accountHolder"),
		}
		if bank == (core.BankDetails{}) {
			return nil
		}
		return &core.PaymentDetails{Bank: &bank}
	case core.MethodEWallet:
		wallet := core.WalletDetails{
			Provider:    p.Get("provider"),
			PhoneNumber: p.Get("phoneNumber"),
			AccountName: p.Get("accountName"),
		}
		if wallet == (core.WalletDetails{}) {
			return nil
		}
		return &core.PaymentDetails{Wallet: &wallet}
	}
	return nil
}
