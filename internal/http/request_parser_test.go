package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"nota/internal/core"
)

func newParser(t *testing.T, contentType, body string) *RequestBodyParser {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	p := NewRequestBodyParser(httptest.NewRecorder(), req)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return p
}

func TestRequestBodyParserGet(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		key         string
		want        string
		wantJSON    bool
	}{
		{"json string", "application/json", `{"client":"  PT Maju Jaya "}`, "client", "PT Maju Jaya", true},
		{"json number", "application/json", `{"amount":1500000}`, "amount", "1500000", true},
		{"json missing key", "application/json", `{"amount":1}`, "client", "", true},
		{"json without content type", "", `{"client":"CV Sentosa"}`, "client", "CV Sentosa", true},
		{"form value", "application/x-www-form-urlencoded", "client=CV+Sentosa", "client", "CV Sentosa", false},
		{"control characters removed", "application/x-www-form-urlencoded", "client=A%00B", "client", "AB", false},
		{"empty body", "", "", "client", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newParser(t, tt.contentType, tt.body)
			if got := p.Get(tt.key); got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
			if p.IsJSON() != tt.wantJSON {
				t.Errorf("IsJSON() = %v, want %v", p.IsJSON(), tt.wantJSON)
			}
		})
	}
}

func TestRequestBodyParserInvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"client":`))
	p := NewRequestBodyParser(httptest.NewRecorder(), req)
	if err := p.Parse(); err == nil {
		t.Fatalf("expected error for truncated json")
	}
	if err := p.Parse(); err == nil {
		t.Fatalf("second Parse should return the same error")
	}
}

func TestFormInputDetails(t *testing.T) {
	t.Run("nested json details", func(t *testing.T) {
		p := newParser(t, "application/json",
			`{"client":"A","paymentMethod":"transfer","dueDate":"2025-04-30","paymentDetails":{"bank":{"bankName":"Bank ABC"}}}`)
		in, err := p.FormInput(core.FieldDueDate)
		if err != nil {
			t.Fatalf("FormInput() error = %v", err)
		}
		if in.Date != "2025-04-30" || in.PaymentDetails == nil || in.PaymentDetails.Bank.BankName != "Bank ABC" {
			t.Fatalf("unexpected input: %+v", in)
		}
	})

	t.Run("null details", func(t *testing.T) {
		p := newParser(t, "application/json", `{"paymentMethod":"cash","paymentDetails":null}`)
		in, err := p.FormInput(core.FieldDueDate)
		if err != nil || in.PaymentDetails != nil {
			t.Fatalf("expected no details, got %+v err=%v", in.PaymentDetails, err)
		}
	})

	t.Run("flat bank fields in form", func(t *testing.T) {
		form := url.Values{
			"paymentMethod": {"transfer"},
			"date":          {"30/04/2025"},
			"bankName":      {"Bank ABC"},
			"accountNumber": {"1234567890"},
		}
		p := newParser(t, "application/x-www-form-urlencoded", form.Encode())
		in, err := p.FormInput(core.FieldReceiptDate)
		if err != nil {
			t.Fatalf("FormInput() error = %v", err)
		}
		if in.Date != "30/04/2025" {
			t.Errorf("date fallback not used: %q", in.Date)
		}
		if in.PaymentDetails == nil || in.PaymentDetails.Bank == nil || in.PaymentDetails.Bank.AccountNumber != "1234567890" {
			t.Fatalf("flat bank fields not collected: %+v", in.PaymentDetails)
		}
	})

	t.Run("flat fields ignored for cash", func(t *testing.T) {
		p := newParser(t, "application/x-www-form-urlencoded", "paymentMethod=cash&bankName=BCA")
		in, _ := p.FormInput(core.FieldDueDate)
		if in.PaymentDetails != nil {
			t.Fatalf("cash should carry no details: %+v", in.PaymentDetails)
		}
	})

	t.Run("malformed details", func(t *testing.T) {
		p := newParser(t, "application/x-www-form-urlencoded", "paymentMethod=transfer&paymentDetails=%7Bbroken")
		if _, err := p.FormInput(core.FieldDueDate); err == nil {
			t.Fatalf("expected decode error")
		}
	})
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  hello  ", "hello"},
		{"tab\tkept", "tab\tkept"},
		{"bell\x07gone", "bellgone"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
