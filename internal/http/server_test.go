package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"nota/internal/core"
	"nota/internal/kv/memory"
	"nota/internal/log"
	"nota/internal/notify"
	"nota/internal/records"
	"nota/internal/services"
)

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("disk gone") }

type envelope struct {
	Data   json.RawMessage   `json:"data"`
	Error  string            `json:"error"`
	Errors map[string]string `json:"errors"`
}

func newTestServer(t *testing.T, writeLimit int) *Server {
	t.Helper()
	logger := log.New(log.Config{Level: slog.LevelError, Output: &bytes.Buffer{}})
	backend := memory.New()
	store := records.NewStore(backend)
	now := time.Date(2025, 4, 20, 10, 0, 0, 0, time.UTC)

	srv := NewServer(":0", Dependencies{
		Records: services.NewRecordService(store,
			services.WithClock(func() time.Time { return now }),
			services.WithNotifier(notify.Discard),
			services.WithLogger(logger),
		),
		Profile:    services.NewProfileService(store, notify.Discard, logger),
		Auth:       services.NewAuthService(store, notify.Discard, logger),
		Ready:      backend,
		Logger:     logger,
		WriteLimit: writeLimit,
	})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func do(t *testing.T, srv *Server, method, path, contentType, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)

	var env envelope
	if ct := rr.Header().Get("Content-Type"); strings.HasPrefix(ct, "application/json") {
		if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode body %q: %v", method, path, rr.Body.String(), err)
		}
	}
	return rr, env
}

func login(t *testing.T, srv *Server) {
	t.Helper()
	rr, _ := do(t, srv, http.MethodPost, "/api/auth/signup", "application/json",
		`{"name":"John Doe","email":"john@example.com","password":"rahasia123"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("signup status=%d body=%s", rr.Code, rr.Body.String())
	}
}

const invoiceJSON = `{
	"client": "PT Maju Jaya",
	"description": "Jasa Desain Website",
	"amount": "5000000",
	"dueDate": "30/04/2025",
	"paymentMethod": "transfer",
	"paymentDetails": {"bank": {"bankName": "Bank ABC", "accountNumber": "1234567890", "accountHolder": "John Doe"}}
}`

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, 0)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr, _ := do(t, srv, http.MethodGet, path, "", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}

	srv.ready = failingPinger{}
	rr, env := do(t, srv, http.MethodGet, "/readyz", "", "")
	if rr.Code != http.StatusServiceUnavailable || env.Error == "" {
		t.Fatalf("readyz with failing storage: status=%d env=%+v", rr.Code, env)
	}
}

func TestUnknownRouteAndAuthGuard(t *testing.T) {
	srv := newTestServer(t, 0)

	rr, env := do(t, srv, http.MethodGet, "/tidak-ada", "", "")
	if rr.Code != http.StatusNotFound || env.Error != "not found" {
		t.Fatalf("unknown route: status=%d env=%+v", rr.Code, env)
	}

	rr, env = do(t, srv, http.MethodGet, "/api/invoices", "", "")
	if rr.Code != http.StatusUnauthorized || env.Error != "unauthorized" {
		t.Fatalf("guarded route: status=%d env=%+v", rr.Code, env)
	}

	rr, env = do(t, srv, http.MethodGet, "/api/auth/status", "", "")
	if rr.Code != http.StatusOK || string(env.Data) != `{"authenticated":false}` {
		t.Fatalf("status before login: %d %s", rr.Code, env.Data)
	}
}

func TestResponseCarriesRequestIDAndSecurityHeaders(t *testing.T) {
	srv := newTestServer(t, 0)
	rr, _ := do(t, srv, http.MethodGet, "/healthz", "", "")
	if rr.Header().Get(requestIDHeader) == "" {
		t.Fatalf("missing request id header")
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing security headers")
	}
}

func TestInvoiceLifecycle(t *testing.T) {
	srv := newTestServer(t, 0)
	login(t, srv)

	rr, env := do(t, srv, http.MethodPost, "/api/invoices", "application/json", invoiceJSON)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}
	var created core.PaymentRequest
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.Amount != "Rp 5.000.000" || created.DueDate != "2025-04-30" || created.Status != core.StatusWaiting {
		t.Fatalf("unexpected invoice: %+v", created)
	}
	if created.PaymentDetails == nil || created.PaymentDetails.Bank == nil {
		t.Fatalf("bank details lost: %+v", created.PaymentDetails)
	}

	rr, env = do(t, srv, http.MethodGet, "/api/invoices?q=maju&status=waiting", "", "")
	var list []core.PaymentRequest
	if err := json.Unmarshal(env.Data, &list); err != nil || rr.Code != http.StatusOK {
		t.Fatalf("list status=%d err=%v", rr.Code, err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("unexpected list: %+v", list)
	}

	path := fmt.Sprintf("/api/invoices/%d", created.ID)
	if rr, _ := do(t, srv, http.MethodGet, path, "", ""); rr.Code != http.StatusOK {
		t.Fatalf("get status=%d", rr.Code)
	}

	rr, env = do(t, srv, http.MethodPost, path+"/pay", "", "")
	var paid core.PaymentRequest
	if err := json.Unmarshal(env.Data, &paid); err != nil || rr.Code != http.StatusOK {
		t.Fatalf("pay status=%d err=%v", rr.Code, err)
	}
	if paid.Status != core.StatusPaid || paid.PaidDate != "2025-04-20" {
		t.Fatalf("unexpected paid invoice: %+v", paid)
	}

	rr, env = do(t, srv, http.MethodGet, "/api/dashboard", "", "")
	var summary core.Summary
	if err := json.Unmarshal(env.Data, &summary); err != nil || rr.Code != http.StatusOK {
		t.Fatalf("dashboard status=%d err=%v", rr.Code, err)
	}
	if summary.PaidInvoiceCount != 1 || summary.TotalReceived != "Rp 5.000.000" || summary.TotalPending != "Rp 0" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestCreateInvoiceValidation(t *testing.T) {
	srv := newTestServer(t, 0)
	login(t, srv)

	rr, env := do(t, srv, http.MethodPost, "/api/invoices", "application/json",
		`{"client":"  ","description":"x","amount":"abc","dueDate":"30/04/2025","paymentMethod":"cash"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if env.Errors[core.FieldClient] == "" || env.Errors[core.FieldAmount] == "" {
		t.Fatalf("expected client and amount errors, got %v", env.Errors)
	}

	rr, env = do(t, srv, http.MethodPost, "/api/invoices", "application/json",
		`{"client":"PT Maju Jaya","description":"x","amount":-5000,"dueDate":"30/04/2025","paymentMethod":"cash"}`)
	if rr.Code != http.StatusUnprocessableEntity || env.Errors[core.FieldAmount] == "" {
		t.Fatalf("negative amount: status=%d errors=%v", rr.Code, env.Errors)
	}

	rr, env = do(t, srv, http.MethodGet, "/api/invoices", "", "")
	if rr.Code != http.StatusOK || string(env.Data) != "[]" {
		t.Fatalf("failed validation must not append: %s", env.Data)
	}

	rr, _ = do(t, srv, http.MethodPost, "/api/invoices", "application/json", `{"client":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("malformed json status=%d", rr.Code)
	}
}

func TestReceiptFromFormBody(t *testing.T) {
	srv := newTestServer(t, 0)
	login(t, srv)

	form := url.Values{
		"client":        {"Toko Bahagia"},
		"description":   {"Pembayaran Website E-commerce"},
		"amount":        {"Rp 3.500.000"},
		"receiptDate":   {"2025-04-18"},
		"paymentMethod": {"ewallet"},
		"provider":      {"OVO"},
		"phoneNumber":   {"081234567890"},
		"accountName":   {"Toko Bahagia"},
	}
	rr, env := do(t, srv, http.MethodPost, "/api/receipts", "application/x-www-form-urlencoded", form.Encode())
	if rr.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var rc core.PaymentReceipt
	if err := json.Unmarshal(env.Data, &rc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rc.PaymentDetails == nil || rc.PaymentDetails.Wallet == nil || rc.PaymentDetails.Wallet.Provider != "OVO" {
		t.Fatalf("wallet details not collected: %+v", rc.PaymentDetails)
	}

	rr, _ = do(t, srv, http.MethodGet, fmt.Sprintf("/api/receipts/%d", rc.ID), "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get receipt status=%d", rr.Code)
	}
}

func TestBadRequests(t *testing.T) {
	srv := newTestServer(t, 0)
	login(t, srv)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"non numeric id", http.MethodGet, "/api/invoices/abc", http.StatusBadRequest},
		{"missing invoice", http.MethodGet, "/api/invoices/42", http.StatusNotFound},
		{"missing receipt", http.MethodGet, "/api/receipts/42", http.StatusNotFound},
		{"pay missing invoice", http.MethodPost, "/api/invoices/42/pay", http.StatusNotFound},
		{"unknown status filter", http.MethodGet, "/api/invoices?status=lunas", http.StatusBadRequest},
		{"wrong method", http.MethodDelete, "/api/invoices", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, _ := do(t, srv, tt.method, tt.path, "", "")
			if rr.Code != tt.want {
				t.Fatalf("status=%d want %d body=%s", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestProfileEndpoints(t *testing.T) {
	srv := newTestServer(t, 0)
	login(t, srv)

	rr, env := do(t, srv, http.MethodGet, "/api/profile/business", "", "")
	if rr.Code != http.StatusOK || string(env.Data) != "null" {
		t.Fatalf("unsaved business info: %d %s", rr.Code, env.Data)
	}

	rr, _ = do(t, srv, http.MethodPut, "/api/profile/business", "application/json",
		`{"businessName":"John Doe Studio","address":"Jl. Sudirman No. 123","email":"contact@johndoestudio.com","phone":"+62 812-3456-7890"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("put business status=%d body=%s", rr.Code, rr.Body.String())
	}
	_, env = do(t, srv, http.MethodGet, "/api/profile/business", "", "")
	var info core.BusinessInfo
	if err := json.Unmarshal(env.Data, &info); err != nil || info.BusinessName != "John Doe Studio" {
		t.Fatalf("business info not saved: %+v err=%v", info, err)
	}

	rr, env = do(t, srv, http.MethodPut, "/api/profile/payment", "application/json",
		`{"method":"ewallet","details":{"bank":{"bankName":"BCA"}}}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("mismatched payment details status=%d env=%+v", rr.Code, env)
	}

	rr, _ = do(t, srv, http.MethodPut, "/api/profile/photo", "application/json", `{"photo":"https://example.com/me.png"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("non data url photo status=%d", rr.Code)
	}

	_, env = do(t, srv, http.MethodGet, "/api/profile/user", "", "")
	var user core.UserData
	if err := json.Unmarshal(env.Data, &user); err != nil || user.Email != "john@example.com" {
		t.Fatalf("unexpected user: %+v err=%v", user, err)
	}
}

func TestLogoutRevokesAccess(t *testing.T) {
	srv := newTestServer(t, 0)
	login(t, srv)

	if rr, _ := do(t, srv, http.MethodPost, "/api/auth/logout", "", ""); rr.Code != http.StatusOK {
		t.Fatalf("logout status=%d", rr.Code)
	}
	if rr, _ := do(t, srv, http.MethodGet, "/api/dashboard", "", ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("dashboard after logout status=%d", rr.Code)
	}
}

func TestNormalizeAmount(t *testing.T) {
	srv := newTestServer(t, 0)
	login(t, srv)

	rr, env := do(t, srv, http.MethodPost, "/api/amount/normalize", "application/json", `{"amount":"Rp 1.0000"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	var got struct {
		Amount string `json:"amount"`
		Value  int64  `json:"value"`
	}
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Amount != "Rp 10.000" || got.Value != 10000 {
		t.Fatalf("unexpected normalization: %+v", got)
	}
}

func TestWriteRateLimit(t *testing.T) {
	srv := newTestServer(t, 2)

	for i := 0; i < 2; i++ {
		rr, _ := do(t, srv, http.MethodPost, "/api/auth/logout", "", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d status=%d", i, rr.Code)
		}
	}
	rr, _ := do(t, srv, http.MethodPost, "/api/auth/logout", "", "")
	if rr.Code != http.StatusTooManyRequests || rr.Header().Get("Retry-After") != "60" {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
	if rr, _ := do(t, srv, http.MethodGet, "/healthz", "", ""); rr.Code != http.StatusOK {
		t.Fatalf("reads are not limited, got %d", rr.Code)
	}
}
