package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/urfave/cli"

	"nota/internal/backend"
	appcli "nota/internal/cli"
	"nota/internal/config"
	"nota/internal/core"
	"nota/internal/kv/memory"
	"nota/internal/log"
)

func testApp(t *testing.T) func(args ...string) (string, error) {
	t.Helper()
	prev := cli.OsExiter
	cli.OsExiter = func(int) {}
	t.Cleanup(func() { cli.OsExiter = prev })

	logger := log.New(log.Config{Level: slog.LevelError, Output: &bytes.Buffer{}})
	store := memory.New()
	cfg := &config.Config{SummaryCacheSize: 4}
	open := func(ctx context.Context) (*appcli.Services, func() error, error) {
		return appcli.NewServices(&backend.BackendResult{Store: store}, cfg, nil, logger), nil, nil
	}

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		app := newApp(context.Background(), open, &out, logger)
		app.ErrWriter = &bytes.Buffer{}
		err := app.Run(append([]string{"notactl"}, args...))
		return out.String(), err
	}
	return run
}

func TestInvoiceCommands(t *testing.T) {
	run := testApp(t)

	out, err := run("invoice", "create",
		"--client", "PT Maju Jaya",
		"--description", "Jasa Desain Website",
		"--amount", "2500000",
		"--due", "2099-04-30",
		"--bank-name", "Bank ABC", "--account-number", "1234567890")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	var req core.PaymentRequest
	if err := json.Unmarshal([]byte(out), &req); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if req.Amount != "Rp 2.500.000" || req.PaymentDetails == nil || req.PaymentDetails.Bank.BankName != "Bank ABC" {
		t.Fatalf("unexpected invoice: %+v", req)
	}

	out, err = run("invoice", "list", "--q", "maju")
	if err != nil || !strings.Contains(out, "PT Maju Jaya") || !strings.Contains(out, "Menunggu") {
		t.Fatalf("list output %q err=%v", out, err)
	}

	id := strconv.FormatInt(req.ID, 10)
	out, err = run("invoice", "pay", id)
	if err != nil || !strings.Contains(out, `"status": "paid"`) {
		t.Fatalf("pay output %q err=%v", out, err)
	}

	if _, err := run("invoice", "show", "abc"); err == nil {
		t.Fatalf("non numeric id should fail")
	}
	if _, err := run("invoice", "show", "99"); err == nil {
		t.Fatalf("missing invoice should fail")
	}
}

func TestCreateValidationFailure(t *testing.T) {
	run := testApp(t)
	_, err := run("receipt", "create", "--client", "", "--amount", "0", "--method", "cash")
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "client") {
		t.Fatalf("error should name the field: %v", err)
	}
}

func TestSeedAndDashboard(t *testing.T) {
	run := testApp(t)

	out, err := run("seed")
	if err != nil || !strings.Contains(out, "seeded 4 invoices and 4 receipts") {
		t.Fatalf("seed output %q err=%v", out, err)
	}
	if _, err := run("seed"); err == nil {
		t.Fatalf("second demo seed should refuse a non-empty store")
	}
	out, err = run("seed", "--random", "3", "--seed", "1")
	if err != nil || !strings.Contains(out, "seeded 3 invoices and 3 receipts") {
		t.Fatalf("random seed output %q err=%v", out, err)
	}

	out, err = run("dashboard")
	if err != nil || !strings.Contains(out, "Belum dibayar") {
		t.Fatalf("dashboard output %q err=%v", out, err)
	}

	out, err = run("receipt", "list", "--q", "logo")
	if err != nil || !strings.Contains(out, "CV Prima Utama") {
		t.Fatalf("receipt list output %q err=%v", out, err)
	}
}

func TestAmountNormalize(t *testing.T) {
	run := testApp(t)
	out, err := run("amount", "normalize", "1500000")
	if err != nil || strings.TrimSpace(out) != "Rp 1.500.000" {
		t.Fatalf("normalize output %q err=%v", out, err)
	}
}

func TestAmountFormat(t *testing.T) {
	run := testApp(t)
	tests := []struct {
		in   string
		want string
	}{
		{"2500000", "Rp 2.500.000"},
		{"Rp 1.000", "Rp 1.000"},
		{"abc", "Rp"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			out, err := run("amount", "format", tt.in)
			if err != nil || strings.TrimSpace(out) != tt.want {
				t.Fatalf("format %q = %q err=%v, want %q", tt.in, out, err, tt.want)
			}
		})
	}
}
