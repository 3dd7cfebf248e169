package core

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		in string
		ok bool
	}{
		{"2025-04-30", true},
		{"30/04/2025", true},
		{"30/4/2025", true},
		{"2025-04-30T15:04:05+07:00", true},
		{"", false},
		{"besok", false},
		{"2025-13-01", false},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(want) {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, want, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestStatusAndMethodLabels(t *testing.T) {
	if StatusWaiting.Label() != "Menunggu" || StatusOverdue.Label() != "Jatuh Tempo" || StatusPaid.Label() != "Dibayar" {
		t.Fatalf("unexpected status labels")
	}
	if Status("weird").IsValid() {
		t.Fatalf("unknown status should be invalid")
	}
	for _, m := range PaymentMethods() {
		if !m.IsValid() || m.Label() == string(m) {
			t.Fatalf("method %q should be valid and labelled", m)
		}
	}
}

func TestPaymentDetailsMatchesMethod(t *testing.T) {
	bank := &PaymentDetails{Bank: &BankDetails{BankName: "BCA"}}
	wallet := &PaymentDetails{Wallet: &WalletDetails{Provider: "GoPay"}}
	var none *PaymentDetails

	cases := []struct {
		d    *PaymentDetails
		m    PaymentMethod
		want bool
	}{
		{none, MethodCash, true},
		{none, MethodTransfer, true},
		{bank, MethodTransfer, true},
		{bank, MethodEWallet, false},
		{wallet, MethodEWallet, true},
		{wallet, MethodTransfer, false},
		{bank, MethodCash, false},
		{&PaymentDetails{}, MethodTransfer, true},
		{&PaymentDetails{}, MethodCash, true},
		{&PaymentDetails{}, MethodOther, true},
	}
	for i, tc := range cases {
		if got := tc.d.MatchesMethod(tc.m); got != tc.want {
			t.Fatalf("case %d: got %v want %v", i, got, tc.want)
		}
	}
}

func TestPaymentRequestJSONShape(t *testing.T) {
	req := PaymentRequest{
		RecordBase: RecordBase{
			ID:            1745400000000,
			Client:        "PT Maju Jaya",
			Description:   "Jasa Desain Website",
			Amount:        "Rp 2.500.000",
			PaymentMethod: MethodCash,
			IssuedDate:    "16/04/2025",
		},
		DueDate: "2025-04-30",
		Status:  StatusWaiting,
	}
	b, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(b)
	for _, part := range []string{`"id":1745400000000`, `"client":"PT Maju Jaya"`, `"amount":"Rp 2.500.000"`, `"dueDate":"2025-04-30"`, `"status":"waiting"`, `"paymentDetails":null`} {
		if !strings.Contains(body, part) {
			t.Fatalf("json missing %s: %s", part, body)
		}
	}
	if strings.Contains(body, "paidDate") {
		t.Fatalf("unpaid request should omit paidDate: %s", body)
	}
}

func TestRecordVariants(t *testing.T) {
	var r Record = PaymentReceipt{RecordBase: RecordBase{ID: 2}, ReceiptDate: "2025-04-20"}
	if r.Kind() != KindReceipt || r.StatusLabel() != ReceiptLabel || r.ActivityDate() != "2025-04-20" {
		t.Fatalf("unexpected receipt view: %+v", r)
	}
	r = PaymentRequest{RecordBase: RecordBase{ID: 1, IssuedDate: "01/04/2025"}, Status: StatusOverdue}
	if r.Kind() != KindRequest || r.StatusLabel() != "Jatuh Tempo" || r.ActivityDate() != "01/04/2025" {
		t.Fatalf("unexpected request view: %+v", r)
	}
}
