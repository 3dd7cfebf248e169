package core

import (
	"fmt"
	"math"
	"testing"
)

func request(id int64, amount Amount, status Status) PaymentRequest {
	return PaymentRequest{
		RecordBase: RecordBase{ID: id, Client: fmt.Sprintf("client-%d", id), Amount: amount, IssuedDate: "01/04/2025"},
		DueDate:    "2025-04-30",
		Status:     status,
	}
}

func receipt(id int64, amount Amount) PaymentReceipt {
	return PaymentReceipt{
		RecordBase:  RecordBase{ID: id, Client: fmt.Sprintf("client-%d", id), Amount: amount},
		ReceiptDate: "2025-04-20",
	}
}

func TestSummarizeTotals(t *testing.T) {
	invoices := []PaymentRequest{
		request(4, "Rp 2.000.000", StatusPaid),
		request(3, "Rp 1.750.000", StatusWaiting),
		request(2, "Rp 2.100.000", StatusOverdue),
	}
	receipts := []PaymentReceipt{receipt(1, "Rp 1.000.000")}

	s := Summarize(invoices, receipts)

	if s.UnpaidCount != 2 || s.PaidInvoiceCount != 1 || s.PaidCount != 2 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.InvoiceCount != 3 || s.ReceiptCount != 1 {
		t.Fatalf("unexpected collection sizes: %+v", s)
	}
	if s.TotalPending != "Rp 3.850.000" {
		t.Fatalf("TotalPending = %q", s.TotalPending)
	}
	if s.TotalReceived != "Rp 3.000.000" {
		t.Fatalf("TotalReceived = %q", s.TotalReceived)
	}
}

func TestSummarizeSaturatesLargeTotals(t *testing.T) {
	huge := FormatAmount(math.MaxInt64 - 1)
	invoices := []PaymentRequest{
		request(2, huge, StatusWaiting),
		request(1, huge, StatusWaiting),
	}
	receipts := []PaymentReceipt{receipt(4, huge), receipt(3, huge)}

	s := Summarize(invoices, receipts)

	want := FormatAmount(math.MaxInt64)
	if s.TotalPending != want {
		t.Fatalf("TotalPending = %q, want %q", s.TotalPending, want)
	}
	if s.TotalReceived != want {
		t.Fatalf("TotalReceived = %q, want %q", s.TotalReceived, want)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, nil)
	if s.TotalPending != "Rp 0" || s.TotalReceived != "Rp 0" {
		t.Fatalf("unexpected empty totals: %+v", s)
	}
	if s.RecentActivity == nil || len(s.RecentActivity) != 0 {
		t.Fatalf("expected empty, non-nil activity, got %#v", s.RecentActivity)
	}
}

func TestSummarizeCountsAlwaysAddUp(t *testing.T) {
	statuses := []Status{StatusWaiting, StatusOverdue, StatusPaid}
	for n := 0; n < 12; n++ {
		var invoices []PaymentRequest
		for i := 0; i < n; i++ {
			invoices = append(invoices, request(int64(i), "Rp 10", statuses[i%len(statuses)]))
		}
		s := Summarize(invoices, nil)
		if s.UnpaidCount+s.PaidInvoiceCount != s.InvoiceCount {
			t.Fatalf("n=%d: %d + %d != %d", n, s.UnpaidCount, s.PaidInvoiceCount, s.InvoiceCount)
		}
	}
}

func TestRecentActivityOrderAndLimit(t *testing.T) {
	for nInv := 0; nInv < 5; nInv++ {
		for nRc := 0; nRc < 5; nRc++ {
			var invoices []PaymentRequest
			var receipts []PaymentReceipt
			for i := 0; i < nInv; i++ {
				invoices = append(invoices, request(int64(10*i+1), "Rp 1", StatusWaiting))
			}
			for i := 0; i < nRc; i++ {
				receipts = append(receipts, receipt(int64(10*i+5), "Rp 1"))
			}

			feed := RecentActivity(invoices, receipts, RecentActivityLimit)
			if len(feed) > RecentActivityLimit {
				t.Fatalf("feed too long: %d", len(feed))
			}
			want := nInv + nRc
			if want > RecentActivityLimit {
				want = RecentActivityLimit
			}
			if len(feed) != want {
				t.Fatalf("inv=%d rc=%d: len=%d want %d", nInv, nRc, len(feed), want)
			}
			for i := 1; i < len(feed); i++ {
				if feed[i-1].ID < feed[i].ID {
					t.Fatalf("feed not sorted descending: %+v", feed)
				}
			}
		}
	}
}

func TestRecentActivityShape(t *testing.T) {
	feed := RecentActivity(
		[]PaymentRequest{request(1, "Rp 5.000", StatusOverdue)},
		[]PaymentReceipt{receipt(2, "Rp 7.000")},
		RecentActivityLimit,
	)
	if len(feed) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(feed))
	}
	if feed[0].Kind != KindReceipt || feed[0].Status != "Lunas" || feed[0].Date != "2025-04-20" {
		t.Fatalf("unexpected receipt activity: %+v", feed[0])
	}
	if feed[1].Kind != KindRequest || feed[1].Status != "Jatuh Tempo" || feed[1].Date != "01/04/2025" {
		t.Fatalf("unexpected request activity: %+v", feed[1])
	}
}
