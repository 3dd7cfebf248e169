package core

import (
	"math"
	"sort"
)

// RecentActivityLimit caps the dashboard activity feed.
const RecentActivityLimit = 5

// Activity is one line of the dashboard feed, shared by both record kinds.
type Activity struct {
	ID     int64      `json:"id"`
	Kind   RecordKind `json:"kind"`
	Client string     `json:"client"`
	Amount Amount     `json:"amount"`
	Status string     `json:"status"`
	Date   string     `json:"date"`
}

// Summary holds the dashboard aggregates.
type Summary struct {
	UnpaidCount      int        `json:"unpaidCount"`
	PaidCount        int        `json:"paidCount"`
	PaidInvoiceCount int        `json:"paidInvoiceCount"`
	InvoiceCount     int        `json:"invoiceCount"`
	ReceiptCount     int        `json:"receiptCount"`
	TotalPending     Amount     `json:"totalPending"`
	TotalReceived    Amount     `json:"totalReceived"`
	RecentActivity   []Activity `json:"recentActivity"`
}

// addAmounts sums two non-negative values, saturating at math.MaxInt64.
func addAmounts(a, b int64) int64 {
	if b > math.MaxInt64-a {
		return math.MaxInt64
	}
	return a + b
}

// Summarize computes the dashboard aggregates from both collections.
//
// Paid requests and all receipts count as received; every other request is
// pending. Amounts are re-parsed from their canonical strings.
func Summarize(invoices []PaymentRequest, receipts []PaymentReceipt) Summary {
	var (
		s        Summary
		pending  int64
		received int64
	)
	s.InvoiceCount = len(invoices)
	s.ReceiptCount = len(receipts)

	for _, inv := range invoices {
		if inv.IsPaid() {
			s.PaidInvoiceCount++
			received = addAmounts(received, inv.Amount.Value())
			continue
		}
		s.UnpaidCount++
		pending = addAmounts(pending, inv.Amount.Value())
	}
	for _, rc := range receipts {
		received = addAmounts(received, rc.Amount.Value())
	}

	s.PaidCount = s.PaidInvoiceCount + len(receipts)
	s.TotalPending = FormatAmount(pending)
	s.TotalReceived = FormatAmount(received)
	s.RecentActivity = RecentActivity(invoices, receipts, RecentActivityLimit)
	return s
}

// RecentActivity merges both collections, newest id first, truncated to limit.
func RecentActivity(invoices []PaymentRequest, receipts []PaymentReceipt, limit int) []Activity {
	records := make([]Record, 0, len(invoices)+len(receipts))
	for _, inv := range invoices {
		records = append(records, inv)
	}
	for _, rc := range receipts {
		records = append(records, rc)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Base().ID > records[j].Base().ID
	})

	if limit >= 0 && len(records) > limit {
		records = records[:limit]
	}

	out := make([]Activity, len(records))
	for i, r := range records {
		out[i] = activityOf(r)
	}
	return out
}

func activityOf(r Record) Activity {
	base := r.Base()
	return Activity{
		ID:     base.ID,
		Kind:   r.Kind(),
		Client: base.Client,
		Amount: base.Amount,
		Status: r.StatusLabel(),
		Date:   r.ActivityDate(),
	}
}
