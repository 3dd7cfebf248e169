package core

import "strings"

// StatusFilterAll matches requests of any status.
const StatusFilterAll = "all"

// InvoiceFilter narrows the request list by search text and status.
type InvoiceFilter struct {
	Query  string
	Status string
}

// ReceiptFilter narrows the receipt list by search text.
type ReceiptFilter struct {
	Query string
}

// Validate rejects unknown status filters.
func (f InvoiceFilter) Validate() error {
	if f.Status == "" || f.Status == StatusFilterAll || Status(f.Status).IsValid() {
		return nil
	}
	return ErrInvalidStatus
}

// FilterInvoices keeps the input order.
func FilterInvoices(reqs []PaymentRequest, f InvoiceFilter) []PaymentRequest {
	out := make([]PaymentRequest, 0, len(reqs))
	for _, r := range reqs {
		if !matchesQuery(r.RecordBase, f.Query) {
			continue
		}
		if f.Status != "" && f.Status != StatusFilterAll && string(r.Status) != f.Status {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterReceipts keeps the input order.
func FilterReceipts(rcs []PaymentReceipt, f ReceiptFilter) []PaymentReceipt {
	out := make([]PaymentReceipt, 0, len(rcs))
	for _, r := range rcs {
		if matchesQuery(r.RecordBase, f.Query) {
			out = append(out, r)
		}
	}
	return out
}

// matchesQuery is a case-insensitive substring match on client or description.
func matchesQuery(b RecordBase, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(b.Client), q) ||
		strings.Contains(strings.ToLower(b.Description), q)
}

// FindInvoice returns the request with the given id.
func FindInvoice(reqs []PaymentRequest, id int64) (PaymentRequest, bool) {
	for _, r := range reqs {
		if r.ID == id {
			return r, true
		}
	}
	return PaymentRequest{}, false
}

// FindReceipt returns the receipt with the given id.
func FindReceipt(rcs []PaymentReceipt, id int64) (PaymentReceipt, bool) {
	for _, r := range rcs {
		if r.ID == id {
			return r, true
		}
	}
	return PaymentReceipt{}, false
}
