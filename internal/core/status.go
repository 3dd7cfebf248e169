package core

import "time"

// ResolveStatus applies the automatic waiting -> overdue transition.
//
// A waiting request whose due date falls on a calendar day strictly before
// today becomes overdue. Paid and overdue requests are never changed, and a
// due date that cannot be parsed leaves the request waiting.
func ResolveStatus(req PaymentRequest, today time.Time) PaymentRequest {
	if req.Status != StatusWaiting {
		return req
	}
	due, err := ParseDate(req.DueDate)
	if err != nil {
		return req
	}
	if due.Before(CalendarDay(today)) {
		req.Status = StatusOverdue
	}
	return req
}

// ResolveAll resolves every request and reports whether any status changed.
// The input slice is not modified.
func ResolveAll(reqs []PaymentRequest, today time.Time) ([]PaymentRequest, bool) {
	out := make([]PaymentRequest, len(reqs))
	changed := false
	for i, r := range reqs {
		out[i] = ResolveStatus(r, today)
		if out[i].Status != r.Status {
			changed = true
		}
	}
	return out, changed
}

// MarkPaid moves a waiting or overdue request to paid and records the day it
// happened. A request that is already paid is returned as is.
func MarkPaid(req PaymentRequest, paidOn time.Time) PaymentRequest {
	if req.Status == StatusPaid {
		return req
	}
	req.Status = StatusPaid
	req.PaidDate = FormatISODate(paidOn)
	return req
}
