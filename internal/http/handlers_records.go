package http

import (
	"net/http"

	"nota/internal/core"
	"nota/internal/log"
)

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := core.InvoiceFilter{
		Query:  sanitizeInput(q.Get("q")),
		Status: sanitizeInput(q.Get("status")),
	}
	invoices, err := s.records.ListInvoices(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err, log.OpList)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	in, err := p.FormInput(core.FieldDueDate)
	if err != nil {
		writeValidation(w, core.ValidationErrors{core.FieldPaymentDetails: "Detail pembayaran tidak valid"})
		return
	}
	req, err := s.records.CreateInvoice(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err, log.OpCreate)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req, err := s.records.GetInvoice(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, log.OpRead)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Server) handlePayInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req, err := s.records.MarkInvoicePaid(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, log.OpMarkPaid)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	filter := core.ReceiptFilter{Query: sanitizeInput(r.URL.Query().Get("q"))}
	receipts, err := s.records.ListReceipts(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err, log.OpList)
		return
	}
	writeJSON(w, http.StatusOK, receipts)
}

func (s *Server) handleCreateReceipt(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	in, err := p.FormInput(core.FieldReceiptDate)
	if err != nil {
		writeValidation(w, core.ValidationErrors{core.FieldPaymentDetails: "Detail pembayaran tidak valid"})
		return
	}
	rc, err := s.records.CreateReceipt(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err, log.OpCreate)
		return
	}
	writeJSON(w, http.StatusCreated, rc)
}

func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rc, err := s.records.GetReceipt(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, log.OpRead)
		return
	}
	writeJSON(w, http.StatusOK, rc)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := s.records.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, r, err, log.OpSummary)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleNormalizeAmount formats partial amount input the way the entry
// forms do on every keystroke.
func handleNormalizeAmount(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	amount := core.NormalizeAmountInput(p.Get(core.FieldAmount))
	writeJSON(w, http.StatusOK, map[string]any{
		"amount": amount,
		"value":  amount.Value(),
	})
}
