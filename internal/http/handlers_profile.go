package http

import (
	"net/http"

	"nota/internal/core"
	"nota/internal/log"
)

// Settings that were never saved are returned as "data": null.

func (s *Server) handleGetBusinessInfo(w http.ResponseWriter, r *http.Request) {
	info, found, err := s.profile.BusinessInfo(r.Context())
	if err != nil {
		writeServiceError(w, r, err, log.OpRead)
		return
	}
	if !found {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handlePutBusinessInfo(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	info, err := s.profile.SaveBusinessInfo(r.Context(), core.BusinessInfo{
		BusinessName: p.Get("businessName"),
		Address:      p.Get("address"),
		Email:        p.Get("email"),
		Phone:        p.Get("phone"),
	})
	if err != nil {
		writeServiceError(w, r, err, log.OpUpdate)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleGetPaymentData(w http.ResponseWriter, r *http.Request) {
	pd, found, err := s.profile.PaymentData(r.Context())
	if err != nil {
		writeServiceError(w, r, err, log.OpRead)
		return
	}
	if !found {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, pd)
}

func (s *Server) handlePutPaymentData(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	pd := core.PaymentData{
		Method:       core.PaymentMethod(p.Get("method")),
		BankOption:   p.Get("bankOption"),
		WalletOption: p.Get("walletOption"),
	}
	var details core.PaymentDetails
	found, err := p.Decode("details", &details)
	if err != nil {
		writeValidation(w, core.ValidationErrors{core.FieldPaymentDetails: "Detail pembayaran tidak valid"})
		return
	}
	if found {
		pd.Details = &details
	}

	saved, err := s.profile.SavePaymentData(r.Context(), pd)
	if err != nil {
		writeServiceError(w, r, err, log.OpUpdate)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	photo, found, err := s.profile.ProfilePhoto(r.Context())
	if err != nil {
		writeServiceError(w, r, err, log.OpRead)
		return
	}
	if !found {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"photo": photo})
}

func (s *Server) handlePutPhoto(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	photo := p.Get(core.FieldPhoto)
	if err := s.profile.SaveProfilePhoto(r.Context(), photo); err != nil {
		writeServiceError(w, r, err, log.OpUpdate)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"photo": photo})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, found, err := s.profile.UserData(r.Context())
	if err != nil {
		writeServiceError(w, r, err, log.OpRead)
		return
	}
	if !found {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
