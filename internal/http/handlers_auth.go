package http

import (
	"net/http"

	"nota/internal/core"
)

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	user, err := s.auth.Signup(r.Context(), p.Get(core.FieldName), p.Get(core.FieldEmail), p.Get(core.FieldPassword))
	if err != nil {
		writeServiceError(w, r, err, "signup")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	if err := s.auth.Login(r.Context(), p.Get(core.FieldEmail), p.Get(core.FieldPassword)); err != nil {
		writeServiceError(w, r, err, "login")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context()); err != nil {
		writeServiceError(w, r, err, "logout")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": false})
}

func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	ok, err := s.auth.IsAuthenticated(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "auth_status")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": ok})
}
