// internal/handlers/result.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/courtside-app/courtside/internal/models"
)

// SubmitResult packages the ledger tallies into a match result and drives
// the lobby to finished.
func (s *SessionServer) SubmitResult(w http.ResponseWriter, r *http.Request) {
	cred, subject, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := lobbyID(w, r)
	if !ok {
		return
	}
	var body struct {
		DeclaredWinner models.Team `json:"declaredWinner"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad result payload", http.StatusBadRequest)
			return
		}
	}
	out, err := s.Results.Submit(r.Context(), cred, subject, id, body.DeclaredWinner)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, out)
}

// ConfirmResult records the counterpart's agreement with the result.
func (s *SessionServer) ConfirmResult(w http.ResponseWriter, r *http.Request) {
	cred, subject, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := lobbyID(w, r)
	if !ok {
		return
	}
	out, err := s.Results.Confirm(r.Context(), cred, subject, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, out)
}

// DisputeResult flags the result for external adjudication.
func (s *SessionServer) DisputeResult(w http.ResponseWriter, r *http.Request) {
	cred, subject, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := lobbyID(w, r)
	if !ok {
		return
	}
	out, err := s.Results.Dispute(r.Context(), cred, subject, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, out)
}
