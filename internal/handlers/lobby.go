// internal/handlers/lobby.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/courtside-app/courtside/internal/gateway"
	"github.com/courtside-app/courtside/internal/models"
)

// CreateLobby opens a new session owned by the caller.
func (s *SessionServer) CreateLobby(w http.ResponseWriter, r *http.Request) {
	cred, _, ok := identity(w, r)
	if !ok {
		return
	}
	var req gateway.CreateLobbyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad lobby request payload", http.StatusBadRequest)
		return
	}
	if req.MaxPlayers <= 0 {
		http.Error(w, "maxPlayers must be positive", http.StatusBadRequest)
		return
	}
	if req.Modality != models.ModalityFabric && req.Modality != models.ModalityFoam {
		http.Error(w, "invalid modality", http.StatusBadRequest)
		return
	}
	out, err := s.Lobbies.Create(r.Context(), cred, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, out)
}

// NearbyLobbies lists open sessions around a coordinate.
func (s *SessionServer) NearbyLobbies(w http.ResponseWriter, r *http.Request) {
	cred, _, ok := identity(w, r)
	if !ok {
		return
	}
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if errLat != nil || errLng != nil {
		http.Error(w, "lat and lng are required", http.StatusBadRequest)
		return
	}
	radius, err := strconv.Atoi(r.URL.Query().Get("radius"))
	if err != nil || radius <= 0 {
		radius = 5000
	}
	out, err := s.Lobbies.Nearby(r.Context(), cred, models.Coordinate{Lat: lat, Lng: lng}, radius)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, out)
}

// GetLobby returns the tracked snapshot, fetching it on first access.
func (s *SessionServer) GetLobby(w http.ResponseWriter, r *http.Request) {
	cred, _, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := lobbyID(w, r)
	if !ok {
		return
	}
	out, err := s.Lobbies.Get(r.Context(), cred, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, out)
}

// RefreshLobby forces an immediate re-fetch instead of waiting for the
// next poll tick.
func (s *SessionServer) RefreshLobby(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := identity(w, r); !ok {
		return
	}
	id, ok := lobbyID(w, r)
	if !ok {
		return
	}
	out, err := s.Poller.RefreshNow(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, out)
}

// Join requests a player slot.
func (s *SessionServer) Join(w http.ResponseWriter, r *http.Request) {
	cred, subject, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := lobbyID(w, r)
	if !ok {
		return
	}
	var body struct {
		PreferredTeam models.Team `json:"preferredTeam"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad join payload", http.StatusBadRequest)
			return
		}
	}
	out, err := s.Lobbies.Join(r.Context(), cred, subject, id, body.PreferredTeam)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, out)
}

// JoinAsOfficial requests an official slot in a given role.
func (s *SessionServer) JoinAsOfficial(w http.ResponseWriter, r *http.Request) {
	cred, subject, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := lobbyID(w, r)
	if !ok {
		return
	}
	var body struct {
		Role models.OfficialRole `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad join payload", http.StatusBadRequest)
		return
	}
	out, err := s.Lobbies.JoinAsOfficial(r.Context(), cred, subject, id, body.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, out)
}

// Leave gives up the caller's slot.
func (s *SessionServer) Leave(w http.ResponseWriter, r *http.Request) {
	cred, subject, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := lobbyID(w, r)
	if !ok {
		return
	}
	out, err := s.Lobbies.Leave(r.Context(), cred, subject, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, out)
}

// CheckIn submits the caller's coordinates for proximity confirmation.
func (s *SessionServer) CheckIn(w http.ResponseWriter, r *http.Request) {
	cred, subject, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := lobbyID(w, r)
	if !ok {
		return
	}
	var body struct {
		Coordinate models.Coordinate `json:"coordinate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad check-in payload", http.StatusBadRequest)
		return
	}
	out, err := s.Lobbies.CheckIn(r.Context(), cred, subject, id, body.Coordinate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, out)
}

// BalanceTeams requests a skill-parity team split from the authority.
func (s *SessionServer) BalanceTeams(w http.ResponseWriter, r *http.Request) {
	cred, subject, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := lobbyID(w, r)
	if !ok {
		return
	}
	out, err := s.Lobbies.BalanceTeams(r.Context(), cred, subject, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, out)
}

// Start begins play.
func (s *SessionServer) Start(w http.ResponseWriter, r *http.Request) {
	cred, subject, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := lobbyID(w, r)
	if !ok {
		return
	}
	out, err := s.Lobbies.Start(r.Context(), cred, subject, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, out)
}

// ReportInactivity files an advisory complaint about an unresponsive
// authority role.
func (s *SessionServer) ReportInactivity(w http.ResponseWriter, r *http.Request) {
	cred, subject, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := lobbyID(w, r)
	if !ok {
		return
	}
	var body struct {
		Target gateway.AuthorityRole `json:"target"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad report payload", http.StatusBadRequest)
		return
	}
	if err := s.Lobbies.ReportInactivity(r.Context(), cred, subject, id, body.Target); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// RequestCancel files an advisory request to abandon the session.
func (s *SessionServer) RequestCancel(w http.ResponseWriter, r *http.Request) {
	cred, subject, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := lobbyID(w, r)
	if !ok {
		return
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad cancel payload", http.StatusBadRequest)
			return
		}
	}
	if err := s.Lobbies.RequestCancel(r.Context(), cred, subject, id, body.Reason); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
