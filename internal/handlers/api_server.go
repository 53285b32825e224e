// internal/handlers/api_server.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/courtside-app/courtside/internal/auth"
	"github.com/courtside-app/courtside/internal/gateway"
	"github.com/courtside-app/courtside/internal/lobby"
	"github.com/courtside-app/courtside/internal/session"
	"github.com/courtside-app/courtside/internal/workflow"
)

// SessionServer owns the pieces of the session core the HTTP surface
// exposes. The presentation layer is its only consumer; it gets JSON
// snapshots, never live state.
type SessionServer struct {
	Lobbies  *lobby.Manager
	Sessions *session.Manager
	Results  *workflow.Workflow
	Poller   *lobby.Poller
}

// NewSessionServer bundles the wired core components.
func NewSessionServer(lobbies *lobby.Manager, sessions *session.Manager, results *workflow.Workflow, poller *lobby.Poller) *SessionServer {
	return &SessionServer{Lobbies: lobbies, Sessions: sessions, Results: results, Poller: poller}
}

// Routes registers every endpoint on a fresh mux.
func (s *SessionServer) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /lobbies", s.CreateLobby)
	mux.HandleFunc("GET /lobbies", s.NearbyLobbies)
	mux.HandleFunc("GET /lobbies/{id}", s.GetLobby)
	mux.HandleFunc("POST /lobbies/{id}/refresh", s.RefreshLobby)

	mux.HandleFunc("POST /lobbies/{id}/join", s.Join)
	mux.HandleFunc("POST /lobbies/{id}/join-official", s.JoinAsOfficial)
	mux.HandleFunc("POST /lobbies/{id}/leave", s.Leave)
	mux.HandleFunc("POST /lobbies/{id}/check-in", s.CheckIn)
	mux.HandleFunc("POST /lobbies/{id}/balance", s.BalanceTeams)
	mux.HandleFunc("POST /lobbies/{id}/start", s.Start)
	mux.HandleFunc("POST /lobbies/{id}/report-inactivity", s.ReportInactivity)
	mux.HandleFunc("POST /lobbies/{id}/cancel-request", s.RequestCancel)

	mux.HandleFunc("POST /lobbies/{id}/clock/toggle", s.ToggleClock)
	mux.HandleFunc("GET /lobbies/{id}/scoreboard", s.Scoreboard)
	mux.HandleFunc("POST /lobbies/{id}/sets", s.RecordSet)
	mux.HandleFunc("DELETE /lobbies/{id}/sets/last", s.UndoLastSet)

	mux.HandleFunc("POST /lobbies/{id}/result", s.SubmitResult)
	mux.HandleFunc("POST /lobbies/{id}/result/confirm", s.ConfirmResult)
	mux.HandleFunc("POST /lobbies/{id}/result/dispute", s.DisputeResult)

	return mux
}

// identity resolves the caller's credential and opaque subject from the
// auth_token cookie. It writes the error response itself on failure.
func identity(w http.ResponseWriter, r *http.Request) (gateway.Credential, string, bool) {
	cookie := r.Header.Get("Cookie")
	if !strings.Contains(cookie, "auth_token=") {
		http.Error(w, "missing auth_token", http.StatusUnauthorized)
		return "", "", false
	}
	token := extractCookieToken(cookie, "auth_token")
	subject, err := auth.Subject(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return "", "", false
	}
	return gateway.Credential(token), subject, true
}

// lobbyID parses the {id} path segment. Writes the error response itself.
func lobbyID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid lobby id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("failed to encode response: %v", err)
	}
}

// writeError maps the typed error taxonomy onto HTTP statuses. Gateway
// errors pass through with their own message; nothing gets masked.
func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), errStatus(err))
}

func errStatus(err error) int {
	switch {
	case errors.Is(err, gateway.ErrLobbyFull),
		errors.Is(err, gateway.ErrAlreadyJoined),
		errors.Is(err, gateway.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, gateway.ErrNotAMember),
		errors.Is(err, gateway.ErrNotHost),
		errors.Is(err, gateway.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, gateway.ErrOutOfRange),
		errors.Is(err, gateway.ErrTeamsIncomplete),
		errors.Is(err, gateway.ErrOfficialRequired),
		errors.Is(err, gateway.ErrInvalidRole),
		errors.Is(err, session.ErrInvalidSide):
		return http.StatusUnprocessableEntity
	case errors.Is(err, gateway.ErrGatewayUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// extractCookieToken extracts a named cookie value from the "Cookie"
// header, or returns empty if not found.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}
