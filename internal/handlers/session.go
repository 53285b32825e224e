// internal/handlers/session.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/courtside-app/courtside/internal/models"
	"github.com/courtside-app/courtside/internal/session"
)

// scoreboard is the live-score view the presentation layer renders.
type scoreboard struct {
	ScoreA    int                 `json:"scoreA"`
	ScoreB    int                 `json:"scoreB"`
	Sets      []session.SetRecord `json:"sets"`
	ElapsedMs int64               `json:"elapsedMs"`
	Running   bool                `json:"running"`
}

func (s *SessionServer) scoreboardFor(sess *session.Session) scoreboard {
	st := sess.Snapshot()
	return scoreboard{
		ScoreA:    st.ScoreA,
		ScoreB:    st.ScoreB,
		Sets:      st.Sets,
		ElapsedMs: sess.Elapsed().Milliseconds(),
		Running:   sess.Running(),
	}
}

// ToggleClock flips the session clock between running and paused.
func (s *SessionServer) ToggleClock(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := identity(w, r); !ok {
		return
	}
	id, ok := lobbyID(w, r)
	if !ok {
		return
	}
	sess, err := s.Sessions.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := sess.ToggleClock(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, s.scoreboardFor(sess))
}

// Scoreboard returns the current tallies, set log, and clock state.
func (s *SessionServer) Scoreboard(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := identity(w, r); !ok {
		return
	}
	id, ok := lobbyID(w, r)
	if !ok {
		return
	}
	sess, err := s.Sessions.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, s.scoreboardFor(sess))
}

// RecordSet appends a completed set for the winning side.
func (s *SessionServer) RecordSet(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := identity(w, r); !ok {
		return
	}
	id, ok := lobbyID(w, r)
	if !ok {
		return
	}
	var body struct {
		Winner models.Team `json:"winner"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad set payload", http.StatusBadRequest)
		return
	}
	sess, err := s.Sessions.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := sess.RecordSet(r.Context(), body.Winner); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, s.scoreboardFor(sess))
}

// UndoLastSet rolls back the most recent set. Undoing an empty ledger is a
// no-op, not an error.
func (s *SessionServer) UndoLastSet(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := identity(w, r); !ok {
		return
	}
	id, ok := lobbyID(w, r)
	if !ok {
		return
	}
	sess, err := s.Sessions.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, _, err := sess.UndoLastSet(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, s.scoreboardFor(sess))
}
