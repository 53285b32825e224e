// internal/workflow/workflow.go
package workflow

import (
	"context"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/courtside-app/courtside/internal/gateway"
	"github.com/courtside-app/courtside/internal/lobby"
	"github.com/courtside-app/courtside/internal/models"
	"github.com/courtside-app/courtside/internal/session"
)

// Workflow drives a match result through the two-phase submit/confirm
// protocol. Submission packages the set ledger's final tallies, never the
// other way around: confirmation and dispute only consume what the ledger
// already said.
type Workflow struct {
	gw       gateway.Gateway
	lobbies  *lobby.Manager
	sessions *session.Manager
}

// New wires the workflow over the gateway, lobby manager, and session
// manager.
func New(gw gateway.Gateway, lobbies *lobby.Manager, sessions *session.Manager) *Workflow {
	return &Workflow{gw: gw, lobbies: lobbies, sessions: sessions}
}

// Submit reports the match outcome and moves the lobby to finished. Any
// host or official may submit while the lobby is playing. The report is the
// ledger's tallies plus, when the ledger went unused, an explicitly
// declared winner. On success the local session cache is cleared; the
// ledger has served its purpose.
func (w *Workflow) Submit(ctx context.Context, cred gateway.Credential, actor string, lobbyID uuid.UUID, declared models.Team) (models.Lobby, error) {
	if snap, ok := w.lobbies.Lookup(lobbyID); ok {
		if snap.State != models.LobbyPlaying {
			return models.Lobby{}, gateway.ErrInvalidState
		}
		if !snap.IsHost(actor) && snap.OfficialIndex(actor) < 0 {
			return models.Lobby{}, gateway.ErrNotAuthorized
		}
	}

	sess, err := w.sessions.Get(ctx, lobbyID)
	if err != nil {
		return models.Lobby{}, err
	}
	scoreA, scoreB := sess.Score()
	report := gateway.ResultReport{ScoreA: scoreA, ScoreB: scoreB}
	if scoreA == 0 && scoreB == 0 {
		if declared != models.TeamA && declared != models.TeamB {
			return models.Lobby{}, session.ErrInvalidSide
		}
		report.DeclaredWinner = declared
	}

	snap, err := w.gw.SubmitResult(ctx, cred, lobbyID, report)
	if err != nil {
		return models.Lobby{}, err
	}
	out := w.lobbies.Adopt(*snap, cred)

	if err := w.sessions.Clear(ctx, lobbyID); err != nil {
		// The result is already canonical; a leftover cache entry only
		// costs a stale blob until its TTL.
		log.WithFields(log.Fields{"lobby_id": lobbyID, "error": err}).Warn("failed to clear session cache after submit")
	}
	return out, nil
}

// Confirm records the counterpart's agreement with a submitted result. The
// designated rival captain confirms for the opposing side; any official may
// confirm in their place.
func (w *Workflow) Confirm(ctx context.Context, cred gateway.Credential, actor string, lobbyID uuid.UUID) (models.Lobby, error) {
	if err := w.checkContestable(lobbyID, actor); err != nil {
		return models.Lobby{}, err
	}
	snap, err := w.gw.ConfirmResult(ctx, cred, lobbyID)
	if err != nil {
		return models.Lobby{}, err
	}
	return w.lobbies.Adopt(*snap, cred), nil
}

// Dispute flags the result for external adjudication instead of confirming
// it. The lobby stays finished; nothing rolls back, and no further
// automatic transition follows. Disputing remains legal after the opponent
// has confirmed, right up until the result is final.
func (w *Workflow) Dispute(ctx context.Context, cred gateway.Credential, actor string, lobbyID uuid.UUID) (models.Lobby, error) {
	if err := w.checkContestable(lobbyID, actor); err != nil {
		return models.Lobby{}, err
	}
	snap, err := w.gw.DisputeResult(ctx, cred, lobbyID)
	if err != nil {
		return models.Lobby{}, err
	}
	return w.lobbies.Adopt(*snap, cred), nil
}

// checkContestable rehearses result-party eligibility against the tracked
// view: the lobby must be finished with a result that is not yet final, and
// the actor must be the rival captain or an official. With no tracked view
// the authority decides alone.
func (w *Workflow) checkContestable(lobbyID uuid.UUID, actor string) error {
	snap, ok := w.lobbies.Lookup(lobbyID)
	if !ok {
		return nil
	}
	if snap.State != models.LobbyFinished || snap.Result == nil {
		return gateway.ErrInvalidState
	}
	if snap.Result.Final(len(snap.Officials) > 0) {
		return gateway.ErrInvalidState
	}
	if snap.OfficialIndex(actor) >= 0 {
		return nil
	}
	if captain, ok := snap.RivalCaptain(snap.Result.SubmittedBy); ok && captain.ID == actor {
		return nil
	}
	return gateway.ErrNotAuthorized
}
