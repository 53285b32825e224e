// internal/gateway/gateway.go
package gateway

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/courtside-app/courtside/internal/models"
)

// Credential is the caller's opaque bearer credential. The gateway forwards
// it verbatim; the remote authority derives the acting subject from it.
type Credential string

// AuthorityRole names a party whose inactivity a member can report.
type AuthorityRole string

const (
	AuthorityHost         AuthorityRole = "host"
	AuthorityRivalCaptain AuthorityRole = "rival_captain"
	AuthorityOfficial     AuthorityRole = "official"
)

// CreateLobbyRequest carries everything the host sets when opening a session.
type CreateLobbyRequest struct {
	Title           string            `json:"title"`
	LocationName    string            `json:"locationName"`
	Coordinate      models.Coordinate `json:"coordinate"`
	ScheduledAt     time.Time         `json:"scheduledAt"`
	Modality        models.Modality   `json:"modality"`
	Category        models.Category   `json:"category"`
	MaxPlayers      int               `json:"maxPlayers"`
	RequireOfficial bool              `json:"requireOfficial"`
}

// ResultReport is the payload of a result submission: the final ledger
// tallies, or a declared winner when the ledger was not used.
type ResultReport struct {
	ScoreA         int         `json:"scoreA"`
	ScoreB         int         `json:"scoreB"`
	DeclaredWinner models.Team `json:"declaredWinner,omitempty"`
}

// Gateway is the contract with the remote authority. Every mutating call
// returns the full updated lobby snapshot so the local view can be replaced
// wholesale instead of patched. All calls either complete, fail with one of
// the typed errors in errors.go, or time out and fail with
// ErrGatewayUnavailable; none block past the context deadline.
type Gateway interface {
	CreateLobby(ctx context.Context, cred Credential, req CreateLobbyRequest) (*models.Lobby, error)
	NearbyLobbies(ctx context.Context, cred Credential, center models.Coordinate, radiusMeters int) ([]models.Lobby, error)
	FetchLobby(ctx context.Context, cred Credential, lobbyID uuid.UUID) (*models.Lobby, error)

	Join(ctx context.Context, cred Credential, lobbyID uuid.UUID, preferred models.Team) (*models.Lobby, error)
	JoinAsOfficial(ctx context.Context, cred Credential, lobbyID uuid.UUID, role models.OfficialRole) (*models.Lobby, error)
	Leave(ctx context.Context, cred Credential, lobbyID uuid.UUID) (*models.Lobby, error)

	// CheckIn and BalanceTeams are idempotent at the authority boundary and
	// safe to retry without double effect.
	CheckIn(ctx context.Context, cred Credential, lobbyID uuid.UUID, at models.Coordinate) (*models.Lobby, error)
	BalanceTeams(ctx context.Context, cred Credential, lobbyID uuid.UUID) (*models.Lobby, error)

	Start(ctx context.Context, cred Credential, lobbyID uuid.UUID) (*models.Lobby, error)

	SubmitResult(ctx context.Context, cred Credential, lobbyID uuid.UUID, report ResultReport) (*models.Lobby, error)
	ConfirmResult(ctx context.Context, cred Credential, lobbyID uuid.UUID) (*models.Lobby, error)
	DisputeResult(ctx context.Context, cred Credential, lobbyID uuid.UUID) (*models.Lobby, error)

	// Advisory side channels. Fire-and-forget signals for the authority;
	// they never change lobby state directly.
	ReportInactivity(ctx context.Context, cred Credential, lobbyID uuid.UUID, target AuthorityRole) error
	RequestCancel(ctx context.Context, cred Credential, lobbyID uuid.UUID, reason string) error
}
