// internal/gateway/errors.go
package gateway

import "errors"

// Typed errors for every way the remote authority can reject a session
// action. Handlers and callers match these with errors.Is; the gateway never
// wraps an authority rejection in anything more generic.
var (
	ErrLobbyFull        = errors.New("lobby is at capacity")
	ErrAlreadyJoined    = errors.New("identity already holds a slot in this lobby")
	ErrNotAMember       = errors.New("identity holds no slot in this lobby")
	ErrInvalidState     = errors.New("operation not valid in current lobby state")
	ErrOutOfRange       = errors.New("check-in coordinates outside the lobby geofence")
	ErrTeamsIncomplete  = errors.New("both teams need at least one player")
	ErrOfficialRequired = errors.New("lobby requires a confirmed official before start")
	ErrInvalidRole      = errors.New("unknown official role")
	ErrNotHost          = errors.New("only the host may perform this action")
	ErrNotAuthorized    = errors.New("actor is not an eligible party for this result action")

	// ErrGatewayUnavailable covers transport failures and timeouts. Calls
	// that fail with it are retryable by re-issuing the same request.
	ErrGatewayUnavailable = errors.New("session gateway unavailable")
)

// errByCode maps the authority's wire error codes to the sentinels above.
var errByCode = map[string]error{
	"LOBBY_FULL":        ErrLobbyFull,
	"ALREADY_JOINED":    ErrAlreadyJoined,
	"NOT_A_MEMBER":      ErrNotAMember,
	"INVALID_STATE":     ErrInvalidState,
	"OUT_OF_RANGE":      ErrOutOfRange,
	"TEAMS_INCOMPLETE":  ErrTeamsIncomplete,
	"OFFICIAL_REQUIRED": ErrOfficialRequired,
	"INVALID_ROLE":      ErrInvalidRole,
	"NOT_HOST":          ErrNotHost,
	"NOT_AUTHORIZED":    ErrNotAuthorized,
}

// ErrorFromCode resolves a wire code to its typed error. Unknown codes
// degrade to ErrGatewayUnavailable so the caller still sees a retryable
// failure rather than a silent success.
func ErrorFromCode(code string) error {
	if err, ok := errByCode[code]; ok {
		return err
	}
	return ErrGatewayUnavailable
}
