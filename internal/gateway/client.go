// internal/gateway/client.go
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	log "github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"

	"github.com/courtside-app/courtside/internal/models"
)

// Client is the HTTP implementation of Gateway backed by a pooled fasthttp
// client. One instance serves all callers; per-call identity travels in the
// forwarded credential, never in client state.
type Client struct {
	baseURL string
	http    *fasthttp.Client
	timeout time.Duration
}

// ClientConfig bundles the knobs main cares about.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient builds a gateway client. A zero Timeout defaults to 10s.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		timeout: timeout,
		http: &fasthttp.Client{
			MaxConnsPerHost:     64,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
	}
}

// apiError is the authority's error envelope.
type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// call performs one round trip, decodes a T on 2xx, and maps the error
// envelope to a typed error otherwise. An empty idemKey omits the header.
func call[T any](ctx context.Context, c *Client, method, path string, cred Credential, body any, idemKey string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set("Authorization", "Bearer "+string(cred))
	if idemKey != "" {
		req.Header.Set("Idempotency-Key", idemKey)
	}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		log.WithFields(log.Fields{"method": method, "path": path, "error": err}).Warn("gateway transport failure")
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	status := resp.StatusCode()
	if status >= 500 {
		return nil, fmt.Errorf("%w: authority returned %d", ErrGatewayUnavailable, status)
	}
	if status >= 400 {
		var envelope apiError
		if err := json.Unmarshal(resp.Body(), &envelope); err != nil || envelope.Error.Code == "" {
			return nil, fmt.Errorf("%w: authority returned %d", ErrGatewayUnavailable, status)
		}
		return nil, ErrorFromCode(envelope.Error.Code)
	}

	var result T
	// Advisory endpoints acknowledge with an empty body.
	if len(resp.Body()) == 0 {
		return &result, nil
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("%w: decode %s %s: %v", ErrGatewayUnavailable, method, path, err)
	}
	return &result, nil
}

// callIdempotent wraps call with a fresh idempotency key and one retry on
// transport failure. The key is reused on the retry so the authority can
// collapse a double delivery into a single effect.
func callIdempotent[T any](ctx context.Context, c *Client, method, path string, cred Credential, body any) (*T, error) {
	key, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("idempotency key: %w", err)
	}
	out, err := call[T](ctx, c, method, path, cred, body, key)
	if err != nil && ctx.Err() == nil && errors.Is(err, ErrGatewayUnavailable) {
		out, err = call[T](ctx, c, method, path, cred, body, key)
	}
	return out, err
}

func (c *Client) CreateLobby(ctx context.Context, cred Credential, req CreateLobbyRequest) (*models.Lobby, error) {
	return call[models.Lobby](ctx, c, fasthttp.MethodPost, "/lobbies", cred, req, "")
}

func (c *Client) NearbyLobbies(ctx context.Context, cred Credential, center models.Coordinate, radiusMeters int) ([]models.Lobby, error) {
	path := fmt.Sprintf("/lobbies?lat=%f&lng=%f&radius=%d", center.Lat, center.Lng, radiusMeters)
	out, err := call[[]models.Lobby](ctx, c, fasthttp.MethodGet, path, cred, nil, "")
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func (c *Client) FetchLobby(ctx context.Context, cred Credential, lobbyID uuid.UUID) (*models.Lobby, error) {
	return call[models.Lobby](ctx, c, fasthttp.MethodGet, "/lobbies/"+lobbyID.String(), cred, nil, "")
}

func (c *Client) Join(ctx context.Context, cred Credential, lobbyID uuid.UUID, preferred models.Team) (*models.Lobby, error) {
	body := map[string]any{"preferredTeam": preferred}
	return call[models.Lobby](ctx, c, fasthttp.MethodPost, "/lobbies/"+lobbyID.String()+"/join", cred, body, "")
}

func (c *Client) JoinAsOfficial(ctx context.Context, cred Credential, lobbyID uuid.UUID, role models.OfficialRole) (*models.Lobby, error) {
	body := map[string]any{"role": role}
	return call[models.Lobby](ctx, c, fasthttp.MethodPost, "/lobbies/"+lobbyID.String()+"/join-official", cred, body, "")
}

func (c *Client) Leave(ctx context.Context, cred Credential, lobbyID uuid.UUID) (*models.Lobby, error) {
	return call[models.Lobby](ctx, c, fasthttp.MethodPost, "/lobbies/"+lobbyID.String()+"/leave", cred, nil, "")
}

func (c *Client) CheckIn(ctx context.Context, cred Credential, lobbyID uuid.UUID, at models.Coordinate) (*models.Lobby, error) {
	body := map[string]any{"coordinate": at}
	return callIdempotent[models.Lobby](ctx, c, fasthttp.MethodPost, "/lobbies/"+lobbyID.String()+"/check-in", cred, body)
}

func (c *Client) BalanceTeams(ctx context.Context, cred Credential, lobbyID uuid.UUID) (*models.Lobby, error) {
	return callIdempotent[models.Lobby](ctx, c, fasthttp.MethodPost, "/lobbies/"+lobbyID.String()+"/balance", cred, nil)
}

func (c *Client) Start(ctx context.Context, cred Credential, lobbyID uuid.UUID) (*models.Lobby, error) {
	return call[models.Lobby](ctx, c, fasthttp.MethodPost, "/lobbies/"+lobbyID.String()+"/start", cred, nil, "")
}

func (c *Client) SubmitResult(ctx context.Context, cred Credential, lobbyID uuid.UUID, report ResultReport) (*models.Lobby, error) {
	return call[models.Lobby](ctx, c, fasthttp.MethodPost, "/lobbies/"+lobbyID.String()+"/result", cred, report, "")
}

func (c *Client) ConfirmResult(ctx context.Context, cred Credential, lobbyID uuid.UUID) (*models.Lobby, error) {
	return call[models.Lobby](ctx, c, fasthttp.MethodPost, "/lobbies/"+lobbyID.String()+"/result/confirm", cred, nil, "")
}

func (c *Client) DisputeResult(ctx context.Context, cred Credential, lobbyID uuid.UUID) (*models.Lobby, error) {
	return call[models.Lobby](ctx, c, fasthttp.MethodPost, "/lobbies/"+lobbyID.String()+"/result/dispute", cred, nil, "")
}

func (c *Client) ReportInactivity(ctx context.Context, cred Credential, lobbyID uuid.UUID, target AuthorityRole) error {
	body := map[string]any{"target": target}
	_, err := call[struct{}](ctx, c, fasthttp.MethodPost, "/lobbies/"+lobbyID.String()+"/report-inactivity", cred, body, "")
	return err
}

func (c *Client) RequestCancel(ctx context.Context, cred Credential, lobbyID uuid.UUID, reason string) error {
	body := map[string]any{"reason": reason}
	_, err := call[struct{}](ctx, c, fasthttp.MethodPost, "/lobbies/"+lobbyID.String()+"/cancel-request", cred, body, "")
	return err
}
