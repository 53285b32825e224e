// internal/lobby/poller.go
package lobby

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/courtside-app/courtside/internal/models"
)

// Poller periodically re-fetches every tracked lobby so one client observes
// another's effects. There is no push channel; staleness up to one interval
// is the accepted inconsistency window.
type Poller struct {
	mgr      *Manager
	store    *Store
	interval time.Duration
	group    singleflight.Group
}

// NewPoller builds a poller. A zero interval defaults to 30s.
func NewPoller(mgr *Manager, store *Store, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Poller{mgr: mgr, store: store, interval: interval}
}

// RefreshNow refreshes a single lobby immediately. Concurrent callers for
// the same lobby share one round trip.
func (p *Poller) RefreshNow(ctx context.Context, id uuid.UUID) (models.Lobby, error) {
	v, err, _ := p.group.Do(id.String(), func() (interface{}, error) {
		return p.mgr.Refresh(ctx, id)
	})
	if err != nil {
		return models.Lobby{}, err
	}
	return v.(models.Lobby), nil
}

// Run polls until ctx is cancelled. A failed refresh is logged and retried
// on the next tick; the stale local view stays intact in the meantime.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, id := range p.store.IDs() {
				if _, err := p.RefreshNow(ctx, id); err != nil {
					log.WithFields(log.Fields{
						"lobby_id": id,
						"error":    err,
					}).Warn("lobby refresh failed")
				}
			}
		}
	}
}
