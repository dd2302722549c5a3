package registry

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/CrowdChain-Network/registry_layer/internal/metrics"
)

// DefaultSnapshotTTL is the maximum age at which a snapshot is still served
// without a new remote read.
const DefaultSnapshotTTL = 5 * time.Second

// CacheConfig holds cache construction parameters.
type CacheConfig struct {
	Ledger Ledger
	TTL    time.Duration
	Logger *logrus.Entry
	// Now is an injectable clock. Defaults to time.Now.
	Now func() time.Time
}

// Cache holds the last-known full snapshot of all campaigns.
//
// The snapshot is the only shared mutable state of the sync layer. It is
// swapped as a whole value under the lock, so a concurrent reader always
// observes either the old complete snapshot or the new complete snapshot.
// Each refresh carries a sequence number; a refresh that completes after a
// newer one has already been applied is discarded, so a slow stale read can
// never overwrite fresher data.
type Cache struct {
	ledger Ledger
	ttl    time.Duration
	log    *logrus.Entry
	now    func() time.Time

	mu          sync.RWMutex
	snap        Snapshot
	issued      uint64
	lastApplied uint64
}

// NewCache creates a campaign cache backed by the given ledger.
func NewCache(cfg CacheConfig) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSnapshotTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Cache{
		ledger: cfg.Ledger,
		ttl:    cfg.TTL,
		log:    cfg.Logger.WithField("component", "cache"),
		now:    cfg.Now,
	}
}

// Refresh unconditionally issues one remote read of the full campaign set and
// replaces the held snapshot. On failure the held snapshot is untouched and
// returned alongside the error; FetchedAt is not advanced.
func (c *Cache) Refresh(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.mu.Unlock()

	campaigns, err := c.ledger.ListCampaigns(ctx)
	if err != nil {
		metrics.CacheRefreshFailures.Inc()
		c.log.WithError(err).Warn("snapshot refresh failed; serving previous snapshot")
		c.mu.RLock()
		held := c.snap
		c.mu.RUnlock()
		return held, remoteReadErr("list campaigns", err)
	}

	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.lastApplied {
		// A newer refresh already completed; this result is stale.
		c.log.WithFields(logrus.Fields{"seq": seq, "applied": c.lastApplied}).
			Debug("discarding out-of-order refresh result")
		return c.snap, nil
	}
	c.snap = Snapshot{Campaigns: campaigns, FetchedAt: now}
	c.lastApplied = seq
	metrics.CacheRefreshes.Inc()
	metrics.SnapshotCampaigns.Set(float64(len(campaigns)))
	return c.snap, nil
}

// GetAll returns the held snapshot while it is fresh and non-empty, otherwise
// refreshes first. Freshness is a best-effort bound; callers that need
// certainty call Refresh directly. When a triggered refresh fails, the stale
// snapshot is returned together with the error.
func (c *Cache) GetAll(ctx context.Context) (Snapshot, error) {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()

	if len(snap.Campaigns) > 0 && c.now().Sub(snap.FetchedAt) < c.ttl {
		metrics.CacheHits.Inc()
		return snap, nil
	}

	fresh, err := c.Refresh(ctx)
	if err != nil {
		return snap, err
	}
	return fresh, nil
}

// GetByOwner filters the snapshot by exact owner match, order preserved.
func (c *Cache) GetByOwner(ctx context.Context, owner string) ([]Campaign, error) {
	snap, err := c.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []Campaign
	for _, campaign := range snap.Campaigns {
		if campaign.Owner == owner {
			out = append(out, campaign)
		}
	}
	return out, nil
}

// GetByStatus filters the snapshot by exact status match, order preserved.
func (c *Cache) GetByStatus(ctx context.Context, status Status) ([]Campaign, error) {
	snap, err := c.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []Campaign
	for _, campaign := range snap.Campaigns {
		if campaign.Status == status {
			out = append(out, campaign)
		}
	}
	return out, nil
}
