package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/CrowdChain-Network/registry_layer/internal/metrics"
)

// Moderator drives campaign transitions out of Pending. Approved and Rejected
// are terminal; the ledger is the final arbiter of transition legality, the
// moderator only enforces client-side preconditions and the admin gate.
type Moderator struct {
	ledger Ledger
	cache  *Cache
	gate   *Gate
	log    *logrus.Entry
}

// NewModerator creates a moderator over the given ledger, cache and gate.
func NewModerator(ledger Ledger, cache *Cache, gate *Gate, log *logrus.Entry) *Moderator {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Moderator{
		ledger: ledger,
		cache:  cache,
		gate:   gate,
		log:    log.WithField("component", "moderation"),
	}
}

// Approve transitions a pending campaign to Approved. The caller must be a
// confirmed admin. One cache refresh is forced after the write is confirmed; a
// refresh failure is returned alongside the receipt and does not roll back the
// committed transition.
func (m *Moderator) Approve(ctx context.Context, id int64) (*Receipt, error) {
	if err := m.requireAdmin(); err != nil {
		return nil, err
	}

	receipt, err := m.ledger.ApproveCampaign(ctx, id)
	if err != nil {
		metrics.LedgerWrites.WithLabelValues("approve", "failure").Inc()
		return nil, classifyWriteErr("approve campaign", err)
	}
	metrics.LedgerWrites.WithLabelValues("approve", "success").Inc()
	m.log.WithFields(logrus.Fields{"campaign": id, "tx": receipt.TxHash}).Info("campaign approved")

	return m.refreshAfterWrite(ctx, receipt, "approve")
}

// Reject transitions a pending campaign to Rejected. The reason must be
// non-empty; an empty reason fails before any remote call is made.
func (m *Moderator) Reject(ctx context.Context, id int64, reason string) (*Receipt, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: rejection reason must not be empty", ErrInvalidArgument)
	}
	if err := m.requireAdmin(); err != nil {
		return nil, err
	}

	receipt, err := m.ledger.RejectCampaign(ctx, id, reason)
	if err != nil {
		metrics.LedgerWrites.WithLabelValues("reject", "failure").Inc()
		return nil, classifyWriteErr("reject campaign", err)
	}
	metrics.LedgerWrites.WithLabelValues("reject", "success").Inc()
	m.log.WithFields(logrus.Fields{"campaign": id, "tx": receipt.TxHash}).Info("campaign rejected")

	return m.refreshAfterWrite(ctx, receipt, "reject")
}

func (m *Moderator) requireAdmin() error {
	d := m.gate.Current()
	if d.Pending() {
		return fmt.Errorf("%w: authorization check has not resolved", ErrNotAuthorized)
	}
	if !d.IsAdmin {
		return fmt.Errorf("%w: identity %q", ErrNotAuthorized, d.Identity)
	}
	return nil
}

// refreshAfterWrite forces one cache refresh after a confirmed write. The
// write has no compensating action, so a refresh failure leaves the cache
// stale rather than rolled back; the receipt is still returned so callers can
// observe the committed transaction.
func (m *Moderator) refreshAfterWrite(ctx context.Context, receipt *Receipt, op string) (*Receipt, error) {
	if _, err := m.cache.Refresh(ctx); err != nil {
		m.log.WithError(err).Warn("post-write refresh failed; cache is stale until next TTL expiry")
		return receipt, fmt.Errorf("%s confirmed (tx %s) but refresh failed: %w", op, receipt.TxHash, err)
	}
	return receipt, nil
}
