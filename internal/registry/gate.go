package registry

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/sha3"

	"github.com/CrowdChain-Network/registry_layer/internal/metrics"
)

// AdminRoleID derives the role-membership key for the administrative role.
func AdminRoleID() []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte("ADMIN_ROLE"))
	return h.Sum(nil)
}

// Decision is the outcome of an authorization check. A zero Decision is
// pending: the check has not resolved yet, which callers must render
// differently from a determined non-admin.
type Decision struct {
	// Identity the check was issued for.
	Identity string `json:"identity"`
	// Determined is true once the check has resolved for this identity.
	Determined bool `json:"determined"`
	// IsAdmin is only meaningful when Determined is true.
	IsAdmin bool `json:"is_admin"`
}

// Pending reports whether the check is still in flight.
func (d Decision) Pending() bool {
	return !d.Determined
}

// Gate resolves whether a caller holds the administrative role.
//
// The gate fails open to "not admin": a failed role read resolves determined
// with IsAdmin false rather than staying pending. Results are last-writer-wins
// keyed by identity: a check that resolves after the gate has moved on to a
// different identity is discarded.
type Gate struct {
	ledger Ledger // nil when no ledger connection is available
	roleID []byte
	log    *logrus.Entry

	mu       sync.Mutex
	identity string
	decision Decision
}

// NewGate creates an authorization gate. A nil ledger means every check
// resolves immediately to determined non-admin.
func NewGate(ledger Ledger, log *logrus.Entry) *Gate {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Gate{
		ledger: ledger,
		roleID: AdminRoleID(),
		log:    log.WithField("component", "gate"),
	}
}

// Check resolves the authorization state for the given identity. With no
// ledger or no identity it resolves immediately without a remote call. The
// returned decision is always determined; if a concurrent check for a newer
// identity superseded this one, the newer decision is returned instead.
func (g *Gate) Check(ctx context.Context, identity string) Decision {
	if g.ledger == nil || identity == "" {
		d := Decision{Identity: identity, Determined: true, IsAdmin: false}
		g.mu.Lock()
		g.identity = identity
		g.decision = d
		g.mu.Unlock()
		metrics.AuthorizationChecks.WithLabelValues("skipped").Inc()
		return d
	}

	g.mu.Lock()
	g.identity = identity
	if g.decision.Identity != identity {
		// New identity: drop the previous decision and go back to pending.
		g.decision = Decision{Identity: identity}
	}
	g.mu.Unlock()

	isAdmin, err := g.ledger.HasRole(ctx, g.roleID, identity)
	if err != nil {
		g.log.WithError(err).WithField("identity", identity).
			Warn("role check failed; failing open to non-admin")
		metrics.AuthorizationChecks.WithLabelValues("error").Inc()
		isAdmin = false
	} else if isAdmin {
		metrics.AuthorizationChecks.WithLabelValues("admin").Inc()
	} else {
		metrics.AuthorizationChecks.WithLabelValues("not_admin").Inc()
	}

	d := Decision{Identity: identity, Determined: true, IsAdmin: isAdmin}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.identity != identity {
		// Superseded by a check for a newer identity.
		return g.decision
	}
	g.decision = d
	return d
}

// Current returns the latest decision without issuing a remote call.
func (g *Gate) Current() Decision {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.decision
}
