package registry

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/CrowdChain-Network/registry_layer/pkg/logger"
)

func TestCheckWithoutIdentityResolvesImmediately(t *testing.T) {
	ledger := NewMemoryLedger()
	gate := NewGate(ledger, logger.NewNop())

	d := gate.Check(context.Background(), "")
	if d.Pending() {
		t.Fatal("decision still pending after check")
	}
	if d.IsAdmin {
		t.Error("no identity must resolve to non-admin")
	}
	if got := ledger.Calls("HasRole"); got != 0 {
		t.Errorf("HasRole calls = %d, want 0", got)
	}
}

func TestCheckWithoutLedgerResolvesImmediately(t *testing.T) {
	gate := NewGate(nil, logger.NewNop())

	d := gate.Check(context.Background(), "0xsomeone")
	if d.Pending() || d.IsAdmin {
		t.Errorf("decision = %+v, want determined non-admin", d)
	}
}

func TestCheckResolvesAdmin(t *testing.T) {
	ledger := NewMemoryLedger()
	ledger.GrantAdmin("0xadmin")
	gate := NewGate(ledger, logger.NewNop())

	d := gate.Check(context.Background(), "0xadmin")
	if !d.Determined || !d.IsAdmin {
		t.Errorf("decision = %+v, want determined admin", d)
	}

	d = gate.Check(context.Background(), "0xnobody")
	if !d.Determined || d.IsAdmin {
		t.Errorf("decision = %+v, want determined non-admin", d)
	}
}

func TestCheckFailsOpenOnRoleReadError(t *testing.T) {
	ledger := NewMemoryLedger()
	ledger.HasRoleFn = func(ctx context.Context, roleID []byte, identity string) (bool, error) {
		return false, errors.New("node unreachable")
	}
	gate := NewGate(ledger, logger.NewNop())

	d := gate.Check(context.Background(), "0xadmin")
	if d.Pending() {
		t.Fatal("check must resolve even when the role read fails")
	}
	if d.IsAdmin {
		t.Error("failed role read must fail open to non-admin")
	}
}

func TestStaleIdentityResultDiscarded(t *testing.T) {
	ledger := NewMemoryLedger()
	ledger.GrantAdmin("0xold")

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	ledger.HasRoleFn = func(ctx context.Context, roleID []byte, identity string) (bool, error) {
		if identity == "0xold" {
			once.Do(func() { close(entered) })
			<-release
			return true, nil
		}
		return false, nil
	}
	gate := NewGate(ledger, logger.NewNop())

	done := make(chan Decision, 1)
	go func() {
		done <- gate.Check(context.Background(), "0xold")
	}()
	<-entered

	// The caller switches identity while the old check is still in flight.
	fresh := gate.Check(context.Background(), "0xnew")
	if fresh.Identity != "0xnew" || fresh.IsAdmin {
		t.Fatalf("decision = %+v, want determined non-admin for 0xnew", fresh)
	}

	close(release)
	stale := <-done

	// The superseded result must not clobber the newer identity's decision.
	if got := gate.Current(); got.Identity != "0xnew" || got.IsAdmin {
		t.Errorf("current decision = %+v, want 0xnew non-admin", got)
	}
	if stale.Identity != "0xnew" {
		t.Errorf("stale check returned %+v, want the superseding decision", stale)
	}
}

func TestAdminRoleIDIsKeccakOfRoleName(t *testing.T) {
	id := AdminRoleID()
	if len(id) != 32 {
		t.Fatalf("role id length = %d, want 32", len(id))
	}
	// Stable across calls.
	other := AdminRoleID()
	for i := range id {
		if id[i] != other[i] {
			t.Fatal("role id not deterministic")
		}
	}
}
