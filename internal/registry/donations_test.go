package registry

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/CrowdChain-Network/registry_layer/pkg/logger"
)

func newTestRecorder(t *testing.T, ledger *MemoryLedger) *Recorder {
	t.Helper()
	cache := NewCache(CacheConfig{Ledger: ledger, Logger: logger.NewNop()})
	return NewRecorder(ledger, cache, logger.NewNop())
}

func TestDonateRejectsNonPositiveAmounts(t *testing.T) {
	ledger := NewMemoryLedger()
	id := ledger.SeedCampaign(Campaign{Title: "well"})
	recorder := newTestRecorder(t, ledger)

	for _, amount := range []*big.Int{nil, big.NewInt(0), big.NewInt(-1)} {
		if _, err := recorder.Donate(context.Background(), id, amount); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Donate(%v) error = %v, want ErrInvalidArgument", amount, err)
		}
	}
	if got := ledger.Calls("DonateToCampaign"); got != 0 {
		t.Errorf("DonateToCampaign calls = %d, want 0", got)
	}
}

func TestDonateRefreshesAndIsVisibleInListing(t *testing.T) {
	ledger := NewMemoryLedger()
	id := ledger.SeedCampaign(Campaign{Title: "well"})
	recorder := newTestRecorder(t, ledger)

	receipt, err := recorder.Donate(context.Background(), id, big.NewInt(250))
	if err != nil {
		t.Fatalf("Donate() error = %v", err)
	}
	if receipt == nil || receipt.TxHash == "" {
		t.Fatal("Donate() returned no receipt")
	}
	if got := ledger.Calls("ListCampaigns"); got != 1 {
		t.Errorf("ListCampaigns calls = %d, want exactly 1 post-donation refresh", got)
	}

	donations, err := recorder.ListDonations(context.Background(), id)
	if err != nil {
		t.Fatalf("ListDonations() error = %v", err)
	}
	if len(donations) != 1 || donations[0].Amount.Cmp(big.NewInt(250)) != 0 {
		t.Errorf("ListDonations() = %+v, want one donation of 250", donations)
	}
}

func TestDonateToUnknownCampaignSurfacesNotFound(t *testing.T) {
	ledger := NewMemoryLedger()
	recorder := newTestRecorder(t, ledger)

	if _, err := recorder.Donate(context.Background(), 9, big.NewInt(1)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Donate() error = %v, want ErrNotFound", err)
	}
}

func TestListDonationsEmptyCampaign(t *testing.T) {
	ledger := NewMemoryLedger()
	id := ledger.SeedCampaign(Campaign{Title: "well"})
	recorder := newTestRecorder(t, ledger)

	donations, err := recorder.ListDonations(context.Background(), id)
	if err != nil {
		t.Fatalf("ListDonations() error = %v", err)
	}
	if len(donations) != 0 {
		t.Errorf("ListDonations() = %+v, want empty", donations)
	}
}

func TestListDonationsPreservesSubmissionOrder(t *testing.T) {
	ledger := NewMemoryLedger()
	id := ledger.SeedCampaign(Campaign{Title: "well"})
	recorder := newTestRecorder(t, ledger)

	amounts := []int64{10, 5, 10, 1}
	for _, a := range amounts {
		if _, err := recorder.Donate(context.Background(), id, big.NewInt(a)); err != nil {
			t.Fatalf("Donate(%d) error = %v", a, err)
		}
	}

	donations, err := recorder.ListDonations(context.Background(), id)
	if err != nil {
		t.Fatalf("ListDonations() error = %v", err)
	}
	if len(donations) != len(amounts) {
		t.Fatalf("len = %d, want %d (no dedup, no reorder)", len(donations), len(amounts))
	}
	for i, a := range amounts {
		if donations[i].Amount.Int64() != a {
			t.Errorf("donations[%d] = %v, want %d", i, donations[i].Amount, a)
		}
	}
}
