package registry

import (
	"context"
	"fmt"
	"math/big"
	"sync"
)

// MemoryLedger is an in-memory implementation of Ledger for testing. It
// enforces the same rules the remote contract does: campaigns start Pending,
// only Pending campaigns can transition, and Approved/Rejected are terminal.
// Per-method hook functions override the default behavior, and every call is
// counted so tests can assert that preconditions issue zero remote calls.
type MemoryLedger struct {
	mu        sync.Mutex
	campaigns []Campaign
	donations map[int64][]Donation
	admins    map[string]bool
	calls     map[string]int

	// Hooks override the in-memory behavior when non-nil.
	ListCampaignsFn func(ctx context.Context) ([]Campaign, error)
	HasRoleFn       func(ctx context.Context, roleID []byte, identity string) (bool, error)
	WriteErr        error
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		donations: make(map[int64][]Donation),
		admins:    make(map[string]bool),
		calls:     make(map[string]int),
	}
}

// SeedCampaign appends a campaign directly, bypassing call counting.
func (l *MemoryLedger) SeedCampaign(c Campaign) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	c.ID = int64(len(l.campaigns))
	if c.Target == nil {
		c.Target = big.NewInt(0)
	}
	if c.AmountCollected == nil {
		c.AmountCollected = big.NewInt(0)
	}
	l.campaigns = append(l.campaigns, c)
	return c.ID
}

// GrantAdmin marks an identity as holding the admin role.
func (l *MemoryLedger) GrantAdmin(identity string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.admins[identity] = true
}

// Calls returns how many times the named method was invoked.
func (l *MemoryLedger) Calls(method string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[method]
}

func (l *MemoryLedger) count(method string) {
	l.mu.Lock()
	l.calls[method]++
	l.mu.Unlock()
}

func (l *MemoryLedger) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	l.count("ListCampaigns")
	if l.ListCampaignsFn != nil {
		return l.ListCampaignsFn(ctx)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Campaign, len(l.campaigns))
	copy(out, l.campaigns)
	return out, nil
}

func (l *MemoryLedger) CampaignCount(ctx context.Context) (int64, error) {
	l.count("CampaignCount")
	l.mu.Lock()
	defer l.mu.Unlock()
	return int64(len(l.campaigns)), nil
}

func (l *MemoryLedger) CreateCampaign(ctx context.Context, owner, title, description string, target *big.Int, deadline int64, image string) (*Receipt, error) {
	l.count("CreateCampaign")
	if l.WriteErr != nil {
		return nil, l.WriteErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	id := int64(len(l.campaigns))
	l.campaigns = append(l.campaigns, Campaign{
		ID:              id,
		Owner:           owner,
		Title:           title,
		Description:     description,
		Target:          new(big.Int).Set(target),
		Deadline:        deadline,
		AmountCollected: big.NewInt(0),
		Image:           image,
		Status:          StatusPending,
	})
	return &Receipt{TxHash: fmt.Sprintf("0xcreate%d", id), VMState: "HALT"}, nil
}

func (l *MemoryLedger) ApproveCampaign(ctx context.Context, id int64) (*Receipt, error) {
	l.count("ApproveCampaign")
	if l.WriteErr != nil {
		return nil, l.WriteErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if id < 0 || id >= int64(len(l.campaigns)) {
		return nil, fmt.Errorf("campaign %d not found", id)
	}
	if l.campaigns[id].Status != StatusPending {
		return nil, fmt.Errorf("campaign %d is not pending", id)
	}
	l.campaigns[id].Status = StatusApproved
	return &Receipt{TxHash: fmt.Sprintf("0xapprove%d", id), VMState: "HALT"}, nil
}

func (l *MemoryLedger) RejectCampaign(ctx context.Context, id int64, reason string) (*Receipt, error) {
	l.count("RejectCampaign")
	if l.WriteErr != nil {
		return nil, l.WriteErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if id < 0 || id >= int64(len(l.campaigns)) {
		return nil, fmt.Errorf("campaign %d not found", id)
	}
	if l.campaigns[id].Status != StatusPending {
		return nil, fmt.Errorf("campaign %d is not pending", id)
	}
	l.campaigns[id].Status = StatusRejected
	l.campaigns[id].RejectionReason = reason
	return &Receipt{TxHash: fmt.Sprintf("0xreject%d", id), VMState: "HALT"}, nil
}

func (l *MemoryLedger) DonateToCampaign(ctx context.Context, id int64, amount *big.Int) (*Receipt, error) {
	l.count("DonateToCampaign")
	if l.WriteErr != nil {
		return nil, l.WriteErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if id < 0 || id >= int64(len(l.campaigns)) {
		return nil, fmt.Errorf("campaign %d not found", id)
	}
	l.donations[id] = append(l.donations[id], Donation{Donator: "0xdonator", Amount: new(big.Int).Set(amount)})
	l.campaigns[id].AmountCollected = new(big.Int).Add(l.campaigns[id].AmountCollected, amount)
	return &Receipt{TxHash: fmt.Sprintf("0xdonate%d", id), VMState: "HALT"}, nil
}

func (l *MemoryLedger) GetDonators(ctx context.Context, id int64) ([]string, []*big.Int, error) {
	l.count("GetDonators")
	l.mu.Lock()
	defer l.mu.Unlock()
	var donators []string
	var amounts []*big.Int
	for _, d := range l.donations[id] {
		donators = append(donators, d.Donator)
		amounts = append(amounts, d.Amount)
	}
	return donators, amounts, nil
}

func (l *MemoryLedger) HasRole(ctx context.Context, roleID []byte, identity string) (bool, error) {
	l.count("HasRole")
	if l.HasRoleFn != nil {
		return l.HasRoleFn(ctx, roleID, identity)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.admins[identity], nil
}
