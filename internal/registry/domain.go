// Package registry implements the client-side synchronization layer for the
// on-chain campaign registry: a time-bounded snapshot cache, the moderation
// workflow, the authorization gate and the donation recorder.
package registry

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// Status is the moderation status of a campaign.
// A campaign starts Pending and transitions at most once; Approved and
// Rejected are terminal.
type Status uint8

const (
	StatusPending  Status = 0
	StatusApproved Status = 1
	StatusRejected Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// ParseStatus parses a status name or ordinal.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "0":
		return StatusPending, nil
	case "approved", "1":
		return StatusApproved, nil
	case "rejected", "2":
		return StatusRejected, nil
	default:
		return 0, fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, s)
	}
}

// Campaign is one fundraising request mirrored from the ledger.
// Amounts are integer base units of the ledger currency.
type Campaign struct {
	ID              int64    `json:"id"`
	Owner           string   `json:"owner"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Target          *big.Int `json:"target"`
	Deadline        int64    `json:"deadline"`
	AmountCollected *big.Int `json:"amount_collected"`
	Image           string   `json:"image"`
	Status          Status   `json:"status"`
	RejectionReason string   `json:"rejection_reason,omitempty"`
}

// Expired reports whether the campaign deadline has passed at the given time.
func (c Campaign) Expired(now time.Time) bool {
	return now.Unix() > c.Deadline
}

// Donation is one append-only donation record.
type Donation struct {
	Donator string   `json:"donator"`
	Amount  *big.Int `json:"amount"`
}

// Snapshot is the in-memory copy of all campaigns as of a point in time.
// It is replaced wholesale, never patched.
type Snapshot struct {
	Campaigns []Campaign `json:"campaigns"`
	FetchedAt time.Time  `json:"fetched_at"`
}

// Receipt is the confirmation of a committed write.
type Receipt struct {
	TxHash  string `json:"tx_hash"`
	VMState string `json:"vm_state"`
}

// Ledger is the remote campaign registry boundary. The ledger owns all
// authoritative state; every method is a remote call that may fail.
type Ledger interface {
	ListCampaigns(ctx context.Context) ([]Campaign, error)
	CampaignCount(ctx context.Context) (int64, error)
	CreateCampaign(ctx context.Context, owner, title, description string, target *big.Int, deadline int64, image string) (*Receipt, error)
	ApproveCampaign(ctx context.Context, id int64) (*Receipt, error)
	RejectCampaign(ctx context.Context, id int64, reason string) (*Receipt, error)
	DonateToCampaign(ctx context.Context, id int64, amount *big.Int) (*Receipt, error)
	GetDonators(ctx context.Context, id int64) ([]string, []*big.Int, error)
	HasRole(ctx context.Context, roleID []byte, identity string) (bool, error)
}
