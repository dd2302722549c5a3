package registrychain

import (
	"fmt"

	"github.com/CrowdChain-Network/registry_layer/internal/chain"
	"github.com/CrowdChain-Network/registry_layer/internal/registry"
)

// Campaign tuple layout as returned by getCampaigns:
// owner, title, description, target, deadline, amountCollected, image,
// donators, donations, status, rejectionReason.
const (
	fieldOwner = iota
	fieldTitle
	fieldDescription
	fieldTarget
	fieldDeadline
	fieldAmountCollected
	fieldImage
	fieldDonators
	fieldDonations
	fieldStatus
	fieldRejectionReason
	campaignFieldCount
)

// parseCampaign parses one campaign tuple. The id is the tuple's sequence
// position in the full campaign set.
func parseCampaign(item chain.StackItem, id int64) (registry.Campaign, error) {
	var campaign registry.Campaign

	items, err := chain.ParseArray(item)
	if err != nil {
		return campaign, err
	}
	if len(items) < campaignFieldCount {
		return campaign, fmt.Errorf("expected at least %d items, got %d", campaignFieldCount, len(items))
	}

	owner, err := chain.ParseHash160(items[fieldOwner])
	if err != nil {
		return campaign, fmt.Errorf("parse owner: %w", err)
	}
	title, err := chain.ParseString(items[fieldTitle])
	if err != nil {
		return campaign, fmt.Errorf("parse title: %w", err)
	}
	description, err := chain.ParseString(items[fieldDescription])
	if err != nil {
		return campaign, fmt.Errorf("parse description: %w", err)
	}
	target, err := chain.ParseInteger(items[fieldTarget])
	if err != nil {
		return campaign, fmt.Errorf("parse target: %w", err)
	}
	deadline, err := chain.ParseInteger(items[fieldDeadline])
	if err != nil {
		return campaign, fmt.Errorf("parse deadline: %w", err)
	}
	amountCollected, err := chain.ParseInteger(items[fieldAmountCollected])
	if err != nil {
		return campaign, fmt.Errorf("parse amountCollected: %w", err)
	}
	image, err := chain.ParseString(items[fieldImage])
	if err != nil {
		return campaign, fmt.Errorf("parse image: %w", err)
	}
	status, err := chain.ParseInteger(items[fieldStatus])
	if err != nil {
		return campaign, fmt.Errorf("parse status: %w", err)
	}
	// rejectionReason is empty unless the campaign is rejected
	reason, _ := chain.ParseString(items[fieldRejectionReason])

	return registry.Campaign{
		ID:              id,
		Owner:           owner,
		Title:           title,
		Description:     description,
		Target:          target,
		Deadline:        deadline.Int64(),
		AmountCollected: amountCollected,
		Image:           image,
		Status:          registry.Status(status.Uint64()),
		RejectionReason: reason,
	}, nil
}
