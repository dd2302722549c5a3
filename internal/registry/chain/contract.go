// Package registrychain binds the on-chain campaign registry contract to the
// registry.Ledger boundary.
package registrychain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/CrowdChain-Network/registry_layer/internal/chain"
	"github.com/CrowdChain-Network/registry_layer/internal/registry"
)

// Contract provides interaction with the campaign registry contract.
// Read methods need no signing identity; write methods require a wallet.
type Contract struct {
	client       *chain.Client
	contractHash string
	wallet       *chain.Wallet
}

// New creates a new registry contract interface.
func New(client *chain.Client, contractHash string, wallet *chain.Wallet) *Contract {
	return &Contract{
		client:       client,
		contractHash: contractHash,
		wallet:       wallet,
	}
}

// compile-time boundary check
var _ registry.Ledger = (*Contract)(nil)

// =============================================================================
// Read Methods
// =============================================================================

// ListCampaigns returns every campaign ever created, in creation order. The
// campaign id is its sequence position, assigned by the ledger and never
// reused.
func (c *Contract) ListCampaigns(ctx context.Context) ([]registry.Campaign, error) {
	result, err := c.client.InvokeFunction(ctx, c.contractHash, "getCampaigns", nil)
	if err != nil {
		return nil, err
	}
	if result.State != "HALT" {
		return nil, fmt.Errorf("execution failed: %s", result.Exception)
	}
	if len(result.Stack) == 0 {
		return nil, fmt.Errorf("no result")
	}

	items, err := chain.ParseArray(result.Stack[0])
	if err != nil {
		return nil, fmt.Errorf("parse campaigns: %w", err)
	}

	campaigns := make([]registry.Campaign, 0, len(items))
	for i, item := range items {
		campaign, err := parseCampaign(item, int64(i))
		if err != nil {
			return nil, fmt.Errorf("parse campaign %d: %w", i, err)
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, nil
}

// CampaignCount returns the total number of campaigns ever created.
func (c *Contract) CampaignCount(ctx context.Context) (int64, error) {
	result, err := c.client.InvokeFunction(ctx, c.contractHash, "campaignCount", nil)
	if err != nil {
		return 0, err
	}
	if result.State != "HALT" {
		return 0, fmt.Errorf("execution failed: %s", result.Exception)
	}
	if len(result.Stack) == 0 {
		return 0, fmt.Errorf("no result")
	}
	count, err := chain.ParseInteger(result.Stack[0])
	if err != nil {
		return 0, err
	}
	return count.Int64(), nil
}

// GetDonators returns the parallel donor and amount sequences for a campaign,
// paired positionally by index.
func (c *Contract) GetDonators(ctx context.Context, id int64) ([]string, []*big.Int, error) {
	params := []chain.ContractParam{chain.NewIntegerParam(big.NewInt(id))}
	result, err := c.client.InvokeFunction(ctx, c.contractHash, "getDonators", params)
	if err != nil {
		return nil, nil, err
	}
	if result.State != "HALT" {
		return nil, nil, fmt.Errorf("execution failed: %s", result.Exception)
	}
	if len(result.Stack) == 0 {
		return nil, nil, fmt.Errorf("no result")
	}

	pair, err := chain.ParseArray(result.Stack[0])
	if err != nil {
		return nil, nil, fmt.Errorf("parse donator pair: %w", err)
	}
	if len(pair) < 2 {
		return nil, nil, fmt.Errorf("expected 2 sequences, got %d", len(pair))
	}

	donatorItems, err := chain.ParseArray(pair[0])
	if err != nil {
		return nil, nil, fmt.Errorf("parse donators: %w", err)
	}
	amountItems, err := chain.ParseArray(pair[1])
	if err != nil {
		return nil, nil, fmt.Errorf("parse amounts: %w", err)
	}

	donators := make([]string, 0, len(donatorItems))
	for i, item := range donatorItems {
		donator, err := chain.ParseHash160(item)
		if err != nil {
			return nil, nil, fmt.Errorf("parse donator %d: %w", i, err)
		}
		donators = append(donators, donator)
	}
	amounts := make([]*big.Int, 0, len(amountItems))
	for i, item := range amountItems {
		amount, err := chain.ParseInteger(item)
		if err != nil {
			return nil, nil, fmt.Errorf("parse amount %d: %w", i, err)
		}
		amounts = append(amounts, amount)
	}
	return donators, amounts, nil
}

// HasRole checks role membership for an identity.
func (c *Contract) HasRole(ctx context.Context, roleID []byte, identity string) (bool, error) {
	params := []chain.ContractParam{
		chain.NewByteArrayParam(roleID),
		chain.NewHash160Param(identity),
	}
	result, err := c.client.InvokeFunction(ctx, c.contractHash, "hasRole", params)
	if err != nil {
		return false, err
	}
	if result.State != "HALT" {
		return false, fmt.Errorf("execution failed: %s", result.Exception)
	}
	if len(result.Stack) == 0 {
		return false, fmt.Errorf("no result")
	}
	return chain.ParseBoolean(result.Stack[0])
}

// =============================================================================
// Write Methods
// =============================================================================

// CreateCampaign submits a new campaign. The ledger assigns the id and the
// campaign starts Pending.
func (c *Contract) CreateCampaign(ctx context.Context, owner, title, description string, target *big.Int, deadline int64, image string) (*registry.Receipt, error) {
	params := []chain.ContractParam{
		chain.NewHash160Param(owner),
		chain.NewStringParam(title),
		chain.NewStringParam(description),
		chain.NewIntegerParam(target),
		chain.NewIntegerParam(big.NewInt(deadline)),
		chain.NewStringParam(image),
	}
	return c.write(ctx, "createCampaign", params)
}

// ApproveCampaign transitions a pending campaign to Approved. The contract
// enforces the admin gate and transition legality remotely as well.
func (c *Contract) ApproveCampaign(ctx context.Context, id int64) (*registry.Receipt, error) {
	params := []chain.ContractParam{chain.NewIntegerParam(big.NewInt(id))}
	return c.write(ctx, "approveCampaign", params)
}

// RejectCampaign transitions a pending campaign to Rejected with a reason.
func (c *Contract) RejectCampaign(ctx context.Context, id int64, reason string) (*registry.Receipt, error) {
	params := []chain.ContractParam{
		chain.NewIntegerParam(big.NewInt(id)),
		chain.NewStringParam(reason),
	}
	return c.write(ctx, "rejectCampaign", params)
}

// DonateToCampaign issues a value-bearing donation write.
func (c *Contract) DonateToCampaign(ctx context.Context, id int64, amount *big.Int) (*registry.Receipt, error) {
	params := []chain.ContractParam{
		chain.NewIntegerParam(big.NewInt(id)),
		chain.NewIntegerParam(amount),
	}
	return c.write(ctx, "donateToCampaign", params)
}

// write invokes a state-changing method and waits for its execution. The
// receipt reflects the committed VM state; a reverted execution is an error.
func (c *Contract) write(ctx context.Context, method string, params []chain.ContractParam) (*registry.Receipt, error) {
	if c.wallet == nil {
		return nil, fmt.Errorf("wallet required for write operations")
	}

	txResult, err := c.client.InvokeFunctionAndWait(ctx, c.contractHash, method, params, true)
	if err != nil {
		return nil, err
	}
	if txResult.VMState != "HALT" {
		return nil, fmt.Errorf("%s reverted: state %s", method, txResult.VMState)
	}

	return &registry.Receipt{TxHash: txResult.TxHash, VMState: txResult.VMState}, nil
}
