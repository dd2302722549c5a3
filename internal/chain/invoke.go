package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DefaultTxWaitTimeout is the default timeout for waiting for transaction execution.
const DefaultTxWaitTimeout = 2 * time.Minute

// DefaultPollInterval is the default interval for polling transaction status.
const DefaultPollInterval = 2 * time.Second

// InvokeFunction invokes a contract function (read-only).
func (c *Client) InvokeFunction(ctx context.Context, scriptHash string, method string, params []ContractParam) (*InvokeResult, error) {
	args := []interface{}{scriptHash, method, params}
	result, err := c.Call(ctx, "invokefunction", args)
	if err != nil {
		return nil, err
	}

	var invokeResult InvokeResult
	if err := json.Unmarshal(result, &invokeResult); err != nil {
		return nil, err
	}
	return &invokeResult, nil
}

// WaitForApplicationLog polls for a transaction application log until it is available or context is done.
// A missing transaction is treated as transient and retried until the context deadline expires.
func (c *Client) WaitForApplicationLog(ctx context.Context, txHash string, pollInterval time.Duration) (*ApplicationLog, error) {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			log, err := c.GetApplicationLog(ctx, txHash)
			if err != nil {
				if isNotFoundError(err) {
					continue
				}
				return nil, err
			}
			return log, nil
		}
	}
}

// InvokeFunctionAndWait invokes a contract function and optionally waits for execution.
// If wait is true, it waits for the transaction to be included in a block and returns
// the application log. If wait is false, it returns immediately after broadcasting with
// only the TxHash populated. A partially populated TxResult is returned together with
// the wait error so callers can still observe the committed transaction hash.
func (c *Client) InvokeFunctionAndWait(ctx context.Context, contractHash, method string, params []ContractParam, wait bool) (*TxResult, error) {
	invokeResult, err := c.InvokeFunction(ctx, contractHash, method, params)
	if err != nil {
		return nil, fmt.Errorf("invoke %s: %w", method, err)
	}

	if invokeResult.State != "HALT" {
		return nil, fmt.Errorf("%s failed: %s", method, invokeResult.Exception)
	}

	result := &TxResult{
		TxHash:  invokeResult.Tx,
		VMState: invokeResult.State,
	}

	if !wait {
		return result, nil
	}

	wctx, cancel := context.WithTimeout(ctx, DefaultTxWaitTimeout)
	defer cancel()

	appLog, err := c.WaitForApplicationLog(wctx, invokeResult.Tx, DefaultPollInterval)
	if err != nil {
		return result, fmt.Errorf("wait for %s execution: %w", method, err)
	}

	result.AppLog = appLog

	// Update VMState from actual execution
	if len(appLog.Executions) > 0 {
		result.VMState = appLog.Executions[0].VMState
	}

	return result, nil
}

func isNotFoundError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unknown transaction") || strings.Contains(msg, "not found")
}
