package chain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
)

// =============================================================================
// JSON-RPC Wire Types
// =============================================================================

// RPCRequest is a JSON-RPC 2.0 request envelope.
type RPCRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

// RPCResponse is a JSON-RPC 2.0 response envelope.
type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

// RPCError is a JSON-RPC error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// =============================================================================
// Invocation Types
// =============================================================================

// InvokeResult is the result of a contract invocation.
type InvokeResult struct {
	Script      string      `json:"script"`
	State       string      `json:"state"`
	GasConsumed string      `json:"gasconsumed"`
	Exception   string      `json:"exception"`
	Stack       []StackItem `json:"stack"`
	Tx          string      `json:"tx"`
}

// StackItem is a typed value on the VM evaluation stack.
type StackItem struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// ContractParam is a typed parameter for a contract invocation.
type ContractParam struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// NewStringParam creates a String contract parameter.
func NewStringParam(s string) ContractParam {
	return ContractParam{Type: "String", Value: s}
}

// NewIntegerParam creates an Integer contract parameter.
func NewIntegerParam(n *big.Int) ContractParam {
	return ContractParam{Type: "Integer", Value: n.String()}
}

// NewBoolParam creates a Boolean contract parameter.
func NewBoolParam(b bool) ContractParam {
	return ContractParam{Type: "Boolean", Value: b}
}

// NewByteArrayParam creates a ByteArray contract parameter.
func NewByteArrayParam(b []byte) ContractParam {
	return ContractParam{Type: "ByteArray", Value: base64.StdEncoding.EncodeToString(b)}
}

// NewHash160Param creates a Hash160 contract parameter from an address string.
func NewHash160Param(address string) ContractParam {
	return ContractParam{Type: "Hash160", Value: address}
}

// Signer describes a transaction signer and its witness scope.
type Signer struct {
	Account string `json:"account"`
	Scopes  string `json:"scopes"`
}

// =============================================================================
// Execution Types
// =============================================================================

// ApplicationLog is the execution log of a committed transaction.
type ApplicationLog struct {
	TxID       string      `json:"txid"`
	Executions []Execution `json:"executions"`
}

// Execution is a single execution entry within an application log.
type Execution struct {
	Trigger       string         `json:"trigger"`
	VMState       string         `json:"vmstate"`
	Exception     string         `json:"exception"`
	GasConsumed   string         `json:"gasconsumed"`
	Stack         []StackItem    `json:"stack"`
	Notifications []Notification `json:"notifications"`
}

// Notification is a contract event emitted during execution.
type Notification struct {
	Contract  string    `json:"contract"`
	EventName string    `json:"eventname"`
	State     StackItem `json:"state"`
}

// TxResult is the outcome of a write invocation.
type TxResult struct {
	TxHash  string
	VMState string
	AppLog  *ApplicationLog
}
