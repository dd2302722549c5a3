package registrychain

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/CrowdChain-Network/registry_layer/internal/chain"
	"github.com/CrowdChain-Network/registry_layer/internal/registry"
)

// test key, never funded
const testWalletKey = "7d128a6d096f0c14c3a25a2b0c41cf79661bfcb4a8cc95aaaea28bde4d732344"

func byteString(s string) map[string]interface{} {
	return map[string]interface{}{"type": "ByteString", "value": hex.EncodeToString([]byte(s))}
}

func hash160LE(leHex string) map[string]interface{} {
	return map[string]interface{}{"type": "ByteString", "value": leHex}
}

func integer(v string) map[string]interface{} {
	return map[string]interface{}{"type": "Integer", "value": v}
}

func array(items ...map[string]interface{}) map[string]interface{} {
	if items == nil {
		items = []map[string]interface{}{}
	}
	return map[string]interface{}{"type": "Array", "value": items}
}

func boolean(b bool) map[string]interface{} {
	return map[string]interface{}{"type": "Boolean", "value": b}
}

func invokeResponse(state string, stack ...map[string]interface{}) string {
	result := map[string]interface{}{
		"state":       state,
		"gasconsumed": "997775",
		"stack":       stack,
	}
	if state != "HALT" {
		result["exception"] = "execution reverted"
	}
	raw, _ := json.Marshal(result)
	return fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"result":%s}`, raw)
}

// campaignTuple builds the 11-field campaign layout returned by getCampaigns.
func campaignTuple(ownerLE, title string, status int, reason string) map[string]interface{} {
	fields := []map[string]interface{}{
		hash160LE(ownerLE),
		byteString(title),
		byteString("a description"),
		integer("1000"),
		integer("1893456000"),
		integer("250"),
		byteString("https://img.example/c.png"),
		array(),
		array(),
		integer(fmt.Sprintf("%d", status)),
	}
	if reason == "" {
		fields = append(fields, map[string]interface{}{"type": "Null"})
	} else {
		fields = append(fields, byteString(reason))
	}
	return map[string]interface{}{"type": "Array", "value": fields}
}

func newTestContract(t *testing.T, withWallet bool, handler http.HandlerFunc) (*Contract, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := chain.NewClient(chain.Config{RPCURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	var wlt *chain.Wallet
	if withWallet {
		wlt, err = chain.NewWallet(testWalletKey)
		if err != nil {
			t.Fatalf("NewWallet() error = %v", err)
		}
	}
	return New(client, "0xcontract", wlt), &calls
}

func TestListCampaigns(t *testing.T) {
	contract, _ := newTestContract(t, false, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, invokeResponse("HALT", array(
			campaignTuple("0102030405060708090a0b0c0d0e0f1011121314", "well", 0, ""),
			campaignTuple("0102030405060708090a0b0c0d0e0f1011121314", "school", 2, "duplicate submission"),
		)))
	})

	campaigns, err := contract.ListCampaigns(context.Background())
	if err != nil {
		t.Fatalf("ListCampaigns() error = %v", err)
	}
	if len(campaigns) != 2 {
		t.Fatalf("campaigns = %+v", campaigns)
	}

	first := campaigns[0]
	if first.ID != 0 || first.Title != "well" || first.Status != registry.StatusPending {
		t.Errorf("first campaign = %+v", first)
	}
	if first.Owner != "0x14131211100f0e0d0c0b0a090807060504030201" {
		t.Errorf("owner = %q", first.Owner)
	}
	if first.Target.Cmp(big.NewInt(1000)) != 0 || first.AmountCollected.Cmp(big.NewInt(250)) != 0 {
		t.Errorf("amounts = %v / %v", first.Target, first.AmountCollected)
	}
	if first.RejectionReason != "" {
		t.Errorf("pending campaign carries reason %q", first.RejectionReason)
	}

	second := campaigns[1]
	if second.ID != 1 || second.Status != registry.StatusRejected {
		t.Errorf("second campaign = %+v", second)
	}
	if second.RejectionReason != "duplicate submission" {
		t.Errorf("reason = %q", second.RejectionReason)
	}
}

func TestListCampaignsFaultedInvocation(t *testing.T) {
	contract, _ := newTestContract(t, false, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, invokeResponse("FAULT"))
	})

	_, err := contract.ListCampaigns(context.Background())
	if err == nil || !strings.Contains(err.Error(), "execution failed") {
		t.Fatalf("error = %v, want execution failure", err)
	}
}

func TestListCampaignsShortTuple(t *testing.T) {
	contract, _ := newTestContract(t, false, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, invokeResponse("HALT", array(
			map[string]interface{}{"type": "Array", "value": []map[string]interface{}{byteString("only")}},
		)))
	})

	_, err := contract.ListCampaigns(context.Background())
	if err == nil || !strings.Contains(err.Error(), "parse campaign 0") {
		t.Fatalf("error = %v, want tuple parse failure", err)
	}
}

func TestCampaignCount(t *testing.T) {
	contract, _ := newTestContract(t, false, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, invokeResponse("HALT", integer("7")))
	})

	count, err := contract.CampaignCount(context.Background())
	if err != nil {
		t.Fatalf("CampaignCount() error = %v", err)
	}
	if count != 7 {
		t.Errorf("count = %d, want 7", count)
	}
}

func TestGetDonatorsZipsParallelSequences(t *testing.T) {
	contract, _ := newTestContract(t, false, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, invokeResponse("HALT", array(
			array(
				hash160LE("0102030405060708090a0b0c0d0e0f1011121314"),
				hash160LE("1414141414141414141414141414141414141414"),
			),
			array(integer("100"), integer("50")),
		)))
	})

	donators, amounts, err := contract.GetDonators(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetDonators() error = %v", err)
	}
	if len(donators) != 2 || len(amounts) != 2 {
		t.Fatalf("donators = %v, amounts = %v", donators, amounts)
	}
	if amounts[0].Int64() != 100 || amounts[1].Int64() != 50 {
		t.Errorf("amounts = %v", amounts)
	}
}

func TestHasRoleSendsRoleAndIdentityParams(t *testing.T) {
	roleID := []byte{0xaa, 0xbb, 0xcc}
	var gotParams []chain.ContractParam

	contract, _ := newTestContract(t, false, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Params []json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		// invokefunction params: scriptHash, method, args
		if len(req.Params) == 3 {
			if err := json.Unmarshal(req.Params[2], &gotParams); err != nil {
				t.Errorf("decode args: %v", err)
			}
		}
		fmt.Fprint(w, invokeResponse("HALT", boolean(true)))
	})

	isAdmin, err := contract.HasRole(context.Background(), roleID, "0xadmin")
	if err != nil {
		t.Fatalf("HasRole() error = %v", err)
	}
	if !isAdmin {
		t.Error("HasRole() = false, want true")
	}
	if len(gotParams) != 2 {
		t.Fatalf("args = %+v", gotParams)
	}
	if gotParams[0].Type != "ByteArray" || gotParams[0].Value != base64.StdEncoding.EncodeToString(roleID) {
		t.Errorf("role param = %+v", gotParams[0])
	}
	if gotParams[1].Type != "Hash160" || gotParams[1].Value != "0xadmin" {
		t.Errorf("identity param = %+v", gotParams[1])
	}
}

func TestWriteRequiresWallet(t *testing.T) {
	contract, calls := newTestContract(t, false, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, invokeResponse("HALT"))
	})

	if _, err := contract.ApproveCampaign(context.Background(), 1); err == nil {
		t.Fatal("ApproveCampaign() without wallet must fail")
	}
	if _, err := contract.DonateToCampaign(context.Background(), 1, big.NewInt(10)); err == nil {
		t.Fatal("DonateToCampaign() without wallet must fail")
	}
	if got := calls.Load(); got != 0 {
		t.Errorf("RPC calls = %d, want 0 without a wallet", got)
	}
}

func TestApproveCampaignWaitsForExecution(t *testing.T) {
	contract, _ := newTestContract(t, true, func(w http.ResponseWriter, r *http.Request) {
		var req chain.RPCRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		switch req.Method {
		case "invokefunction":
			raw, _ := json.Marshal(map[string]interface{}{
				"state": "HALT",
				"tx":    "0xfeedface",
			})
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":%s}`, raw)
		case "getapplicationlog":
			raw, _ := json.Marshal(map[string]interface{}{
				"txid": "0xfeedface",
				"executions": []map[string]interface{}{
					{"vmstate": "HALT"},
				},
			})
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":%s}`, raw)
		default:
			t.Errorf("unexpected RPC method %q", req.Method)
		}
	})

	receipt, err := contract.ApproveCampaign(context.Background(), 4)
	if err != nil {
		t.Fatalf("ApproveCampaign() error = %v", err)
	}
	if receipt.TxHash != "0xfeedface" || receipt.VMState != "HALT" {
		t.Errorf("receipt = %+v", receipt)
	}
}

func TestWriteRevertedExecution(t *testing.T) {
	contract, _ := newTestContract(t, true, func(w http.ResponseWriter, r *http.Request) {
		var req chain.RPCRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		switch req.Method {
		case "invokefunction":
			raw, _ := json.Marshal(map[string]interface{}{
				"state": "HALT",
				"tx":    "0xfeedface",
			})
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":%s}`, raw)
		case "getapplicationlog":
			raw, _ := json.Marshal(map[string]interface{}{
				"txid": "0xfeedface",
				"executions": []map[string]interface{}{
					{"vmstate": "FAULT", "exception": "campaign is not pending"},
				},
			})
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":%s}`, raw)
		}
	})

	_, err := contract.RejectCampaign(context.Background(), 4, "too late")
	if err == nil || !strings.Contains(err.Error(), "reverted") {
		t.Fatalf("error = %v, want reverted execution", err)
	}
}
