// Package rpc is a minimal client for the ledger's JSON-RPC endpoint.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
)

// Client talks to a single configured RPC endpoint
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a client for the given endpoint URL
func NewClient(url string) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int         `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// call performs one JSON-RPC round trip with by-name params
func call[T any](ctx context.Context, c *Client, method string, params interface{}) (*T, error) {
	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", method, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status code %d: %s", method, resp.StatusCode, string(respBody))
	}

	var rpcResp struct {
		Result *T        `json:"result"`
		Error  *rpcError `json:"error"`
	}
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("%s: %w", method, rpcResp.Error)
	}
	if rpcResp.Result == nil {
		return nil, fmt.Errorf("%s returned no result", method)
	}

	return rpcResp.Result, nil
}

// SimulateTransaction simulates a base64 transaction envelope
func (c *Client) SimulateTransaction(ctx context.Context, envelopeXDR string) (*SimulateTransactionResponse, error) {
	params := struct {
		Transaction string `json:"transaction"`
	}{Transaction: envelopeXDR}
	return call[SimulateTransactionResponse](ctx, c, "simulateTransaction", params)
}

// SendTransaction submits a signed base64 transaction envelope
func (c *Client) SendTransaction(ctx context.Context, envelopeXDR string) (*SendTransactionResponse, error) {
	params := struct {
		Transaction string `json:"transaction"`
	}{Transaction: envelopeXDR}
	return call[SendTransactionResponse](ctx, c, "sendTransaction", params)
}

// GetTransaction looks up a submitted transaction by its hex hash
func (c *Client) GetTransaction(ctx context.Context, hash string) (*GetTransactionResponse, error) {
	params := struct {
		Hash string `json:"hash"`
	}{Hash: hash}
	return call[GetTransactionResponse](ctx, c, "getTransaction", params)
}

// GetLedgerEntries fetches current ledger entries for the given keys
func (c *Client) GetLedgerEntries(ctx context.Context, keys []xdr.LedgerKey) (*GetLedgerEntriesResponse, error) {
	encoded := make([]string, 0, len(keys))
	for _, key := range keys {
		b64, err := xdr.MarshalBase64(key)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal ledger key: %w", err)
		}
		encoded = append(encoded, b64)
	}

	params := struct {
		Keys []string `json:"keys"`
	}{Keys: encoded}
	return call[GetLedgerEntriesResponse](ctx, c, "getLedgerEntries", params)
}

// GetLatestLedger returns the latest known ledger header info
func (c *Client) GetLatestLedger(ctx context.Context) (*GetLatestLedgerResponse, error) {
	return call[GetLatestLedgerResponse](ctx, c, "getLatestLedger", nil)
}

// GetAccount fetches an account's current sequence number, in the form
// txnbuild expects for a transaction source
func (c *Client) GetAccount(ctx context.Context, accountID string) (*txnbuild.SimpleAccount, error) {
	aid, err := xdr.AddressToAccountId(accountID)
	if err != nil {
		return nil, fmt.Errorf("invalid account id %q: %w", accountID, err)
	}

	key := xdr.LedgerKey{
		Type:    xdr.LedgerEntryTypeAccount,
		Account: &xdr.LedgerKeyAccount{AccountId: aid},
	}

	resp, err := c.GetLedgerEntries(ctx, []xdr.LedgerKey{key})
	if err != nil {
		return nil, err
	}
	if len(resp.Entries) == 0 {
		return nil, fmt.Errorf("account %s not found", accountID)
	}

	var entry xdr.LedgerEntryData
	if err := xdr.SafeUnmarshalBase64(resp.Entries[0].XDR, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode account entry: %w", err)
	}
	account, ok := entry.GetAccount()
	if !ok {
		return nil, fmt.Errorf("ledger entry for %s is not an account", accountID)
	}

	return &txnbuild.SimpleAccount{
		AccountID: accountID,
		Sequence:  int64(account.SeqNum),
	}, nil
}
