package submit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soroban-swap/pkg/rpc"
)

type fakeLedger struct {
	sendResp *rpc.SendTransactionResponse
	sendErr  error
	statuses []string
	getCalls int
}

func (f *fakeLedger) SendTransaction(context.Context, string) (*rpc.SendTransactionResponse, error) {
	return f.sendResp, f.sendErr
}

func (f *fakeLedger) GetTransaction(context.Context, string) (*rpc.GetTransactionResponse, error) {
	idx := f.getCalls
	f.getCalls++
	if idx >= len(f.statuses) {
		return &rpc.GetTransactionResponse{Status: rpc.TxStatusNotFound}, nil
	}
	status := f.statuses[idx]
	if status == rpc.TxStatusSuccess {
		return &rpc.GetTransactionResponse{Status: status, Ledger: 512, ResultXDR: "AAAAAA=="}, nil
	}
	return &rpc.GetTransactionResponse{Status: status}, nil
}

func pendingResponse(hash string) *rpc.SendTransactionResponse {
	return &rpc.SendTransactionResponse{Status: rpc.SendStatusPending, Hash: hash}
}

func TestSubmitPollsUntilSuccess(t *testing.T) {
	ledger := &fakeLedger{
		sendResp: pendingResponse("abc123"),
		statuses: []string{rpc.TxStatusNotFound, rpc.TxStatusNotFound, rpc.TxStatusSuccess},
	}

	s := New(ledger)
	s.SetPollInterval(time.Millisecond)

	result, err := s.Submit(context.Background(), "envelope")
	require.NoError(t, err)
	assert.Equal(t, "abc123", result.Hash)
	assert.Equal(t, "AAAAAA==", result.ResultXDR)
	assert.Equal(t, 3, ledger.getCalls)
}

func TestSubmitImmediateErrorIsNotPolled(t *testing.T) {
	ledger := &fakeLedger{
		sendResp: &rpc.SendTransactionResponse{
			Status:         rpc.SendStatusPending,
			Hash:           "abc123",
			ErrorResultXDR: "AAAAAAAAAGT////7AAAAAA==",
		},
	}

	_, err := New(ledger).Submit(context.Background(), "envelope")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, rpc.SendStatusError, statusErr.Status)
	assert.Zero(t, ledger.getCalls)
}

func TestSubmitNonPendingStatusIsTerminal(t *testing.T) {
	ledger := &fakeLedger{
		sendResp: &rpc.SendTransactionResponse{Status: rpc.SendStatusDuplicate, Hash: "abc123"},
	}

	_, err := New(ledger).Submit(context.Background(), "envelope")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, rpc.SendStatusDuplicate, statusErr.Status)
	assert.Zero(t, ledger.getCalls)
}

func TestSubmitFailedTransaction(t *testing.T) {
	ledger := &fakeLedger{
		sendResp: pendingResponse("abc123"),
		statuses: []string{rpc.TxStatusNotFound, rpc.TxStatusFailed},
	}

	s := New(ledger)
	s.SetPollInterval(time.Millisecond)

	_, err := s.Submit(context.Background(), "envelope")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, rpc.TxStatusFailed, statusErr.Status)
	assert.Equal(t, 2, ledger.getCalls)
}

func TestSubmitSendFailure(t *testing.T) {
	ledger := &fakeLedger{sendErr: errors.New("connection refused")}

	_, err := New(ledger).Submit(context.Background(), "envelope")
	require.Error(t, err)
	assert.Zero(t, ledger.getCalls)
}

func TestSubmitStopsOnContextCancel(t *testing.T) {
	// The ledger never reports the transaction; only ctx ends the poll.
	ledger := &fakeLedger{sendResp: pendingResponse("abc123")}

	s := New(ledger)
	s.SetPollInterval(5 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()

	_, err := s.Submit(ctx, "envelope")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSetPollIntervalIgnoresNonPositive(t *testing.T) {
	s := New(&fakeLedger{})
	s.SetPollInterval(0)
	assert.Equal(t, DefaultPollInterval, s.pollInterval)

	s.SetPollInterval(-time.Second)
	assert.Equal(t, DefaultPollInterval, s.pollInterval)

	s.SetPollInterval(2 * time.Second)
	assert.Equal(t, 2*time.Second, s.pollInterval)
}
