// Package submit sends a fully-authorized transaction and observes its
// finalized outcome on an asynchronously-processing ledger.
package submit

import (
	"context"
	"fmt"
	"time"

	"soroban-swap/pkg/rpc"
)

// DefaultPollInterval is how often a pending transaction is re-checked.
const DefaultPollInterval = time.Second

// Ledger is the narrow ledger-client contract submission depends on.
// *rpc.Client satisfies it.
type Ledger interface {
	SendTransaction(ctx context.Context, envelopeXDR string) (*rpc.SendTransactionResponse, error)
	GetTransaction(ctx context.Context, hash string) (*rpc.GetTransactionResponse, error)
}

// StatusError is a terminal, non-success submission outcome.
type StatusError struct {
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("transaction submission failed with status %s", e.Status)
}

// Result is a successful submission outcome.
type Result struct {
	Hash      string
	ResultXDR string
}

// Submitter drives one transaction from submission to a terminal status.
type Submitter struct {
	ledger       Ledger
	pollInterval time.Duration
}

// New creates a submitter with the default poll interval.
func New(ledger Ledger) *Submitter {
	return &Submitter{ledger: ledger, pollInterval: DefaultPollInterval}
}

// SetPollInterval overrides the polling interval.
func (s *Submitter) SetPollInterval(interval time.Duration) {
	if interval > 0 {
		s.pollInterval = interval
	}
}

// Submit sends a signed envelope and polls until the ledger reports a
// terminal status. An immediate error result is terminal and is not polled.
// There is no built-in timeout: a transaction the ledger never reports on
// keeps Submit polling until ctx is cancelled.
func (s *Submitter) Submit(ctx context.Context, envelopeXDR string) (*Result, error) {
	resp, err := s.ledger.SendTransaction(ctx, envelopeXDR)
	if err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	if resp.ErrorResultXDR != "" || resp.Status == rpc.SendStatusError {
		return nil, &StatusError{Status: rpc.SendStatusError}
	}
	if resp.Status != rpc.SendStatusPending {
		return nil, &StatusError{Status: resp.Status}
	}

	for {
		tx, err := s.ledger.GetTransaction(ctx, resp.Hash)
		if err != nil {
			return nil, fmt.Errorf("failed to poll transaction %s: %w", resp.Hash, err)
		}

		if tx.Status != rpc.TxStatusNotFound {
			if tx.Status == rpc.TxStatusSuccess {
				return &Result{Hash: resp.Hash, ResultXDR: tx.ResultXDR}, nil
			}
			return nil, &StatusError{Status: tx.Status}
		}

		select {
		case <-time.After(s.pollInterval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
