// Package swap implements the transaction-assembly and multi-signer
// authorization protocol for the two-party atomic token swap.
package swap

import (
	"context"
	"fmt"
	"strconv"

	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"

	"soroban-swap/pkg/rpc"
)

// Ledger is the narrow ledger-client contract the protocol core depends on.
// *rpc.Client satisfies it.
type Ledger interface {
	GetAccount(ctx context.Context, accountID string) (*txnbuild.SimpleAccount, error)
	SimulateTransaction(ctx context.Context, envelopeXDR string) (*rpc.SimulateTransactionResponse, error)
	GetLedgerEntries(ctx context.Context, keys []xdr.LedgerKey) (*rpc.GetLedgerEntriesResponse, error)
}

// BuildParams describes one swap transaction to be built.
type BuildParams struct {
	// SourceAccount pays the fee and owns the transaction sequence number.
	SourceAccount string
	Invocation    Invocation
	Memo          string
	BaseFee       int64
}

// BuildResult is the assembled (unsigned) transaction plus the footprint the
// caller must preserve verbatim for final assembly.
type BuildResult struct {
	Tx           *txnbuild.Transaction
	EnvelopeXDR  string
	FootprintXDR string
}

// Build constructs the unsigned swap transaction, simulates it, and merges
// the simulation output (resource fee, footprint, authorization entries)
// into an executable transaction. A failed simulation is fatal: resource
// costs or preconditions may have changed and a retry without rebuilding
// would act on stale terms.
func Build(ctx context.Context, ledger Ledger, params BuildParams) (*BuildResult, error) {
	fn, err := params.Invocation.HostFunction()
	if err != nil {
		return nil, err
	}

	account, err := ledger.GetAccount(ctx, params.SourceAccount)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source account: %w", err)
	}
	sequence := account.Sequence

	op := &txnbuild.InvokeHostFunction{HostFunction: fn}

	var memo txnbuild.Memo
	if params.Memo != "" {
		memo = txnbuild.MemoText(params.Memo)
	}

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &txnbuild.SimpleAccount{AccountID: account.AccountID, Sequence: sequence},
		IncrementSequenceNum: true,
		Operations:           []txnbuild.Operation{op},
		BaseFee:              params.BaseFee,
		Memo:                 memo,
		Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewInfiniteTimeout()},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}

	envelope, err := tx.Base64()
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}

	sim, err := ledger.SimulateTransaction(ctx, envelope)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSimulationFailed, err)
	}
	if sim.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrSimulationFailed, sim.Error)
	}

	sorobanData, resourceFee, err := decodeSimulation(sim)
	if err != nil {
		return nil, err
	}

	// The simulation reports which authorization entries the invocation
	// requires; they are attached unsigned.
	for _, raw := range simAuthEntries(sim) {
		var entry xdr.SorobanAuthorizationEntry
		if err := xdr.SafeUnmarshalBase64(raw, &entry); err != nil {
			return nil, fmt.Errorf("failed to decode simulated auth entry: %w", err)
		}
		op.Auth = append(op.Auth, entry)
	}
	op.Ext = xdr.TransactionExt{V: 1, SorobanData: sorobanData}

	assembled, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &txnbuild.SimpleAccount{AccountID: account.AccountID, Sequence: sequence},
		IncrementSequenceNum: true,
		Operations:           []txnbuild.Operation{op},
		BaseFee:              params.BaseFee + resourceFee,
		Memo:                 memo,
		Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewInfiniteTimeout()},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assemble transaction: %w", err)
	}

	assembledXDR, err := assembled.Base64()
	if err != nil {
		return nil, fmt.Errorf("failed to encode assembled transaction: %w", err)
	}
	footprint, err := xdr.MarshalBase64(sorobanData.Resources.Footprint)
	if err != nil {
		return nil, fmt.Errorf("failed to encode footprint: %w", err)
	}

	return &BuildResult{Tx: assembled, EnvelopeXDR: assembledXDR, FootprintXDR: footprint}, nil
}

// Reassemble prepares a fully auth-signed envelope for submission: it
// re-simulates for fresh resource costs, then restores the creator's
// original footprint byte-for-byte. The footprint is re-injected rather than
// re-derived because an intervening party could otherwise cause the
// re-simulation to observe different ledger state.
func Reassemble(ctx context.Context, ledger Ledger, envelopeXDR, footprintXDR string) (*txnbuild.Transaction, error) {
	tx, op, err := decodeSwapTx(envelopeXDR)
	if err != nil {
		return nil, err
	}

	sim, err := ledger.SimulateTransaction(ctx, envelopeXDR)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSimulationFailed, err)
	}
	if sim.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrSimulationFailed, sim.Error)
	}

	sorobanData, resourceFee, err := decodeSimulation(sim)
	if err != nil {
		return nil, err
	}

	var footprint xdr.LedgerFootprint
	if err := xdr.SafeUnmarshalBase64(footprintXDR, &footprint); err != nil {
		return nil, fmt.Errorf("%w: invalid footprint: %v", ErrBadEnvelope, err)
	}
	sorobanData.Resources.Footprint = footprint

	// Signed authorization entries stay exactly as relayed.
	op.Ext = xdr.TransactionExt{V: 1, SorobanData: sorobanData}

	source := tx.SourceAccount()
	final, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &txnbuild.SimpleAccount{AccountID: source.AccountID, Sequence: tx.SequenceNumber()},
		IncrementSequenceNum: false,
		Operations:           []txnbuild.Operation{op},
		BaseFee:              tx.BaseFee() + resourceFee,
		Memo:                 tx.Memo(),
		Preconditions:        txnbuild.Preconditions{TimeBounds: tx.Timebounds()},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reassemble transaction: %w", err)
	}
	return final, nil
}

// DecodeTransaction decodes a base64 envelope, rejecting anything that is
// not a single contract invocation.
func DecodeTransaction(envelopeXDR string) (*txnbuild.Transaction, error) {
	tx, _, err := decodeSwapTx(envelopeXDR)
	return tx, err
}

// decodeSwapTx decodes an envelope and asserts the single-invocation shape.
func decodeSwapTx(envelopeXDR string) (*txnbuild.Transaction, *txnbuild.InvokeHostFunction, error) {
	generic, err := txnbuild.TransactionFromXDR(envelopeXDR)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadEnvelope, err)
	}
	tx, ok := generic.Transaction()
	if !ok {
		return nil, nil, fmt.Errorf("%w: fee-bump envelopes are not supported", ErrBadEnvelope)
	}

	op, err := swapOpFromTx(tx)
	if err != nil {
		return nil, nil, err
	}
	return tx, op, nil
}

// swapOpFromTx asserts the single-invocation shape and carries the
// envelope's resource data over to the operation, so a rebuild after this
// decode cannot drop it.
func swapOpFromTx(tx *txnbuild.Transaction) (*txnbuild.InvokeHostFunction, error) {
	ops := tx.Operations()
	if len(ops) != 1 {
		return nil, fmt.Errorf("%w: found %d operations", ErrUnsupportedOperation, len(ops))
	}
	op, ok := ops[0].(*txnbuild.InvokeHostFunction)
	if !ok {
		return nil, ErrUnsupportedOperation
	}

	if op.Ext.V == 0 {
		env := tx.ToXDR()
		if env.Type == xdr.EnvelopeTypeEnvelopeTypeTx && env.V1 != nil && env.V1.Tx.Ext.V == 1 {
			op.Ext = xdr.TransactionExt{V: 1, SorobanData: env.V1.Tx.Ext.SorobanData}
		}
	}
	return op, nil
}

func decodeSimulation(sim *rpc.SimulateTransactionResponse) (*xdr.SorobanTransactionData, int64, error) {
	var data xdr.SorobanTransactionData
	if err := xdr.SafeUnmarshalBase64(sim.TransactionData, &data); err != nil {
		return nil, 0, fmt.Errorf("%w: bad transaction data: %v", ErrSimulationFailed, err)
	}
	fee, err := strconv.ParseInt(sim.MinResourceFee, 10, 64)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: bad resource fee %q", ErrSimulationFailed, sim.MinResourceFee)
	}
	return &data, fee, nil
}

func simAuthEntries(sim *rpc.SimulateTransactionResponse) []string {
	if len(sim.Results) == 0 {
		return nil
	}
	return sim.Results[0].Auth
}
