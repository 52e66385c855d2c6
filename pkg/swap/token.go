package swap

import (
	"context"
	"fmt"

	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"

	"soroban-swap/pkg/types"
)

// simulateRead performs a read-only contract invocation and returns the
// simulated return value. Nothing is submitted to the ledger.
func simulateRead(ctx context.Context, ledger Ledger, source, contractID, method string) (xdr.ScVal, error) {
	contract, err := contractScAddress(contractID)
	if err != nil {
		return xdr.ScVal{}, err
	}

	account, err := ledger.GetAccount(ctx, source)
	if err != nil {
		return xdr.ScVal{}, fmt.Errorf("failed to fetch source account: %w", err)
	}

	op := &txnbuild.InvokeHostFunction{
		HostFunction: xdr.HostFunction{
			Type: xdr.HostFunctionTypeHostFunctionTypeInvokeContract,
			InvokeContract: &xdr.InvokeContractArgs{
				ContractAddress: contract,
				FunctionName:    xdr.ScSymbol(method),
			},
		},
	}

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        account,
		IncrementSequenceNum: true,
		Operations:           []txnbuild.Operation{op},
		BaseFee:              txnbuild.MinBaseFee,
		Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewInfiniteTimeout()},
	})
	if err != nil {
		return xdr.ScVal{}, fmt.Errorf("failed to build %s transaction: %w", method, err)
	}

	envelope, err := tx.Base64()
	if err != nil {
		return xdr.ScVal{}, fmt.Errorf("failed to encode %s transaction: %w", method, err)
	}

	sim, err := ledger.SimulateTransaction(ctx, envelope)
	if err != nil {
		return xdr.ScVal{}, fmt.Errorf("%w: %v", ErrSimulationFailed, err)
	}
	if sim.Error != "" {
		return xdr.ScVal{}, fmt.Errorf("%w: %s", ErrSimulationFailed, sim.Error)
	}
	if len(sim.Results) == 0 {
		return xdr.ScVal{}, fmt.Errorf("%w: %s simulation returned no result", ErrSimulationFailed, method)
	}

	var retval xdr.ScVal
	if err := xdr.SafeUnmarshalBase64(sim.Results[0].XDR, &retval); err != nil {
		return xdr.ScVal{}, fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return retval, nil
}

// TokenDecimals fetches a token's decimal count via read-only invocation.
func TokenDecimals(ctx context.Context, ledger Ledger, source, tokenID string) (uint32, error) {
	retval, err := simulateRead(ctx, ledger, source, tokenID, "decimals")
	if err != nil {
		return 0, err
	}
	if retval.Type != xdr.ScValTypeScvU32 {
		return 0, fmt.Errorf("token %s returned non-u32 decimals", tokenID)
	}
	return uint32(*retval.U32), nil
}

// TokenSymbol fetches a token's symbol via read-only invocation.
func TokenSymbol(ctx context.Context, ledger Ledger, source, tokenID string) (string, error) {
	retval, err := simulateRead(ctx, ledger, source, tokenID, "symbol")
	if err != nil {
		return "", err
	}
	return stringFromScVal(retval, tokenID)
}

// TokenName fetches a token's display name via read-only invocation.
func TokenName(ctx context.Context, ledger Ledger, source, tokenID string) (string, error) {
	retval, err := simulateRead(ctx, ledger, source, tokenID, "name")
	if err != nil {
		return "", err
	}
	return stringFromScVal(retval, tokenID)
}

func stringFromScVal(val xdr.ScVal, tokenID string) (string, error) {
	switch val.Type {
	case xdr.ScValTypeScvString:
		return string(*val.Str), nil
	case xdr.ScValTypeScvSymbol:
		return string(*val.Sym), nil
	default:
		return "", fmt.Errorf("token %s returned non-string metadata", tokenID)
	}
}

// TokenInfo fetches symbol, name, and decimals for one token contract.
func TokenInfo(ctx context.Context, ledger Ledger, source, tokenID string) (*types.TokenInfo, error) {
	decimals, err := TokenDecimals(ctx, ledger, source, tokenID)
	if err != nil {
		return nil, err
	}
	symbol, err := TokenSymbol(ctx, ledger, source, tokenID)
	if err != nil {
		return nil, err
	}
	name, err := TokenName(ctx, ledger, source, tokenID)
	if err != nil {
		return nil, err
	}
	return &types.TokenInfo{ContractID: tokenID, Symbol: symbol, Name: name, Decimals: decimals}, nil
}
