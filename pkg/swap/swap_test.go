package swap

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/require"

	"soroban-swap/pkg/rpc"
)

// fakeLedger is an in-memory Ledger for exercising the protocol without a
// network. All XDR payloads it serves are real encodings.
type fakeLedger struct {
	sequence int64
	simulate func(envelopeXDR string) (*rpc.SimulateTransactionResponse, error)
	ttl      uint32
	noTTL    bool
	simCalls int
}

func (f *fakeLedger) GetAccount(_ context.Context, accountID string) (*txnbuild.SimpleAccount, error) {
	return &txnbuild.SimpleAccount{AccountID: accountID, Sequence: f.sequence}, nil
}

func (f *fakeLedger) SimulateTransaction(_ context.Context, envelopeXDR string) (*rpc.SimulateTransactionResponse, error) {
	f.simCalls++
	if f.simulate == nil {
		return nil, fmt.Errorf("unexpected simulation")
	}
	return f.simulate(envelopeXDR)
}

func (f *fakeLedger) GetLedgerEntries(_ context.Context, keys []xdr.LedgerKey) (*rpc.GetLedgerEntriesResponse, error) {
	if f.noTTL {
		return &rpc.GetLedgerEntriesResponse{LatestLedger: 1000}, nil
	}
	return &rpc.GetLedgerEntriesResponse{
		Entries:      []rpc.LedgerEntry{{LiveUntilLedgerSeq: f.ttl}},
		LatestLedger: 1000,
	}, nil
}

func testContractID(t *testing.T, fill byte) string {
	t.Helper()
	id, err := strkey.Encode(strkey.VersionByteContract, bytes.Repeat([]byte{fill}, 32))
	require.NoError(t, err)
	return id
}

func testInvocation(t *testing.T, addressA, addressB string) Invocation {
	t.Helper()
	return Invocation{
		ContractID: testContractID(t, 0x01),
		AddressA:   addressA,
		AddressB:   addressB,
		TokenA:     testContractID(t, 0x02),
		TokenB:     testContractID(t, 0x03),
		AmountA:    big.NewInt(10_000_000_000),
		MinAmountA: big.NewInt(9_950_000_000),
		AmountB:    big.NewInt(3_000_000_000),
		MinAmountB: big.NewInt(2_985_000_000),
	}
}

func testFootprint(t *testing.T, contractID string) xdr.LedgerFootprint {
	t.Helper()
	addr, err := contractScAddress(contractID)
	require.NoError(t, err)
	return xdr.LedgerFootprint{
		ReadOnly: []xdr.LedgerKey{{
			Type: xdr.LedgerEntryTypeContractData,
			ContractData: &xdr.LedgerKeyContractData{
				Contract:   addr,
				Key:        xdr.ScVal{Type: xdr.ScValTypeScvLedgerKeyContractInstance},
				Durability: xdr.ContractDataDurabilityPersistent,
			},
		}},
	}
}

func b64XDR(t *testing.T, v interface{}) string {
	t.Helper()
	b64, err := xdr.MarshalBase64(v)
	require.NoError(t, err)
	return b64
}

func testTransactionData(t *testing.T, footprint xdr.LedgerFootprint) string {
	t.Helper()
	return b64XDR(t, xdr.SorobanTransactionData{
		Resources: xdr.SorobanResources{
			Footprint:    footprint,
			Instructions: 2_000_000,
			ReadBytes:    400,
			WriteBytes:   200,
		},
		ResourceFee: 500_000,
	})
}

func unsignedAuthEntry(t *testing.T, address string, fn xdr.HostFunction, nonce int64) xdr.SorobanAuthorizationEntry {
	t.Helper()
	aid, err := xdr.AddressToAccountId(address)
	require.NoError(t, err)
	return xdr.SorobanAuthorizationEntry{
		Credentials: xdr.SorobanCredentials{
			Type: xdr.SorobanCredentialsTypeSorobanCredentialsAddress,
			Address: &xdr.SorobanAddressCredentials{
				Address: xdr.ScAddress{
					Type:      xdr.ScAddressTypeScAddressTypeAccount,
					AccountId: &aid,
				},
				Nonce:     xdr.Int64(nonce),
				Signature: xdr.ScVal{Type: xdr.ScValTypeScvVoid},
			},
		},
		RootInvocation: xdr.SorobanAuthorizedInvocation{
			Function: xdr.SorobanAuthorizedFunction{
				Type:       xdr.SorobanAuthorizedFunctionTypeSorobanAuthorizedFunctionTypeContractFn,
				ContractFn: fn.InvokeContract,
			},
		},
	}
}

// swapSimResponse is what the ledger would answer for a well-formed swap
// simulation: resource data, a fee, and the required auth entries.
func swapSimResponse(t *testing.T, footprint xdr.LedgerFootprint, entries ...xdr.SorobanAuthorizationEntry) *rpc.SimulateTransactionResponse {
	t.Helper()
	auth := make([]string, 0, len(entries))
	for _, entry := range entries {
		auth = append(auth, b64XDR(t, entry))
	}
	return &rpc.SimulateTransactionResponse{
		TransactionData: testTransactionData(t, footprint),
		MinResourceFee:  "500000",
		Results:         []rpc.SimulateResult{{Auth: auth}},
		LatestLedger:    1000,
	}
}
