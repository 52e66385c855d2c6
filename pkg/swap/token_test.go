package swap

import (
	"context"
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soroban-swap/pkg/rpc"
)

func scvU32(v uint32) xdr.ScVal {
	u := xdr.Uint32(v)
	return xdr.ScVal{Type: xdr.ScValTypeScvU32, U32: &u}
}

func scvString(s string) xdr.ScVal {
	str := xdr.ScString(s)
	return xdr.ScVal{Type: xdr.ScValTypeScvString, Str: &str}
}

func scvSymbol(s string) xdr.ScVal {
	sym := xdr.ScSymbol(s)
	return xdr.ScVal{Type: xdr.ScValTypeScvSymbol, Sym: &sym}
}

// queueSimulations serves one simulated return value per call, in order.
func queueSimulations(t *testing.T, ledger *fakeLedger, values ...xdr.ScVal) {
	t.Helper()
	queue := values
	ledger.simulate = func(string) (*rpc.SimulateTransactionResponse, error) {
		require.NotEmpty(t, queue, "more simulations than queued values")
		val := queue[0]
		queue = queue[1:]
		return &rpc.SimulateTransactionResponse{
			MinResourceFee: "100",
			Results:        []rpc.SimulateResult{{XDR: b64XDR(t, val)}},
			LatestLedger:   1000,
		}, nil
	}
}

func TestTokenInfo(t *testing.T) {
	alice := keypair.MustRandom()
	tokenID := testContractID(t, 0x02)

	ledger := &fakeLedger{sequence: 1}
	queueSimulations(t, ledger, scvU32(7), scvSymbol("USDC"), scvString("USD Coin"))

	info, err := TokenInfo(context.Background(), ledger, alice.Address(), tokenID)
	require.NoError(t, err)
	assert.Equal(t, tokenID, info.ContractID)
	assert.Equal(t, "USDC", info.Symbol)
	assert.Equal(t, "USD Coin", info.Name)
	assert.EqualValues(t, 7, info.Decimals)
	assert.Equal(t, 3, ledger.simCalls)
}

func TestTokenDecimalsRejectsWrongType(t *testing.T) {
	alice := keypair.MustRandom()
	tokenID := testContractID(t, 0x02)

	ledger := &fakeLedger{sequence: 1}
	queueSimulations(t, ledger, scvString("seven"))

	_, err := TokenDecimals(context.Background(), ledger, alice.Address(), tokenID)
	require.Error(t, err)
}

func TestTokenMetadataSimulationFailure(t *testing.T) {
	alice := keypair.MustRandom()
	tokenID := testContractID(t, 0x02)

	ledger := &fakeLedger{sequence: 1}
	ledger.simulate = func(string) (*rpc.SimulateTransactionResponse, error) {
		return &rpc.SimulateTransactionResponse{Error: "no such contract"}, nil
	}

	_, err := TokenSymbol(context.Background(), ledger, alice.Address(), tokenID)
	require.ErrorIs(t, err, ErrSimulationFailed)
}
