package swap

import (
	"context"
	"crypto/sha256"
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/strkey"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soroban-swap/pkg/wallet"
)

func signableTx(t *testing.T, source string, fn xdr.HostFunction, entries ...xdr.SorobanAuthorizationEntry) *txnbuild.Transaction {
	t.Helper()
	op := &txnbuild.InvokeHostFunction{HostFunction: fn, Auth: entries}
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &txnbuild.SimpleAccount{AccountID: source, Sequence: 42},
		IncrementSequenceNum: false,
		Operations:           []txnbuild.Operation{op},
		BaseFee:              txnbuild.MinBaseFee,
		Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewInfiniteTimeout()},
	})
	require.NoError(t, err)
	return tx
}

func TestSignAuthSignsOnlyOwnEntries(t *testing.T) {
	alice := keypair.MustRandom()
	bob := keypair.MustRandom()
	inv := testInvocation(t, alice.Address(), bob.Address())

	fn, err := inv.HostFunction()
	require.NoError(t, err)

	aliceEntry := unsignedAuthEntry(t, alice.Address(), fn, 7)
	bobEntry := unsignedAuthEntry(t, bob.Address(), fn, 8)
	tx := signableTx(t, alice.Address(), fn, aliceEntry, bobEntry)

	ledger := &fakeLedger{ttl: 12_345}
	w, err := wallet.NewLocal(alice.Seed(), network.TestNetworkPassphrase)
	require.NoError(t, err)

	signed, err := SignAuth(context.Background(), ledger, w, tx, SignAuthParams{
		ContractID:        inv.ContractID,
		SignerAddress:     alice.Address(),
		NetworkPassphrase: network.TestNetworkPassphrase,
	})
	require.NoError(t, err)

	op, err := swapOpFromTx(signed)
	require.NoError(t, err)
	require.Len(t, op.Auth, 2)

	// The counterparty's entry is untouched, byte for byte.
	assert.Equal(t, b64XDR(t, bobEntry), b64XDR(t, op.Auth[1]))

	creds := op.Auth[0].Credentials.Address
	require.NotNil(t, creds)
	assert.EqualValues(t, 12_345, creds.SignatureExpirationLedger)
	require.Equal(t, xdr.ScValTypeScvVec, creds.Signature.Type)

	vec := *creds.Signature.Vec
	require.Len(t, []xdr.ScVal(*vec), 1)
	require.Equal(t, xdr.ScValTypeScvMap, (*vec)[0].Type)
	sigMap := **(*vec)[0].Map
	require.Len(t, []xdr.ScMapEntry(sigMap), 2)

	assert.Equal(t, "public_key", string(*sigMap[0].Key.Sym))
	rawKey, err := strkey.Decode(strkey.VersionByteAccountID, alice.Address())
	require.NoError(t, err)
	assert.Equal(t, rawKey, []byte(*sigMap[0].Val.Bytes))

	assert.Equal(t, "signature", string(*sigMap[1].Key.Sym))
	signature := []byte(*sigMap[1].Val.Bytes)

	// Recompute the expected payload and verify the signature against it.
	preimage := xdr.HashIdPreimage{
		Type: xdr.EnvelopeTypeEnvelopeTypeSorobanAuthorization,
		SorobanAuthorization: &xdr.HashIdPreimageSorobanAuthorization{
			NetworkId:                 xdr.Hash(network.ID(network.TestNetworkPassphrase)),
			Nonce:                     7,
			SignatureExpirationLedger: 12_345,
			Invocation:                aliceEntry.RootInvocation,
		},
	}
	raw, err := preimage.MarshalBinary()
	require.NoError(t, err)
	payload := sha256.Sum256(raw)
	require.NoError(t, alice.Verify(payload[:], signature))
}

func TestSignAuthPassesThroughSourceAccountEntries(t *testing.T) {
	alice := keypair.MustRandom()
	bob := keypair.MustRandom()
	inv := testInvocation(t, alice.Address(), bob.Address())

	fn, err := inv.HostFunction()
	require.NoError(t, err)

	sourceEntry := xdr.SorobanAuthorizationEntry{
		Credentials: xdr.SorobanCredentials{
			Type: xdr.SorobanCredentialsTypeSorobanCredentialsSourceAccount,
		},
		RootInvocation: xdr.SorobanAuthorizedInvocation{
			Function: xdr.SorobanAuthorizedFunction{
				Type:       xdr.SorobanAuthorizedFunctionTypeSorobanAuthorizedFunctionTypeContractFn,
				ContractFn: fn.InvokeContract,
			},
		},
	}
	tx := signableTx(t, alice.Address(), fn, sourceEntry)

	// The ledger has no instance entry; if the signer tried to look up a
	// TTL for this entry the call would fail.
	ledger := &fakeLedger{noTTL: true}
	w, err := wallet.NewLocal(alice.Seed(), network.TestNetworkPassphrase)
	require.NoError(t, err)

	signed, err := SignAuth(context.Background(), ledger, w, tx, SignAuthParams{
		ContractID:        inv.ContractID,
		SignerAddress:     alice.Address(),
		NetworkPassphrase: network.TestNetworkPassphrase,
	})
	require.NoError(t, err)

	op, err := swapOpFromTx(signed)
	require.NoError(t, err)
	require.Len(t, op.Auth, 1)
	assert.Equal(t, b64XDR(t, sourceEntry), b64XDR(t, op.Auth[0]))
}

func TestSignAuthMissingContractInstance(t *testing.T) {
	alice := keypair.MustRandom()
	bob := keypair.MustRandom()
	inv := testInvocation(t, alice.Address(), bob.Address())

	fn, err := inv.HostFunction()
	require.NoError(t, err)

	tx := signableTx(t, alice.Address(), fn, unsignedAuthEntry(t, alice.Address(), fn, 7))

	ledger := &fakeLedger{noTTL: true}
	w, err := wallet.NewLocal(alice.Seed(), network.TestNetworkPassphrase)
	require.NoError(t, err)

	_, err = SignAuth(context.Background(), ledger, w, tx, SignAuthParams{
		ContractID:        inv.ContractID,
		SignerAddress:     alice.Address(),
		NetworkPassphrase: network.TestNetworkPassphrase,
	})
	require.ErrorIs(t, err, ErrLedgerEntryNotFound)
}

func TestSignAuthRejectedByWallet(t *testing.T) {
	alice := keypair.MustRandom()
	bob := keypair.MustRandom()
	inv := testInvocation(t, alice.Address(), bob.Address())

	fn, err := inv.HostFunction()
	require.NoError(t, err)

	tx := signableTx(t, alice.Address(), fn, unsignedAuthEntry(t, alice.Address(), fn, 7))

	ledger := &fakeLedger{ttl: 12_345}
	w, err := wallet.NewWatchOnly(alice.Address())
	require.NoError(t, err)

	_, err = SignAuth(context.Background(), ledger, w, tx, SignAuthParams{
		ContractID:        inv.ContractID,
		SignerAddress:     alice.Address(),
		NetworkPassphrase: network.TestNetworkPassphrase,
	})
	require.ErrorIs(t, err, wallet.ErrSigningRejected)
}

func TestSignAuthRejectsMultiOperationTransaction(t *testing.T) {
	alice := keypair.MustRandom()
	bob := keypair.MustRandom()
	inv := testInvocation(t, alice.Address(), bob.Address())

	fn, err := inv.HostFunction()
	require.NoError(t, err)

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount: &txnbuild.SimpleAccount{AccountID: alice.Address(), Sequence: 42},
		Operations: []txnbuild.Operation{
			&txnbuild.InvokeHostFunction{HostFunction: fn},
			&txnbuild.InvokeHostFunction{HostFunction: fn},
		},
		BaseFee:       txnbuild.MinBaseFee,
		Preconditions: txnbuild.Preconditions{TimeBounds: txnbuild.NewInfiniteTimeout()},
	})
	require.NoError(t, err)

	w, err := wallet.NewLocal(alice.Seed(), network.TestNetworkPassphrase)
	require.NoError(t, err)

	_, err = SignAuth(context.Background(), &fakeLedger{ttl: 12_345}, w, tx, SignAuthParams{
		ContractID:        inv.ContractID,
		SignerAddress:     alice.Address(),
		NetworkPassphrase: network.TestNetworkPassphrase,
	})
	require.ErrorIs(t, err, ErrUnsupportedOperation)
}
