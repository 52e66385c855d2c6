package swap

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/strkey"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"

	"soroban-swap/pkg/wallet"
)

// SignAuthParams identifies which entries to sign and how to bound them.
type SignAuthParams struct {
	// ContractID of the swap contract; its instance storage expiration
	// becomes the signature's expiration ledger bound.
	ContractID string
	// SignerAddress is the caller's own account. Only entries whose
	// credential is bound to it are signed; all others pass through
	// unchanged for a later hop.
	SignerAddress     string
	NetworkPassphrase string
}

// SignAuth signs the authorization entries owned by the caller and returns a
// new transaction with the operation's entry list replaced, preserving entry
// order and count. Entries not owned by the caller are left byte-identical.
func SignAuth(ctx context.Context, ledger Ledger, signer wallet.Wallet, tx *txnbuild.Transaction, params SignAuthParams) (*txnbuild.Transaction, error) {
	op, err := swapOpFromTx(tx)
	if err != nil {
		return nil, err
	}

	// Looked up once, on the first entry that needs it.
	var expirationLedger uint32

	signed := make([]xdr.SorobanAuthorizationEntry, 0, len(op.Auth))
	for _, entry := range op.Auth {
		if entry.Credentials.Type != xdr.SorobanCredentialsTypeSorobanCredentialsAddress {
			// Source-account credentials are implicitly authorized.
			signed = append(signed, entry)
			continue
		}

		address := entry.Credentials.Address.Address
		if address.Type != xdr.ScAddressTypeScAddressTypeAccount ||
			address.AccountId.Address() != params.SignerAddress {
			// Not this signer's entry; a later hop signs it.
			signed = append(signed, entry)
			continue
		}

		if expirationLedger == 0 {
			var err error
			expirationLedger, err = contractInstanceTTL(ctx, ledger, params.ContractID)
			if err != nil {
				return nil, err
			}
		}

		authorized, err := authorizeEntry(ctx, entry, signer, params.SignerAddress, expirationLedger, params.NetworkPassphrase)
		if err != nil {
			return nil, err
		}
		signed = append(signed, authorized)
	}

	op.Auth = signed

	source := tx.SourceAccount()
	next, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &txnbuild.SimpleAccount{AccountID: source.AccountID, Sequence: tx.SequenceNumber()},
		IncrementSequenceNum: false,
		Operations:           []txnbuild.Operation{op},
		BaseFee:              tx.BaseFee(),
		Memo:                 tx.Memo(),
		Preconditions:        txnbuild.Preconditions{TimeBounds: tx.Timebounds()},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild transaction: %w", err)
	}
	return next, nil
}

// contractInstanceTTL returns the ledger sequence at which the contract's
// instance storage expires. Authorizations are bounded to it so a stalled
// swap cannot be replayed indefinitely.
func contractInstanceTTL(ctx context.Context, ledger Ledger, contractID string) (uint32, error) {
	contract, err := contractScAddress(contractID)
	if err != nil {
		return 0, err
	}

	key := xdr.LedgerKey{
		Type: xdr.LedgerEntryTypeContractData,
		ContractData: &xdr.LedgerKeyContractData{
			Contract:   contract,
			Key:        xdr.ScVal{Type: xdr.ScValTypeScvLedgerKeyContractInstance},
			Durability: xdr.ContractDataDurabilityPersistent,
		},
	}

	resp, err := ledger.GetLedgerEntries(ctx, []xdr.LedgerKey{key})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch contract instance: %w", err)
	}
	if len(resp.Entries) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrLedgerEntryNotFound, contractID)
	}
	return resp.Entries[0].LiveUntilLedgerSeq, nil
}

// authorizeEntry signs one address-credential entry: it hashes the entry's
// canonical preimage (network-scoped, expiration-bounded), obtains a
// signature from the signing capability, verifies it against the signer's
// key, and splices the signature into a copy of the entry.
func authorizeEntry(ctx context.Context, entry xdr.SorobanAuthorizationEntry, signer wallet.Wallet, signerAddress string, expirationLedger uint32, networkPassphrase string) (xdr.SorobanAuthorizationEntry, error) {
	credentials := *entry.Credentials.Address

	preimage := xdr.HashIdPreimage{
		Type: xdr.EnvelopeTypeEnvelopeTypeSorobanAuthorization,
		SorobanAuthorization: &xdr.HashIdPreimageSorobanAuthorization{
			NetworkId:                 xdr.Hash(network.ID(networkPassphrase)),
			Nonce:                     credentials.Nonce,
			SignatureExpirationLedger: xdr.Uint32(expirationLedger),
			Invocation:                entry.RootInvocation,
		},
	}
	raw, err := preimage.MarshalBinary()
	if err != nil {
		return xdr.SorobanAuthorizationEntry{}, fmt.Errorf("failed to encode auth preimage: %w", err)
	}
	payload := sha256.Sum256(raw)

	signature, err := signer.SignAuthEntry(ctx, payload[:], signerAddress)
	if err != nil {
		return xdr.SorobanAuthorizationEntry{}, err
	}

	verifier, err := keypair.ParseAddress(signerAddress)
	if err != nil {
		return xdr.SorobanAuthorizationEntry{}, fmt.Errorf("invalid signer address %q: %w", signerAddress, err)
	}
	if err := verifier.Verify(payload[:], signature); err != nil {
		return xdr.SorobanAuthorizationEntry{}, fmt.Errorf("signature does not match signer %s: %w", signerAddress, err)
	}

	publicKey, err := strkey.Decode(strkey.VersionByteAccountID, signerAddress)
	if err != nil {
		return xdr.SorobanAuthorizationEntry{}, fmt.Errorf("invalid signer address %q: %w", signerAddress, err)
	}

	sigMap := &xdr.ScMap{
		xdr.ScMapEntry{Key: symbolScVal("public_key"), Val: bytesScVal(publicKey)},
		xdr.ScMapEntry{Key: symbolScVal("signature"), Val: bytesScVal(signature)},
	}
	sigVec := &xdr.ScVec{{Type: xdr.ScValTypeScvMap, Map: &sigMap}}

	credentials.SignatureExpirationLedger = xdr.Uint32(expirationLedger)
	credentials.Signature = xdr.ScVal{Type: xdr.ScValTypeScvVec, Vec: &sigVec}

	return xdr.SorobanAuthorizationEntry{
		Credentials: xdr.SorobanCredentials{
			Type:    xdr.SorobanCredentialsTypeSorobanCredentialsAddress,
			Address: &credentials,
		},
		RootInvocation: entry.RootInvocation,
	}, nil
}

func symbolScVal(s string) xdr.ScVal {
	sym := xdr.ScSymbol(s)
	return xdr.ScVal{Type: xdr.ScValTypeScvSymbol, Sym: &sym}
}

func bytesScVal(b []byte) xdr.ScVal {
	bytes := xdr.ScBytes(b)
	return xdr.ScVal{Type: xdr.ScValTypeScvBytes, Bytes: &bytes}
}
