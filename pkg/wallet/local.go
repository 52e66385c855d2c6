package wallet

import (
	"context"
	"fmt"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
)

// Local signs with a keypair held in memory.
type Local struct {
	kp                *keypair.Full
	networkPassphrase string
}

// NewLocal creates a wallet from a secret seed.
func NewLocal(seed, networkPassphrase string) (*Local, error) {
	kp, err := keypair.ParseFull(seed)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid secret seed", ErrWalletConnectionRejected)
	}
	return &Local{kp: kp, networkPassphrase: networkPassphrase}, nil
}

// Address returns the wallet's public account address.
func (l *Local) Address() string {
	return l.kp.Address()
}

// SignAuthEntry signs a payload digest with the wallet key.
func (l *Local) SignAuthEntry(_ context.Context, payload []byte, accountID string) ([]byte, error) {
	if accountID != l.kp.Address() {
		return nil, fmt.Errorf("%w: wallet holds %s, not %s", ErrSigningRejected, l.kp.Address(), accountID)
	}
	return l.kp.Sign(payload)
}

// SignTransaction adds the wallet's envelope signature to a transaction.
func (l *Local) SignTransaction(_ context.Context, envelopeXDR string, accountID string) (string, error) {
	if accountID != l.kp.Address() {
		return "", fmt.Errorf("%w: wallet holds %s, not %s", ErrSigningRejected, l.kp.Address(), accountID)
	}

	generic, err := txnbuild.TransactionFromXDR(envelopeXDR)
	if err != nil {
		return "", fmt.Errorf("failed to decode transaction: %w", err)
	}
	tx, ok := generic.Transaction()
	if !ok {
		return "", fmt.Errorf("fee-bump envelopes are not supported")
	}

	signed, err := tx.Sign(l.networkPassphrase, l.kp)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}
	return signed.Base64()
}
