// Package wallet provides the signing capability used to authorize swap
// participation. Backends are selected at runtime by kind; callers only see
// the Wallet interface.
package wallet

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrSigningRejected means the signing backend declined the request.
	// Retrying is meaningless without new user action.
	ErrSigningRejected = errors.New("signing request rejected")

	// ErrWalletConnectionRejected means no usable signing backend could be
	// opened for the requested kind.
	ErrWalletConnectionRejected = errors.New("wallet connection rejected")
)

// Supported wallet kinds
const (
	KindLocal     = "local"
	KindWatchOnly = "watch-only"
)

// Wallet signs on behalf of exactly one account.
type Wallet interface {
	// Address returns the account the wallet signs for.
	Address() string
	// SignAuthEntry signs an authorization-entry payload digest.
	SignAuthEntry(ctx context.Context, payload []byte, accountID string) ([]byte, error)
	// SignTransaction signs a base64 transaction envelope and returns the
	// signed envelope.
	SignTransaction(ctx context.Context, envelopeXDR string, accountID string) (string, error)
}

// New opens a wallet of the given kind. For KindLocal, secret is the
// account's seed; for KindWatchOnly it is the account's public address.
func New(kind, secret, networkPassphrase string) (Wallet, error) {
	switch kind {
	case KindLocal:
		return NewLocal(secret, networkPassphrase)
	case KindWatchOnly:
		return NewWatchOnly(secret)
	default:
		return nil, fmt.Errorf("%w: unsupported wallet kind %q", ErrWalletConnectionRejected, kind)
	}
}
