package wallet

import (
	"context"
	"fmt"

	"github.com/stellar/go/keypair"
)

// WatchOnly knows an account's address but holds no key. Every signing
// request is rejected, which makes it usable for dry runs and for exercising
// the rejection path.
type WatchOnly struct {
	address string
}

// NewWatchOnly creates a watch-only wallet for a public address.
func NewWatchOnly(address string) (*WatchOnly, error) {
	if _, err := keypair.ParseAddress(address); err != nil {
		return nil, fmt.Errorf("%w: invalid account address", ErrWalletConnectionRejected)
	}
	return &WatchOnly{address: address}, nil
}

// Address returns the watched account address.
func (w *WatchOnly) Address() string {
	return w.address
}

// SignAuthEntry always rejects.
func (w *WatchOnly) SignAuthEntry(context.Context, []byte, string) ([]byte, error) {
	return nil, fmt.Errorf("%w: wallet is watch-only", ErrSigningRejected)
}

// SignTransaction always rejects.
func (w *WatchOnly) SignTransaction(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("%w: wallet is watch-only", ErrSigningRejected)
}
