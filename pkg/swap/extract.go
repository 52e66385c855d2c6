package swap

import (
	"errors"
	"fmt"

	"soroban-swap/pkg/types"
)

// ArgsFromEnvelope decodes a base64 transaction envelope back into the swap
// terms it encodes. It is pure: no network access, and the exact inverse of
// the builder's argument encoding. Receiving parties use it to verify a
// relayed transaction instead of trusting the sender's claims.
func ArgsFromEnvelope(envelopeXDR string) (*types.SwapTerms, error) {
	_, op, err := decodeSwapTx(envelopeXDR)
	if err != nil {
		if errors.Is(err, ErrUnsupportedOperation) {
			return nil, fmt.Errorf("%w: %v", ErrBadEnvelope, err)
		}
		return nil, err
	}

	inv, err := invocationFromHostFunction(op.HostFunction)
	if err != nil {
		return nil, err
	}
	return inv.Terms(), nil
}
