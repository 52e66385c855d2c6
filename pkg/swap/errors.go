package swap

import "errors"

var (
	// ErrSimulationFailed means the ledger rejected the simulation. The
	// transaction must be rebuilt from current state, not retried as-is.
	ErrSimulationFailed = errors.New("transaction simulation failed")

	// ErrBadEnvelope means an envelope could not be decoded into a swap
	// invocation.
	ErrBadEnvelope = errors.New("envelope does not contain a swap invocation")

	// ErrUnsupportedOperation means a transaction handed to the signer does
	// not consist of exactly one contract invocation.
	ErrUnsupportedOperation = errors.New("transaction must contain exactly one contract invocation")

	// ErrLedgerEntryNotFound means the contract's instance storage could not
	// be located, so an authorization cannot be safely bounded.
	ErrLedgerEntryNotFound = errors.New("contract instance ledger entry not found")
)
