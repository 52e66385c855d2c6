package types

import "math/big"

// SwapTerms holds the economic proposal encoded in a swap transaction
type SwapTerms struct {
	AddressA   string
	AddressB   string
	TokenA     string
	TokenB     string
	AmountA    *big.Int
	MinAmountA *big.Int
	AmountB    *big.Int
	MinAmountB *big.Int
}

// TokenInfo holds metadata fetched once per token contract
type TokenInfo struct {
	ContractID string
	Symbol     string
	Name       string
	Decimals   uint32
}

// HopRecord captures one relay hop a party produced for a swap session
type HopRecord struct {
	Role      string `json:"role"`
	TxHash    string `json:"tx_hash,omitempty"`
	Link      string `json:"link,omitempty"`
	Timestamp string `json:"timestamp"`
}
