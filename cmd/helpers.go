package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"soroban-swap/config"
	"soroban-swap/pkg/amount"
	"soroban-swap/pkg/rpc"
	"soroban-swap/pkg/session"
	"soroban-swap/pkg/swap"
	"soroban-swap/pkg/types"
	"soroban-swap/pkg/wallet"
)

func openWallet(cfg *config.Config) (wallet.Wallet, error) {
	if cfg.WalletSecret == "" {
		return nil, fmt.Errorf("wallet secret not configured. Set SOROBAN_SWAP_WALLET_SECRET or add wallet_secret to .soroban-swap.yaml")
	}
	return wallet.New(cfg.WalletKind, cfg.WalletSecret, cfg.NetworkPassphrase)
}

// tokenDisplay is the decimals/symbol pair used to render one token's
// amounts. Falls back to the 7-decimal display default when metadata cannot
// be fetched; the fallback never feeds the codec on the build path.
type tokenDisplay struct {
	Symbol   string
	Decimals uint32
}

func fetchTokenDisplay(ctx context.Context, ledger *rpc.Client, source, tokenID string) tokenDisplay {
	info, err := swap.TokenInfo(ctx, ledger, source, tokenID)
	if err != nil {
		return tokenDisplay{Symbol: shortID(tokenID), Decimals: amount.DefaultDecimals}
	}
	return tokenDisplay{Symbol: info.Symbol, Decimals: info.Decimals}
}

func shortID(id string) string {
	if len(id) > 10 {
		return id[:5] + "..." + id[len(id)-5:]
	}
	return id
}

func displayTerms(terms *types.SwapTerms, tokenA, tokenB tokenDisplay) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                          SWAP TERMS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Swapper A: %s\n", color.CyanString(terms.AddressA))
	fmt.Printf("  Swapper B: %s\n", color.CyanString(terms.AddressB))
	fmt.Printf("  A sends:   %s %s (minimum %s)\n",
		amount.Format(terms.AmountA, tokenA.Decimals), color.YellowString(tokenA.Symbol),
		amount.Format(terms.MinAmountA, tokenA.Decimals))
	fmt.Printf("  B sends:   %s %s (minimum %s)\n",
		amount.Format(terms.AmountB, tokenB.Decimals), color.YellowString(tokenB.Symbol),
		amount.Format(terms.MinAmountB, tokenB.Decimals))

	fmt.Println("\n" + strings.Repeat("=", 70))
}

func recordHop(cfg *config.Config, name, contractID, role, link, txHash string) {
	store, err := session.NewStore(cfg.SessionFile)
	if err != nil {
		color.Yellow("Warning: could not open session journal: %v", err)
		return
	}
	hop := types.HopRecord{
		Role:      role,
		Link:      link,
		TxHash:    txHash,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if err := store.Record(name, contractID, hop); err != nil {
		color.Yellow("Warning: could not record session hop: %v", err)
	}
}
