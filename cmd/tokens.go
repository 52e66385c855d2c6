package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"soroban-swap/config"
	"soroban-swap/pkg/rpc"
	"soroban-swap/pkg/swap"
)

var tokenSource string

var tokensCmd = &cobra.Command{
	Use:     "token-info <token-contract-id>",
	Aliases: []string{"token"},
	Short:   "Show a token's symbol, name, and decimals",
	Long: `Fetch a token contract's metadata via read-only simulation. Nothing is
submitted to the ledger.

Examples:
  soroban-swap token-info C...TOKEN
  soroban-swap token-info C...TOKEN --source G...ACCOUNT`,
	Args: cobra.ExactArgs(1),
	Run:  runTokenInfo,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVar(&tokenSource, "source", "", "Source account for the read-only call (defaults to the wallet address)")
}

func runTokenInfo(cmd *cobra.Command, args []string) {
	tokenID := args[0]
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	source := tokenSource
	if source == "" {
		w, err := openWallet(cfg)
		if err != nil {
			printError(fmt.Errorf("no --source given and no wallet available: %w", err))
			os.Exit(1)
		}
		source = w.Address()
	}

	ledger := rpc.NewClient(cfg.RPCURL)

	s := newSpinner("Fetching token metadata...")
	if !jsonOutput {
		s.Start()
	}
	info, err := swap.TokenInfo(cmd.Context(), ledger, source, tokenID)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(info, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                           TOKEN INFO")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("\n  Contract: %s\n", color.CyanString(info.ContractID))
	fmt.Printf("  Symbol:   %s\n", color.YellowString(info.Symbol))
	fmt.Printf("  Name:     %s\n", info.Name)
	fmt.Printf("  Decimals: %d\n", info.Decimals)
	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}
