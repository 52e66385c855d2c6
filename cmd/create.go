package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"soroban-swap/config"
	"soroban-swap/pkg/amount"
	"soroban-swap/pkg/relay"
	"soroban-swap/pkg/rpc"
	"soroban-swap/pkg/swap"
)

var (
	createContract string
	createTokenA   string
	createAmountA  string
	createMinA     string
	createTokenB   string
	createAmountB  string
	createMinB     string
	createAddressA string
	createAddressB string
	createMemo     string
	createFee      int64
	createSession  string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Build a swap transaction and produce the link for swapper A",
	Long: `Build the unsigned swap transaction as the creator.

The transaction is simulated against the configured RPC endpoint; the
resulting footprint is captured and carried through every hop. The output is
a shareable link for swapper A.

Amounts are display values ("100" or "99.5"); each token's on-chain decimal
count is fetched before parsing, and values with more precision than the
token supports are rejected rather than rounded.

Example:
  soroban-swap create \
    --token-a C...TOKENA --amount-a 100 --min-a 90 \
    --token-b C...TOKENB --amount-b 50 --min-b 45 \
    --address-b G...SWAPPERB`,
	Run: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringVar(&createContract, "contract", "", "Swap contract ID (defaults to configured contract_id)")
	createCmd.Flags().StringVar(&createTokenA, "token-a", "", "Contract ID of the token swapper A sends (REQUIRED)")
	createCmd.Flags().StringVar(&createAmountA, "amount-a", "", "Amount of token A swapper A sends (REQUIRED)")
	createCmd.Flags().StringVar(&createMinA, "min-a", "", "Minimum acceptable amount of token A (REQUIRED)")
	createCmd.Flags().StringVar(&createTokenB, "token-b", "", "Contract ID of the token swapper B sends (REQUIRED)")
	createCmd.Flags().StringVar(&createAmountB, "amount-b", "", "Amount of token B swapper B sends (REQUIRED)")
	createCmd.Flags().StringVar(&createMinB, "min-b", "", "Minimum acceptable amount of token B (REQUIRED)")
	createCmd.Flags().StringVar(&createAddressA, "address-a", "", "Swapper A's account (defaults to the wallet address)")
	createCmd.Flags().StringVar(&createAddressB, "address-b", "", "Swapper B's account (REQUIRED)")
	createCmd.Flags().StringVar(&createMemo, "memo", "", "Optional text memo")
	createCmd.Flags().Int64Var(&createFee, "fee", 0, "Fee ceiling in stroops (defaults to configured base_fee)")
	createCmd.Flags().StringVar(&createSession, "session", "", "Session name for the local hop journal")

	for _, flag := range []string{"token-a", "amount-a", "min-a", "token-b", "amount-b", "min-b", "address-b"} {
		_ = createCmd.MarkFlagRequired(flag)
	}
}

func runCreate(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	contractID := createContract
	if contractID == "" {
		contractID = cfg.ContractID
	}
	if contractID == "" {
		printError(fmt.Errorf("no swap contract configured. Use --contract or set contract_id"))
		os.Exit(1)
	}

	w, err := openWallet(cfg)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	addressA := createAddressA
	if addressA == "" {
		addressA = w.Address()
	}

	fee := createFee
	if fee == 0 {
		fee = cfg.BaseFee
	}

	ledger := rpc.NewClient(cfg.RPCURL)

	s := newSpinner("Fetching token decimals...")
	if !jsonOutput {
		s.Start()
	}
	decimalsA, errA := swap.TokenDecimals(ctx, ledger, addressA, createTokenA)
	decimalsB, errB := swap.TokenDecimals(ctx, ledger, addressA, createTokenB)
	if !jsonOutput {
		s.Stop()
	}
	if errA != nil {
		printError(fmt.Errorf("token A: %w", errA))
		os.Exit(1)
	}
	if errB != nil {
		printError(fmt.Errorf("token B: %w", errB))
		os.Exit(1)
	}

	inv := swap.Invocation{
		ContractID: contractID,
		AddressA:   addressA,
		AddressB:   createAddressB,
		TokenA:     createTokenA,
		TokenB:     createTokenB,
	}
	if inv.AmountA, err = amount.Parse(createAmountA, decimalsA); err != nil {
		printError(fmt.Errorf("--amount-a: %w", err))
		os.Exit(1)
	}
	if inv.MinAmountA, err = amount.Parse(createMinA, decimalsA); err != nil {
		printError(fmt.Errorf("--min-a: %w", err))
		os.Exit(1)
	}
	if inv.AmountB, err = amount.Parse(createAmountB, decimalsB); err != nil {
		printError(fmt.Errorf("--amount-b: %w", err))
		os.Exit(1)
	}
	if inv.MinAmountB, err = amount.Parse(createMinB, decimalsB); err != nil {
		printError(fmt.Errorf("--min-b: %w", err))
		os.Exit(1)
	}

	s = newSpinner("Building and simulating swap transaction...")
	if !jsonOutput {
		s.Start()
	}
	result, err := swap.Build(ctx, ledger, swap.BuildParams{
		SourceAccount: w.Address(),
		Invocation:    inv,
		Memo:          createMemo,
		BaseFee:       fee,
	})
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	payload := relay.Payload{
		BaseTxXDR:    result.EnvelopeXDR,
		ContractID:   contractID,
		FootprintXDR: result.FootprintXDR,
		Recipient:    addressA,
	}
	link, err := payload.Link(cfg.LinkBase)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	sessionName := createSession
	if sessionName == "" {
		sessionName = shortID(contractID)
	}
	recordHop(cfg, sessionName, contractID, "creator", link, "")

	if jsonOutput {
		output := map[string]interface{}{
			"contract_id": contractID,
			"address_a":   addressA,
			"address_b":   createAddressB,
			"link":        link,
			"footprint":   result.FootprintXDR,
			"status":      "built",
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                     SWAP TRANSACTION BUILT")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("\n  Contract:  %s\n", color.CyanString(contractID))
	fmt.Printf("  Swapper A: %s\n", addressA)
	fmt.Printf("  Swapper B: %s\n", createAddressB)
	fmt.Println("\nSend this link to Swapper A:")
	color.Cyan("  %s\n", link)
	fmt.Println("\nKeep the terminal output: the link embeds the footprint that must")
	fmt.Println("survive every hop unchanged.")
}
