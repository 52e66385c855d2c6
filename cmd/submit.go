package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"soroban-swap/config"
	"soroban-swap/pkg/relay"
	"soroban-swap/pkg/rpc"
	"soroban-swap/pkg/submit"
	"soroban-swap/pkg/swap"
)

var submitSession string

var submitCmd = &cobra.Command{
	Use:   "submit <link>",
	Short: "Finalize and submit a fully-authorized swap",
	Long: `Act as the creator on the final hop: re-simulate the fully auth-signed
transaction for fresh resource costs, restore the original footprint
byte-for-byte, add the envelope signature with the configured wallet, and
submit. The command polls the ledger every poll_interval until the
transaction reaches a terminal status; press Ctrl+C to stop waiting.

Example:
  soroban-swap submit 'http://localhost:9000/swap?xdr=...&contractId=...&creatorFootprint=...'`,
	Args: cobra.ExactArgs(1),
	Run:  runSubmit,
}

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().StringVar(&submitSession, "session", "", "Session name for the local hop journal")
}

func runSubmit(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	payload, err := relay.ParseLink(args[0])
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	w, err := openWallet(cfg)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	ledger := rpc.NewClient(cfg.RPCURL)

	s := newSpinner("Re-simulating and restoring footprint...")
	if !jsonOutput {
		s.Start()
	}
	finalTx, err := swap.Reassemble(ctx, ledger, payload.BaseTxXDR, payload.FootprintXDR)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	finalXDR, err := finalTx.Base64()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	signedXDR, err := w.SignTransaction(ctx, finalXDR, w.Address())
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	submitter := submit.New(ledger)
	submitter.SetPollInterval(cfg.PollInterval)

	s = newSpinner("Submitting transaction and awaiting confirmation...")
	if !jsonOutput {
		s.Start()
	}
	result, err := submitter.Submit(ctx, signedXDR)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	sessionName := submitSession
	if sessionName == "" {
		sessionName = shortID(payload.ContractID)
	}
	recordHop(cfg, sessionName, payload.ContractID, "creator-submit", "", result.Hash)

	if jsonOutput {
		output := map[string]interface{}{
			"tx_hash":    result.Hash,
			"result_xdr": result.ResultXDR,
			"status":     "success",
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        SWAP SUBMITTED")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("\n  Tx Hash:    %s\n", color.CyanString(result.Hash))
	fmt.Printf("  Result XDR: %s\n", result.ResultXDR)
	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}
