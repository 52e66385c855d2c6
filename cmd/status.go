package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"soroban-swap/config"
	"soroban-swap/pkg/rpc"
)

var (
	watchStatus   bool
	watchInterval int
)

var statusCmd = &cobra.Command{
	Use:   "status <tx-hash>",
	Short: "Check the status of a submitted swap transaction",
	Long: `Check the ledger's view of a submitted transaction by its hex hash.

Examples:
  soroban-swap status 1a2b3c...
  soroban-swap status 1a2b3c... --watch
  soroban-swap status 1a2b3c... --watch --interval 10`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Watch status updates continuously")
	statusCmd.Flags().IntVar(&watchInterval, "interval", 5, "Polling interval in seconds (when watching)")
}

func runStatus(cmd *cobra.Command, args []string) {
	txHash := args[0]
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	ledger := rpc.NewClient(cfg.RPCURL)

	if watchStatus {
		watchTxStatus(cmd, ledger, txHash, jsonOutput)
	} else {
		checkTxStatus(cmd, ledger, txHash, jsonOutput)
	}
}

func checkTxStatus(cmd *cobra.Command, ledger *rpc.Client, txHash string, jsonOutput bool) {
	s := newSpinner("Checking transaction status...")
	if !jsonOutput {
		s.Start()
	}

	resp, err := ledger.GetTransaction(cmd.Context(), txHash)
	if !jsonOutput {
		s.Stop()
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayTxStatus(resp, txHash)
	}
}

func watchTxStatus(cmd *cobra.Command, ledger *rpc.Client, txHash string, jsonOutput bool) {
	if jsonOutput {
		fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
		os.Exit(1)
	}

	fmt.Printf("\nWatching transaction %s\n", color.CyanString(txHash))
	fmt.Printf("Checking every %d seconds. Press Ctrl+C to stop.\n\n", watchInterval)

	ticker := time.NewTicker(time.Duration(watchInterval) * time.Second)
	defer ticker.Stop()

	checkAndDisplayTxStatus(cmd, ledger, txHash)

	for range ticker.C {
		checkAndDisplayTxStatus(cmd, ledger, txHash)
	}
}

func checkAndDisplayTxStatus(cmd *cobra.Command, ledger *rpc.Client, txHash string) {
	resp, err := ledger.GetTransaction(cmd.Context(), txHash)
	if err != nil {
		color.Red("Error: %v", err)
		return
	}

	displayTxStatus(resp, txHash)
}

func displayTxStatus(resp *rpc.GetTransactionResponse, txHash string) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                      TRANSACTION STATUS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Tx Hash: %s\n", color.CyanString(txHash))
	fmt.Printf("  Status:  %s\n", coloredTxStatus(resp.Status))

	if resp.Ledger != 0 {
		fmt.Printf("  Ledger:  %d\n", resp.Ledger)
	}
	if resp.ResultXDR != "" {
		fmt.Printf("  Result:  %s\n", color.HiBlackString(resp.ResultXDR))
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func coloredTxStatus(status string) string {
	switch status {
	case rpc.TxStatusSuccess:
		return color.GreenString(status)
	case rpc.TxStatusNotFound:
		return color.YellowString(status)
	case rpc.TxStatusFailed:
		return color.RedString(status)
	default:
		return status
	}
}
