package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "soroban-swap",
	Short: "A CLI for trustless two-party atomic token swaps on Soroban",
	Long: `soroban-swap coordinates an atomic token swap between two parties who do
not trust each other. A creator builds the swap transaction, each swapper
signs only their own authorization entries, and state moves between parties
as shareable links.

Examples:
  soroban-swap create --token-a C... --amount-a 100 --min-a 90 \
    --token-b C... --amount-b 50 --min-b 45 --address-b G...
  soroban-swap sign '<link>'
  soroban-swap submit '<link>'
  soroban-swap status <tx-hash>`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

func newSpinner(suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + suffix
	return s
}

func confirm(prompt string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("\n%s (y/N): ", prompt)

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
