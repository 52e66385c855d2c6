package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"soroban-swap/config"
	"soroban-swap/pkg/relay"
	"soroban-swap/pkg/rpc"
	"soroban-swap/pkg/swap"
)

var (
	signNoConfirm bool
	signSession   string
)

var signCmd = &cobra.Command{
	Use:   "sign <link>",
	Short: "Sign your own authorization entries in a relayed swap",
	Long: `Act as swapper A or B: decode the relayed transaction, verify its terms
independently, sign only the authorization entries bound to your account,
and produce the link for the next hop.

Entries belonging to the other swapper are passed through untouched; the
creator's footprint is carried forward verbatim.

Examples:
  soroban-swap sign 'http://localhost:9000/swap?xdr=...&contractId=...&account=...&creatorFootprint=...'
  soroban-swap sign '<link>' --yes`,
	Args: cobra.ExactArgs(1),
	Run:  runSign,
}

func init() {
	rootCmd.AddCommand(signCmd)

	signCmd.Flags().BoolVarP(&signNoConfirm, "yes", "y", false, "Skip confirmation prompt")
	signCmd.Flags().StringVar(&signSession, "session", "", "Session name for the local hop journal")
}

func runSign(cmd *cobra.Command, args []string) {
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
	if err := payload.Validate(true); err != nil {
		printError(err)
		os.Exit(1)
	}

	w, err := openWallet(cfg)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if w.Address() != payload.Recipient {
		printError(fmt.Errorf("this hop expects signer %s, wallet holds %s", payload.Recipient, w.Address()))
		os.Exit(1)
	}

	// Trust only the embedded transaction, not the sender's claims.
	terms, err := swap.ArgsFromEnvelope(payload.BaseTxXDR)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	ledger := rpc.NewClient(cfg.RPCURL)

	if !jsonOutput {
		s := newSpinner("Fetching token metadata...")
		s.Start()
		tokenA := fetchTokenDisplay(ctx, ledger, terms.AddressA, terms.TokenA)
		tokenB := fetchTokenDisplay(ctx, ledger, terms.AddressA, terms.TokenB)
		s.Stop()

		displayTerms(terms, tokenA, tokenB)
	}

	if !signNoConfirm && !jsonOutput {
		if !confirm("Sign your authorization for this swap?") {
			fmt.Println("\nSigning cancelled.")
			os.Exit(0)
		}
	}

	generic, err := swap.DecodeTransaction(payload.BaseTxXDR)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	s := newSpinner("Signing authorization entries...")
	if !jsonOutput {
		s.Start()
	}
	signed, err := swap.SignAuth(ctx, ledger, w, generic, swap.SignAuthParams{
		ContractID:        payload.ContractID,
		SignerAddress:     w.Address(),
		NetworkPassphrase: cfg.NetworkPassphrase,
	})
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	signedXDR, err := signed.Base64()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	// A's hop goes to B; B's hop goes back to the creator for submission.
	next := relay.Payload{
		BaseTxXDR:    signedXDR,
		ContractID:   payload.ContractID,
		FootprintXDR: payload.FootprintXDR,
	}
	role := "swapper-b"
	if w.Address() == terms.AddressA {
		next.Recipient = terms.AddressB
		role = "swapper-a"
	}

	link, err := next.Link(cfg.LinkBase)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	sessionName := signSession
	if sessionName == "" {
		sessionName = shortID(payload.ContractID)
	}
	recordHop(cfg, sessionName, payload.ContractID, role, link, "")

	if jsonOutput {
		output := map[string]interface{}{
			"signed_as": w.Address(),
			"role":      role,
			"link":      link,
			"status":    "signed",
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	color.Green("\n✓ Authorization signed as %s", role)
	if next.Recipient != "" {
		fmt.Println("\nSend this link to Swapper B:")
	} else {
		fmt.Println("\nSend this link back to the creator for submission:")
	}
	color.Cyan("  %s\n", link)
}
