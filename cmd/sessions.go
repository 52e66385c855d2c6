package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"soroban-swap/config"
	"soroban-swap/pkg/session"
)

var sessionsCmd = &cobra.Command{
	Use:     "sessions [name]",
	Aliases: []string{"ls"},
	Short:   "List locally recorded swap sessions",
	Long: `Show the hops this machine has produced, newest first. With a name
argument, show that session's full hop journal.

Examples:
  soroban-swap sessions
  soroban-swap sessions my-swap`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	store, err := session.NewStore(cfg.SessionFile)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if len(args) == 1 {
		sess, err := store.Get(args[0])
		if err != nil {
			printError(err)
			os.Exit(1)
		}

		if jsonOutput {
			jsonData, _ := json.MarshalIndent(sess, "", "  ")
			fmt.Println(string(jsonData))
			return
		}
		displaySession(sess)
		return
	}

	sessions := store.List()

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(sessions, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	if len(sessions) == 0 {
		fmt.Println("\nNo recorded sessions.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        SWAP SESSIONS")
	fmt.Println(strings.Repeat("=", 70))

	for _, sess := range sessions {
		fmt.Printf("\n  %s  %s\n", color.YellowString(sess.Name),
			color.HiBlackString(sess.CreatedAt.Format("2006-01-02 15:04:05")))
		fmt.Printf("    Contract: %s\n", sess.ContractID)
		fmt.Printf("    Hops:     %d\n", len(sess.Hops))
	}

	fmt.Printf("\nTotal: %d sessions\n\n", len(sessions))
}

func displaySession(sess *session.Session) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        SESSION %s", strings.ToUpper(sess.Name))
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("\n  Contract: %s\n", color.CyanString(sess.ContractID))
	fmt.Printf("  Created:  %s\n", sess.CreatedAt.Format("2006-01-02 15:04:05"))

	for i, hop := range sess.Hops {
		fmt.Printf("\n  Hop %d: %s at %s\n", i+1, color.YellowString(hop.Role), hop.Timestamp)
		if hop.TxHash != "" {
			fmt.Printf("    Tx Hash: %s\n", hop.TxHash)
		}
		if hop.Link != "" {
			fmt.Printf("    Link:    %s\n", color.HiBlackString(hop.Link))
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}
