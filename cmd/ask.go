package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the guide a single question",
	Long:  `Runs one query through the guide pipeline and prints the grounded answer.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().String("session", "", "session ID to continue")
	askCmd.Flags().Bool("json", false, "output the full result as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	sessionID, _ := cmd.Flags().GetString("session")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	result, err := eng.Ask(context.Background(), sessionID, args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Println(result.Text)
	if verbose {
		fmt.Fprintf(os.Stderr, "\nintent=%s facts=%d fallback=%v version=%s elapsed=%s\n",
			result.Intent, len(result.FactsUsed), result.Fallback, result.KnowledgeVersion, result.Elapsed)
	}
	return nil
}
