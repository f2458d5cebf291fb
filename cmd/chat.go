package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/SRINIVASINDIA/Local-guide/internal/engine"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive guide session",
	Long: `Opens a REPL bound to one session. The session keeps answering from
the guide version it started with; type /reload to parse the guide
again and /refresh to move the session onto the new version.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	sess := eng.Session("")
	fmt.Printf("%s ready (guide version %s). Type /help for commands.\n", cfg.AgentName, sess.KnowledgeVersion())

	prompt := promptui.Prompt{Label: "you"}
	for {
		line, err := prompt.Run()
		if err != nil {
			// Ctrl-C or Ctrl-D ends the session.
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				eng.EndSession(sess.ID)
				fmt.Println("bye")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if done := runChatCommand(eng, sess.ID, line); done {
				return nil
			}
			continue
		}

		result, err := eng.Ask(context.Background(), sess.ID, line)
		if err != nil {
			fmt.Printf("  %v\n", err)
			continue
		}
		fmt.Printf("  %s\n", result.Text)
		if verbose {
			fmt.Printf("  [%s, %d facts, %s]\n", result.Intent, len(result.FactsUsed), result.Elapsed)
		}
	}
}

// runChatCommand handles slash commands; it returns true when the REPL
// should exit.
func runChatCommand(eng *engine.Engine, sessionID, line string) bool {
	switch line {
	case "/help":
		fmt.Println("  /reload   parse the guide document again")
		fmt.Println("  /refresh  move this session to the latest guide version")
		fmt.Println("  /stats    show engine counters")
		fmt.Println("  /quit     end the session")
	case "/reload":
		if err := eng.Reload(); err != nil {
			fmt.Printf("  reload failed: %v\n", err)
		} else {
			fmt.Printf("  reloaded, version %s (use /refresh to switch this session)\n", eng.KnowledgeVersion())
		}
	case "/refresh":
		eng.RefreshSession(sessionID)
		fmt.Printf("  session now on version %s\n", eng.KnowledgeVersion())
	case "/stats":
		st := eng.Stats()
		fmt.Printf("  processed=%d fallbacks=%d sessions=%d facts=%d version=%s\n",
			st.Processed, st.Fallbacks, st.Sessions, st.FactCount, st.KnowledgeVersion)
	case "/quit", "/exit":
		eng.EndSession(sessionID)
		fmt.Println("bye")
		return true
	default:
		fmt.Printf("  unknown command %s (try /help)\n", line)
	}
	return false
}
