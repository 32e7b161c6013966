// ABOUTME: One-shot question command routed through the orchestrator
// ABOUTME: Useful for scripting and quick checks without a REPL
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askSessionID string

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Ask a single question",
		Long: `Ask a single question and print the reply.

The message is routed exactly like a chat turn: document questions hit
the stored documents, time-sensitive ones hit live search.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
		Example: `  maitre ask "What does my document say about pricing?"
  maitre ask --session work "What's my name?"`,
	}

	cmd.Flags().StringVar(&askSessionID, "session", "default", "Session identifier")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	app, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}

	message := strings.Join(args, " ")
	reply := app.orch.Handle(cmd.Context(), askSessionID, message)
	fmt.Fprintln(cmd.OutOrStdout(), reply)
	return nil
}
