// ABOUTME: Interactive chat command running an orchestrated REPL session
// ABOUTME: Attachments are passed inline with the same marker the chat surface uses
package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var chatSessionID string

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session.

Each message is routed to the right capability automatically: document
questions, live web search, or the user context store.

In-session commands:
  /attach <path> [message]  attach a file for ingestion
  /end                      end the session (discards context)
  /quit                     exit`,
		RunE: runChat,
		Example: `  maitre chat
  maitre chat --session work`,
	}

	cmd.Flags().StringVar(&chatSessionID, "session", "", "Session identifier (default: random)")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	app, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}

	sessionID := chatSessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	out := cmd.OutOrStdout()
	if !quiet {
		fmt.Fprintf(out, "Session %s. Type /quit to exit.\n\n", sessionID)
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/quit" || line == "/exit":
			app.orch.EndSession(sessionID)
			return nil
		case line == "/end":
			app.orch.EndSession(sessionID)
			fmt.Fprintln(out, "Session ended; context discarded.")
			sessionID = uuid.New().String()
			continue
		case strings.HasPrefix(line, "/attach "):
			line = attachMessage(strings.TrimPrefix(line, "/attach "))
		}

		reply := app.orch.Handle(cmd.Context(), sessionID, line)
		fmt.Fprintf(out, "%s\n\n", reply)
	}

	app.orch.EndSession(sessionID)
	return scanner.Err()
}

// attachMessage turns "/attach path [message]" input into the inline
// attachment form the classifier recognizes.
func attachMessage(rest string) string {
	rest = strings.TrimSpace(rest)
	path := rest
	message := ""
	if i := strings.IndexByte(rest, ' '); i > 0 {
		path, message = rest[:i], strings.TrimSpace(rest[i+1:])
	}
	if message == "" {
		return fmt.Sprintf("[Attachment: '%s']", path)
	}
	return fmt.Sprintf("%s [Attachment: '%s']", message, path)
}
