// ABOUTME: Root CLI command with global flags and the command tree
// ABOUTME: Chat, ingest, search, and MCP server all hang off this root
package commands

import (
	"github.com/spf13/cobra"
)

// Global flags shared across commands
var (
	verbose bool
	quiet   bool
	format  string
)

const banner = `
███╗   ███╗ █████╗ ██╗████████╗██████╗ ███████╗
████╗ ████║██╔══██╗██║╚══██╔══╝██╔══██╗██╔════╝
██╔████╔██║███████║██║   ██║   ██████╔╝█████╗
██║╚██╔╝██║██╔══██║██║   ██║   ██╔══██╗██╔══╝
██║ ╚═╝ ██║██║  ██║██║   ██║   ██║  ██║███████╗
╚═╝     ╚═╝╚═╝  ╚═╝╚═╝   ╚═╝   ╚═╝  ╚═╝╚══════╝
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maitre",
		Short: "Chat assistant with document Q&A, live search, and user context",
		Long: banner + `
Maitre routes each chat message to the right capability: questions about
your documents go through retrieval-augmented answering, time-sensitive
questions go to live web search, and personal details land in a
session-scoped context store.

Documents (PDF, DOCX, plain text, images) are extracted, chunked,
embedded, and stored in a vector collection for semantic retrieval.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&format, "format", "auto", "Output format (auto, text, json)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewChatCmd(),
		NewAskCmd(),
		NewIngestCmd(),
		NewSearchCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
