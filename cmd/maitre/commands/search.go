// ABOUTME: Live web search command bypassing message classification
// ABOUTME: Always prints a readable reply, even when the provider is down
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the web for current information",
		Long: `Run a live web search and print a synthesized answer.

Goes straight to the live search assistant without message
classification.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
		Example: `  maitre search "bitcoin price"
  maitre search weather in Lisbon today`,
	}

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	app, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	fmt.Fprintln(cmd.OutOrStdout(), app.live.Answer(cmd.Context(), query))
	return nil
}
