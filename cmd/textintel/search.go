package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"textintel/internal/service"
	"textintel/internal/tui"
)

var searchTopK int

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the document index",
	Long: `Search the document index. With a query argument the results are printed
as JSON; without one an interactive search console opens.`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", service.DefaultTopK, "Number of results (1-10)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := buildService(components{})
	if err != nil {
		return err
	}
	defer cleanup()
	ctx := context.Background()

	if len(args) > 0 {
		query := strings.Join(args, " ")
		results, err := svc.SemanticSearch(ctx, query, searchTopK)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"query": query, "results": results})
	}

	if searchTopK < service.MinTopK || searchTopK > service.MaxTopK {
		return fmt.Errorf("top-k must be between %d and %d", service.MinTopK, service.MaxTopK)
	}
	m := tui.New(ctx, svc, globalConfig.App.Name, searchTopK)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
