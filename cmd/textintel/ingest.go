package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file.txt|glob>...",
	Short: "Add text files to the index",
	Long: `Split each .txt file into sentence chunks and add every chunk to the
document index with metadata {source, chunk}.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	svc, cleanup, err := buildService(components{chunker: true})
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := svc.IngestFiles(ctx, args)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d files as %d chunks (%d documents in index)\n",
		len(report.Files), report.Chunks, report.TotalDocuments)
	return nil
}
