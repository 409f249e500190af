package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show document index statistics",
	RunE:  runStats,
}

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every document from the index",
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Do not ask for confirmation")
}

func runStats(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := buildService(components{})
	if err != nil {
		return err
	}
	defer cleanup()

	st, err := svc.IndexStats()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(st)
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		fmt.Fprint(cmd.OutOrStdout(), "Remove every document from the index? [y/N] ")
		var answer string
		_, _ = fmt.Fscanln(cmd.InOrStdin(), &answer)
		if answer != "y" && answer != "Y" && answer != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}
	svc, cleanup, err := buildService(components{})
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.ClearIndex(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Index cleared")
	return nil
}
