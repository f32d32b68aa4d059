// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/pdiddy/validardoc/internal/history"
	"github.com/pdiddy/validardoc/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past validation runs",
	Long: `History reads the local run database and lists the most recent runs,
newest first. Use --json or --yaml to export the records.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return fmt.Errorf("run history is disabled: history.path is empty")
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	rowID, _ := cmd.Flags().GetString("row-id")
	records, err := store.Recent(context.Background(), history.QueryOptions{RowID: rowID, Limit: limit})
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	yamlOutput, _ := cmd.Flags().GetBool("yaml")
	switch {
	case jsonOutput && yamlOutput:
		return fmt.Errorf("--json and --yaml are mutually exclusive")
	case jsonOutput:
		return history.WriteJSON(os.Stdout, records)
	case yamlOutput:
		return history.WriteYAML(os.Stdout, records)
	}
	return formatHistory(records)
}

func formatHistory(records []types.RunRecord) error {
	if len(records) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-19s  %-12s  %-11s  %-9s  %-24s  %-8s  %s\n",
		"Started", "Row", "Mode", "Status", "Signer", "Elapsed", "Exit")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, r := range records {
		row := truncate(r.RowID, 12)
		signer := truncate(r.SignerName, 24)
		status := string(r.Status)
		if status == "" {
			status = "-"
		}
		fmt.Fprintf(os.Stdout, "%-19s  %-12s  %-11s  %-9s  %-24s  %-8s  %d\n",
			r.StartedAt.Local().Format(time.DateTime), row, r.Mode, status, signer,
			r.Duration().Round(time.Second), r.ExitCode)
	}

	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(records))
	return nil
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

func init() {
	historyCmd.Flags().Int("limit", history.DefaultLimit, "maximum runs to list")
	historyCmd.Flags().String("row-id", "", "only runs for this row ID")
	historyCmd.Flags().Bool("json", false, "output records as JSON")
	historyCmd.Flags().Bool("yaml", false, "output records as YAML")

	rootCmd.AddCommand(historyCmd)
}
