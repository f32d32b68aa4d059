// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/validardoc/internal/locate"
)

var locateCmd = &cobra.Command{
	Use:   "locate [dir]",
	Short: "Show the document and signature archive a run would pick",
	Long: `Locate lists the most recent files of the downloads directory (or dir)
and reports the document and signature archive found among the two
newest. Nothing is modified.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLocate,
}

func runLocate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dir := cfg.DownloadsDir
	if len(args) == 1 {
		dir = args[0]
	}

	files, err := locate.Recent(dir)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-19s  %s\n", "Rank", "Modified", "Name")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 60))
	for i, f := range files {
		fmt.Fprintf(os.Stdout, "%-4d  %-19s  %s\n", i+1, f.ModTime.Format(time.DateTime), f.Name)
	}
	fmt.Fprintln(os.Stdout)

	arts, err := locate.Find(dir, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Document:  %s\nSignature: %s\n", arts.DocumentPath, arts.SignatureArchivePath)
	return nil
}

func init() {
	locateCmd.Flags().Int("limit", 10, "number of recent files to list (0 = all)")

	rootCmd.AddCommand(locateCmd)
}
