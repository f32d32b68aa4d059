// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/validardoc/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract <archive.zip>",
	Short: "Extract the detached .p7s signature from a zip archive",
	Long: `Extract writes the first .p7s entry of the archive into the temp
directory (or --dest) and prints its path. An existing file is
overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dest, _ := cmd.Flags().GetString("dest")
		if dest == "" {
			dest = cfg.TempDir
		}

		sig, err := extract.Signature(args[0], dest, logger)
		if err != nil {
			return err
		}
		fmt.Println(sig.SignaturePath)
		return nil
	},
}

func init() {
	extractCmd.Flags().String("dest", "", "output directory (default: configured temp_dir)")

	rootCmd.AddCommand(extractCmd)
}
