// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/validardoc/internal/annotate"
	"github.com/pdiddy/validardoc/pkg/types"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <document.pdf>",
	Short: "Stamp a PDF with a validation footer",
	Long: `Annotate writes <name>_assinatura.pdf into the temp directory (or
--out-dir) with the certification sentence and the given verdict centered
at the bottom of every page. The source document is not modified.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		outDir, _ := cmd.Flags().GetString("out-dir")
		if outDir == "" {
			outDir = cfg.TempDir
		}
		signer, _ := cmd.Flags().GetString("signer")
		date, _ := cmd.Flags().GetString("date")
		status, _ := cmd.Flags().GetString("status")

		switch types.Status(status) {
		case types.StatusApproved, types.StatusRejected, types.StatusError:
		default:
			return fmt.Errorf("unsupported status %q: use Aprovada, Reprovada or Erro", status)
		}

		line1, line2 := annotate.FooterLines(cfg.Footer.Certification, types.ValidationOutcome{
			SignerName: signer,
			SignedAt:   date,
			Status:     types.Status(status),
		})
		doc, err := annotate.New(outDir, logger).Annotate(args[0], line1, line2)
		if err != nil {
			return err
		}
		fmt.Println(doc.OutputPath)
		return nil
	},
}

func init() {
	annotateCmd.Flags().String("signer", types.ErroSentinel, "signer name")
	annotateCmd.Flags().String("date", types.ErroSentinel, "signing date")
	annotateCmd.Flags().String("status", string(types.StatusError), "verdict: Aprovada, Reprovada or Erro")
	annotateCmd.Flags().String("out-dir", "", "output directory (default: configured temp_dir)")

	rootCmd.AddCommand(annotateCmd)
}
