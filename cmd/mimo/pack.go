package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/mimo/pkg/mimo"
	"github.com/spf13/cobra"
)

var (
	packIn        string
	packOut       string
	packSplit     string
	packSource    string
	packWorkspace string
	packVaultID   string
	packGlob      string
	packDedup     string
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Generate MU records from raw inputs",
	Long: `Pack cuts each raw file under --in into line-window chunks and writes one
.mimo record per chunk to --out. Chunks that duplicate an already-emitted
mu_key within this run are skipped.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := mimo.New(mimo.WithLogger(slog.Default()))
		if err != nil {
			fatal("Error initializing mimo", err)
		}

		result, err := svc.Pack(context.Background(), mimo.PackRequest{
			InDir:       packIn,
			OutDir:      packOut,
			Split:       packSplit,
			Source:      packSource,
			WorkspaceID: packWorkspace,
			VaultID:     packVaultID,
			Glob:        packGlob,
			Dedup:       packDedup,
		})
		if err != nil {
			fatal("Error packing", err)
		}

		if result.Files == 0 {
			fmt.Println("no supported input files")
			return
		}
		fmt.Printf("written_mus=%d\n", result.Written)
	},
}

func init() {
	rootCmd.AddCommand(packCmd)
	packCmd.Flags().StringVar(&packIn, "in", "", "Input directory containing raw files")
	packCmd.Flags().StringVar(&packOut, "out", "", "Output directory for .mimo files")
	packCmd.Flags().StringVar(&packSplit, "split", "", "Split strategy, e.g. line_window:400")
	packCmd.Flags().StringVar(&packSource, "source", "file", "meta.source kind (chat, file, web, pdf)")
	packCmd.Flags().StringVar(&packWorkspace, "workspace", "", "Workspace ID (also adds tag ws:<id>)")
	packCmd.Flags().StringVar(&packVaultID, "vault-id", "default", "Vault ID used in vault:// URIs")
	packCmd.Flags().StringVar(&packGlob, "glob", "", "Raw input selection glob (default text extensions)")
	packCmd.Flags().StringVar(&packDedup, "dedup", "skip", "Dedup policy (only skip)")
	_ = packCmd.MarkFlagRequired("in")
	_ = packCmd.MarkFlagRequired("out")
	_ = packCmd.MarkFlagRequired("split")
}
