package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/mimo/pkg/mimo"
	"github.com/spf13/cobra"
)

var (
	hashFile string
	hashJSON bool
)

var hashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Recompute a record's content hash",
	Long: `Hash recomputes content_hash from the record's current content and compares
it against the stored value. mu_key is shown as stored; it cannot be
recomputed without the original raw bytes and split descriptor.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := mimo.New(mimo.WithLogger(slog.Default()))
		if err != nil {
			fatal("Error initializing mimo", err)
		}

		report, err := svc.CheckHash(hashFile)
		if err != nil {
			fatal("Error hashing", err)
		}

		if hashJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(report); err != nil {
				fatal("Error encoding JSON", err)
			}
		} else {
			fmt.Printf("mu_id=%s\n", report.MUID)
			fmt.Printf("stored=%s\n", report.Stored)
			fmt.Printf("computed=%s\n", report.Computed)
			fmt.Printf("mu_key=%s\n", report.MUKey)
		}

		if !report.Match {
			fmt.Fprintln(os.Stderr, "content_hash drift detected")
			os.Exit(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(hashCmd)
	hashCmd.Flags().StringVar(&hashFile, "file", "", "Input .mimo record")
	hashCmd.Flags().BoolVar(&hashJSON, "json", false, "Output in JSON format")
	_ = hashCmd.MarkFlagRequired("file")
}
