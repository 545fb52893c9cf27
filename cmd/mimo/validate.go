package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/aretw0/mimo/pkg/mimo"
	"github.com/spf13/cobra"
)

var (
	validateIn       string
	validateStrict   bool
	validateContract string
	validateSizeCap  int
	validateWatch    bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate MU record files",
	Long: `Validate checks every .mimo file under --in against its declared schema
version and prints one line per finding plus a summary. The exit status is
zero when no errors were found; warnings never affect it.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		opts := []mimo.Option{
			mimo.WithLogger(slog.Default()),
			mimo.WithStrict(validateStrict),
		}
		if validateContract != "" {
			opts = append(opts, mimo.WithContractPath(validateContract))
		}
		if cmd.Flags().Changed("size-cap") {
			opts = append(opts, mimo.WithSnapshotSizeCap(validateSizeCap))
		}

		svc, err := mimo.New(opts...)
		if err != nil {
			fatal("Error initializing mimo", err)
		}

		report, err := svc.Validate(context.Background(), validateIn)
		if err != nil {
			fatal("Error validating", err)
		}
		for _, fr := range report.Files {
			printFileReport(fr)
		}
		fmt.Println(report.Summary())

		if validateWatch {
			watchLoop(svc)
			return
		}
		if !report.OK() {
			os.Exit(2)
		}
	},
}

func printFileReport(fr mimo.FileReport) {
	for _, w := range fr.Warnings {
		fmt.Printf("WARN: %s\n  - %s: %s\n", fr.Path, w.Code, w.Msg)
	}
	for _, e := range fr.Errors {
		fmt.Printf("ERROR: %s\n  - %s: %s\n", fr.Path, e.Code, e.Msg)
	}
}

// watchLoop revalidates changed files until interrupted.
func watchLoop(svc *mimo.Service) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("watching for changes (ctrl-c to stop)")
	err := svc.WatchValidate(ctx, validateIn, func(fr mimo.FileReport) {
		printFileReport(fr)
		if len(fr.Errors) == 0 && len(fr.Warnings) == 0 {
			fmt.Printf("OK: %s\n", fr.Path)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		fatal("Error watching", err)
	}
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&validateIn, "in", "", "Input .mimo file or directory")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Treat oversized snapshots as errors")
	validateCmd.Flags().StringVar(&validateContract, "contract", "", "Path to a v1.1 JSON Schema contract (default embedded)")
	validateCmd.Flags().IntVar(&validateSizeCap, "size-cap", 0, "Decompressed snapshot size cap in bytes (0 disables)")
	validateCmd.Flags().BoolVar(&validateWatch, "watch", false, "Keep running and revalidate files as they change")
	_ = validateCmd.MarkFlagRequired("in")
}
