package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/mimo/pkg/mimo"
	"github.com/spf13/cobra"
)

var (
	resolveFile    string
	resolvePointer int
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a record pointer back to its source snippet",
	Long: `Resolve reads one .mimo record and prints the source slice its pointer
names. Only line_range locators over local files resolve here; vault:// and
http(s) pointers are delegated to other subsystems and print nothing.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := mimo.New(mimo.WithLogger(slog.Default()))
		if err != nil {
			fatal("Error initializing mimo", err)
		}

		snippet, ok, err := svc.ResolvePointer(resolveFile, resolvePointer)
		if err != nil {
			fatal("Error resolving", err)
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "pointer not resolvable here")
			return
		}
		fmt.Print(snippet)
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVar(&resolveFile, "file", "", "Input .mimo record")
	resolveCmd.Flags().IntVar(&resolvePointer, "pointer", 0, "Pointer index within the record")
	_ = resolveCmd.MarkFlagRequired("file")
}
