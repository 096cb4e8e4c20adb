package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/khanhnv2901/siteverify/internal/checker"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Print the page signals extracted from an HTML document",
	Long: `Read an HTML document from a file, or from stdin when no file (or "-") is
given, and print the resources, navigation items, footer fragments and logo
source the audit would extract from it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open document: %w", err)
			}
			defer f.Close()
			in = f
		}
		return extractTo(cmd.OutOrStdout(), in)
	},
}

func extractTo(out io.Writer, in io.Reader) error {
	signals := checker.ExtractSignals(in)
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(signals)
}
