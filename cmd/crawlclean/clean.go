package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/CrawlClean/internal/core"
	"github.com/JonMunkholm/CrawlClean/internal/sheet"
	"github.com/spf13/cobra"
)

func newCleanCmd(a *app) *cobra.Command {
	var (
		retailer       string
		out            string
		skipValidation bool
	)

	cmd := &cobra.Command{
		Use:   "clean <file>",
		Short: "Clean a crawler export and write the result",
		Long: `Clean validates that the file came from the selected retailer, normalizes
every row and writes the cleaned table. The output format follows the
extension of --out (.xlsx or .csv).

Examples:
  crawlclean clean --retailer amazon crawl.xlsx
  crawlclean clean --retailer mercado --out cleaned.csv crawl.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := core.ParseRetailer(retailer)
			if err != nil {
				return err
			}
			if out == "" {
				out = core.ExportFileName(r)
			}
			if !sheet.Supported(out) {
				return fmt.Errorf("%w: %q", core.ErrUnsupportedFile, out)
			}

			table, err := a.readInput(r, args[0])
			if err != nil {
				return err
			}

			result, err := a.service.Clean(cmd.Context(), core.CleanRequest{
				Retailer:       r,
				FileName:       filepath.Base(args[0]),
				Table:          table,
				SkipValidation: skipValidation,
			})
			if err != nil {
				return cliError(err)
			}
			if result.Table.Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), "Cleaning returned no data. Please check the file format or contents.")
				return nil
			}

			if err := writeOutput(out, result.Table); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleaned %d of %d rows (%d dropped): %s\n",
				len(result.Table.Rows), result.InputRows, result.Dropped, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&retailer, "retailer", "r", "", "Retailer the file was crawled from (amazon, walmart, mercado)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (default: <retailer>_cleaned_data.xlsx)")
	cmd.Flags().BoolVar(&skipValidation, "skip-validation", false, "Do not check that the URLs match the retailer")
	_ = cmd.MarkFlagRequired("retailer")
	return cmd
}

// writeOutput writes table to path in the format named by its extension.
func writeOutput(path string, table core.NormalizedTable) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	if strings.EqualFold(filepath.Ext(path), sheet.ExtCSV) {
		err = sheet.WriteCSV(w, table)
	} else {
		err = sheet.WriteXLSX(w, table)
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// cliError prefixes err with its user-facing message, support code and
// suggested action. Errors without a known pattern pass through unchanged.
func cliError(err error) error {
	if !core.IsUserFacing(err) {
		return err
	}
	return fmt.Errorf("%s: %w", core.FormatUserError(err), err)
}
