package main

import (
	"fmt"
	"sort"

	"github.com/JonMunkholm/CrawlClean/internal/core"
	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	var retailer string

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a crawler export came from the given retailer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := core.ParseRetailer(retailer)
			if err != nil {
				return err
			}
			table, err := a.readInput(r, args[0])
			if err != nil {
				return err
			}

			v := a.service.Validate(table, r)
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, v.Message)
			if v.URLColumn != "" {
				fmt.Fprintf(w, "URL column: %s (%d rows sampled)\n", v.URLColumn, v.Sampled)
			}

			scored := make([]core.Retailer, 0, len(v.Scores))
			for r := range v.Scores {
				scored = append(scored, r)
			}
			sort.Slice(scored, func(i, j int) bool { return scored[i] < scored[j] })
			for _, r := range scored {
				fmt.Fprintf(w, "  %-8s %3.0f%%\n", r, v.Scores[r]*100)
			}

			return cliError(v.Err())
		},
	}

	cmd.Flags().StringVarP(&retailer, "retailer", "r", "", "Retailer to check against")
	_ = cmd.MarkFlagRequired("retailer")
	return cmd
}

func newRetailersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "retailers",
		Short: "List supported retailers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, info := range a.service.ListRetailers() {
				fmt.Fprintf(w, "%-8s domain=%s header_row=%d columns=%d\n",
					info.Retailer, info.Retailer.Domain(), info.HeaderRow, len(info.Columns))
			}
			return nil
		},
	}
}
