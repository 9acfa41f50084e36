package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kpi-audit/backend/internal/kpi"
)

func newRubricCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "rubric",
		Short: "Print the scoring rubric",
		RunE: func(cmd *cobra.Command, args []string) error {
			factors := kpi.Rubric()
			out := cmd.OutOrStdout()

			switch format {
			case formatJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(factors)
			case formatYAML:
				return writeYAML(out, factors)
			case formatText:
			default:
				return fmt.Errorf("%w %q (want text, json or yaml)", errUnknownFormat, format)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FACTOR\tPOINTS\tDESCRIPTION")
			for _, f := range factors {
				points := make([]string, len(f.Points))
				for i, p := range f.Points {
					points[i] = fmt.Sprintf("%+d", p)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Factor, strings.Join(points, "/"), f.Description)
			}
			fmt.Fprintf(tw, "\nScores are clamped to %d..%d.\n", kpi.MinScore, kpi.MaxScore)
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, json or yaml")
	return cmd
}
