package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/kpi-audit/backend/internal/analysis"
	"github.com/kpi-audit/backend/internal/kpi"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
	formatCSV  = "csv"
)

var errUnknownFormat = errors.New("unknown format")

type analyzeOptions struct {
	departments []string
	format      string
	output      string
	parallel    int
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [file|url|-]...",
		Short: "Analyze one or more KPI datasets",
		Long: `Analyze KPI datasets and print the audit results.

Usage:
  kpiaudit analyze kpis.csv                         # Local CSV file
  kpiaudit analyze https://example.com/kpis.csv     # Remote CSV or HTML table
  kpiaudit analyze q1.csv q2.csv --format json      # Several datasets at once
  kpiaudit analyze kpis.csv -d Sales -d Marketing   # Only some departments
  kpiaudit analyze                                  # Configured default dataset

Inputs are analyzed concurrently and printed in argument order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, root, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&opts.departments, "department", "d", nil, "Only analyze this department (repeatable, commas are kept)")
	f.StringVarP(&opts.format, "format", "f", formatText, "Output format: text, json, yaml or csv")
	f.StringVarP(&opts.output, "output", "o", "", "Write output to a file instead of stdout")
	f.IntVar(&opts.parallel, "parallel", 4, "Maximum datasets analyzed at once")

	return cmd
}

func runAnalyze(cmd *cobra.Command, root *rootOptions, opts *analyzeOptions, args []string) error {
	switch opts.format {
	case formatText, formatJSON, formatYAML, formatCSV:
	default:
		return fmt.Errorf("%w %q (want text, json, yaml or csv)", errUnknownFormat, opts.format)
	}
	if opts.parallel < 1 {
		return fmt.Errorf("--parallel must be at least 1, got %d", opts.parallel)
	}

	svc := newService(root.cfg)
	inputs := args
	if len(inputs) == 0 {
		if !svc.HasDefaultDataset() {
			return errors.New("no input given and fetch.defaultURL is not configured\n\nUsage: kpiaudit analyze <file|url>...")
		}
		inputs = []string{""}
	}

	results := make([]*analysis.Result, len(inputs))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(opts.parallel)
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			req := analysis.Request{Departments: opts.departments}
			if input != "" {
				var err error
				req, err = buildRequest(input, cmd.InOrStdin(), opts.departments)
				if err != nil {
					return err
				}
			}

			result, err := svc.Analyze(ctx, req)
			if err != nil {
				return fmt.Errorf("%s: %w", displayName(input), err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.output != "" {
		file, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	return writeResults(out, opts.format, results)
}

func writeResults(w io.Writer, format string, results []*analysis.Result) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if len(results) == 1 {
			return enc.Encode(results[0])
		}
		return enc.Encode(results)

	case formatYAML:
		var v interface{} = results
		if len(results) == 1 {
			v = results[0]
		}
		return writeYAML(w, v)

	case formatCSV:
		for i, r := range results {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if err := kpi.WriteCSV(w, r.Bundle.AllMetrics); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		return nil

	default:
		for i, r := range results {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, analysis.RenderSummary(r)); err != nil {
				return err
			}
		}
		return nil
	}
}

// writeYAML emits v with the same field names as its JSON form.
func writeYAML(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func displayName(input string) string {
	if input == "" {
		return "default dataset"
	}
	return input
}
