package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file|url|->...",
		Short: "Check datasets for required columns and values",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := newService(root.cfg)
			out := cmd.OutOrStdout()

			invalid := 0
			for _, input := range args {
				req, err := buildRequest(input, cmd.InOrStdin(), nil)
				if err != nil {
					return err
				}

				res, err := svc.Validate(cmd.Context(), req)
				if err != nil {
					fmt.Fprintf(out, "%s: %v\n", input, err)
					invalid++
					continue
				}
				if !res.Valid {
					invalid++
				}
				fmt.Fprintf(out, "%s: %s\n", input, res.Message)
			}

			if invalid > 0 {
				return fmt.Errorf("%d of %d datasets failed validation", invalid, len(args))
			}
			return nil
		},
	}
}
