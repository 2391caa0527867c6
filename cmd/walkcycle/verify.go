package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/eval"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/gait"
)

// #region verify

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that the direct and matrix evaluators agree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.model()
			if err != nil {
				return err
			}
			h := eval.NewEvalHarness(eval.DefaultEvalConfig())
			res, err := h.Run(m, a.cfg.Traits, gait.Direct{}, gait.Matrix{})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, mt := range res.Metrics {
				mark := "ok"
				if !mt.Pass {
					mark = "FAIL"
				}
				fmt.Fprintf(w, "%-16s %12.3e  %s\n", mt.Name, mt.Value, mark)
			}
			fmt.Fprintln(w, res.Reason)
			if !res.Passed {
				return fmt.Errorf("verify: %s", res.Reason)
			}
			return nil
		},
	}
}

// #endregion verify
