package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/poserpc"
)

// #region query

func newQueryCmd(a *app) *cobra.Command {
	var (
		addr                         string
		walkertime, phase, initPhase float64
		frequency                    bool
		timeout                      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Ask a running pose server for a pose or stride frequency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.GRPCAddr
			}
			client, err := poserpc.NewClient(addr)
			if err != nil {
				return err
			}
			defer client.Close()

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, cancel := context.WithTimeout(parent, timeout)
			defer cancel()

			w := cmd.OutOrStdout()
			if frequency {
				f, err := client.Frequency(ctx, a.cfg.Traits)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%g\n", f)
				return nil
			}
			poses, err := client.Evaluate(ctx, poserpc.Request{
				Traits:     a.cfg.Traits,
				Walkertime: walkertime,
				Phase:      phase,
				InitPhase:  initPhase,
				Evaluator:  a.v.GetString("evaluator"),
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(poses)
		},
	}
	f := cmd.Flags()
	f.StringVar(&addr, "addr", "", "server address (default grpc_addr from config)")
	f.Float64Var(&walkertime, "t", 0, "walkertime to evaluate")
	f.Float64Var(&phase, "phase", 0, "phase offset in radians")
	f.Float64Var(&initPhase, "init-phase", 0, "initial phase in degrees")
	f.BoolVar(&frequency, "frequency", false, "print the stride frequency instead of a pose")
	f.DurationVar(&timeout, "timeout", 5*time.Second, "request timeout")
	return cmd
}

// #endregion query
