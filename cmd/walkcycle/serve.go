package main

import (
	"context"
	"fmt"
	"net"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/poserpc"
)

// #region serve

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve pose evaluation over gRPC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.GRPCAddr
			}
			m, err := a.model()
			if err != nil {
				return err
			}
			ev, err := a.evaluator()
			if err != nil {
				return err
			}
			lis, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", addr, err)
			}

			srv := grpc.NewServer()
			poserpc.Register(srv, poserpc.NewServer(m, ev, a.log))

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			go func() {
				<-ctx.Done()
				a.log.Info().Msg("shutting down pose server")
				srv.GracefulStop()
			}()

			a.log.Info().Str("addr", lis.Addr().String()).Str("evaluator", ev.Name()).Msg("pose server listening")
			if err := srv.Serve(lis); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default grpc_addr from config)")
	return cmd
}

// #endregion serve
