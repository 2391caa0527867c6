package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// #region main
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, a := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		a.fail(err)
		stop()
		os.Exit(1)
	}
}

// fail reports a command error through the configured logger. Before
// configuration loads this is the environment logger.
func (a *app) fail(err error) {
	a.log.Error().Err(err).Msg("walkcycle failed")
}

// #endregion main
