package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-livecode/internal/metrics"
	"github.com/cwbudde/algo-livecode/internal/server"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve [FILE...]",
	Short: "Serve the HTTP control surface",
	Long: `Runs the given scripts, then accepts statements over HTTP and exposes
bindings, sliders and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer a.close()

		for _, path := range args {
			if err := a.runFile(os.Stdout, path); err != nil {
				return err
			}
		}

		addr := a.cfg.Server.Addr
		if v, _ := cmd.Flags().GetString("addr"); v != "" {
			addr = v
		}

		reg := metrics.New(a.sess, a.slot, a.inputs)
		srv := &http.Server{
			Addr:              addr,
			Handler:           server.NewHandler(a.sess, reg, server.WithLogger(a.log)),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			a.log.Info("listening", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case sig := <-interrupted():
			a.log.Info("shutting down", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				a.log.Warn("graceful shutdown incomplete", "error", err)
				return srv.Close()
			}
			return nil
		}
	},
}

// interrupted delivers the first SIGINT or SIGTERM.
func interrupted() <-chan os.Signal {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	return c
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (default from config)")
}
