package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cwbudde/sgafit/internal/server"
	"github.com/cwbudde/sgafit/internal/store"
	"github.com/spf13/cobra"
)

var (
	serveAddr    string
	serveNoStore bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server",
	Long: `Starts the HTTP server that runs SGA jobs in the background.
Jobs are submitted with POST /api/v1/jobs and can be followed through the
status, history, population and SSE stream endpoints. Completed runs are
saved to the run store unless --no-store is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().BoolVar(&serveNoStore, "no-store", false, "Keep completed runs in memory only")
	addStoreFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	var runStore store.Store
	if !serveNoStore {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer store.CloseIfSupported(s)
		runStore = s
	}

	srv := server.NewServer(serveAddr, runStore)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", serveAddr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-cmd.Context().Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
