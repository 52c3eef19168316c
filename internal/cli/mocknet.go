package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chorus-network/chorus/internal/mocknet"
)

var (
	mocknetBind string
	mocknetPort int
)

func init() {
	mocknetCmd.Flags().StringVar(&mocknetBind, "bind", "127.0.0.1", "address to listen on")
	mocknetCmd.Flags().IntVar(&mocknetPort, "port", 61000, "port to listen on")
	rootCmd.AddCommand(mocknetCmd)
}

var mocknetCmd = &cobra.Command{
	Use:   "mocknet",
	Short: "Run a stub compute node for local testing",
	Long: `Serve the compute network RPC boundary on localhost, simulating task
progress and producing placeholder segments. Useful for exercising the
pipeline end-to-end without a live network. Prometheus metrics are
exposed on /metrics.`,
	RunE: runMocknet,
}

func runMocknet(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", mocknetBind, mocknetPort),
		Handler: mocknet.NewServer().Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	fmt.Printf("mocknet listening on %s\n", srv.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
