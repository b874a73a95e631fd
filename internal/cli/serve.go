package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/boardflow/internal/auth"
	"github.com/roach88/boardflow/internal/backend"
	"github.com/roach88/boardflow/internal/server"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// termination signal.
const shutdownTimeout = 10 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Database string
	Addr     string
	Secret   string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the reference board server",
		Long: `Start the HTTP reference server backed by a SQLite database.

The server exposes the board REST API plus a websocket endpoint that
pushes a full board snapshot to each connected client after every
committed write. The database is created if it does not exist.

The session signing secret is read from --secret, falling back to the
BOARDFLOW_SECRET environment variable.

Example:
  boardflow serve --db ./boardflow.db
  boardflow serve --db /tmp/test.db --addr :9090 --verbose`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.Secret, "secret", "", "session signing secret (defaults to $BOARDFLOW_SECRET)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	secret := opts.Secret
	if secret == "" {
		secret = os.Getenv("BOARDFLOW_SECRET")
	}
	if secret == "" {
		return NewExitError(ExitCommandError, "no session secret: set --secret or BOARDFLOW_SECRET")
	}

	// Open database (create if not exists)
	slog.Info("opening database", "path", opts.Database)
	st, err := backend.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database ready")

	sessions := auth.NewService(secret)
	srv := server.New(st, sessions, server.WithLogger(logger))
	defer srv.Close()

	httpSrv := &http.Server{
		Addr:    opts.Addr,
		Handler: srv.Handler(),
	}

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
			// Parent context cancelled (e.g., from test)
		}
	}()

	shutdownDone := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		shutdownDone <- httpSrv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", opts.Addr, "db", opts.Database)
	fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s. Press Ctrl-C to stop.\n", opts.Addr)

	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return WrapExitError(ExitFailure, "server error", err)
	}

	if err := <-shutdownDone; err != nil {
		return WrapExitError(ExitFailure, "shutdown error", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
