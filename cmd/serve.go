package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/spam-triage/internal/dispatch"
	"github.com/sells-group/spam-triage/internal/server"
)

var servePort int

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server",
	Long:  "Serves the check-spam and amoCRM webhooks. Batch notifications are acknowledged immediately and processed in the background.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initTriage(cfg, "serve")
		if err != nil {
			return err
		}

		disp := dispatch.New(env.Resolver, env.Pipeline, cfg.Dispatch.MaxConcurrent)

		handler := server.NewRouter(server.Deps{
			Classifier: env.Classifier,
			Pipeline:   env.Pipeline,
			Dispatcher: disp,
			Breakers:   env.Breakers,
			Info: server.Info{
				ReputationURL:    cfg.Reputation.URL,
				CRMDomain:        cfg.CRM.Domain,
				Threshold:        cfg.Spam.Threshold,
				StatusConfigured: cfg.CRM.StatusConfigured(),
				AllowedOrigins:   cfg.Server.AllowedOrigins,
			},
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ln, err := net.Listen("tcp", srv.Addr)
		if err != nil {
			return eris.Wrap(err, "server listen")
		}

		zap.L().Info("starting server",
			zap.Int("port", port),
			zap.String("reputation_url", cfg.Reputation.URL),
			zap.String("crm_domain", cfg.CRM.Domain),
			zap.Int("spam_threshold", cfg.Spam.Threshold),
			zap.String("spam_action", string(cfg.CRM.Action())),
		)
		return serveUntilDone(ctx, srv, ln, disp.Wait)
	},
}

// serveUntilDone serves on ln until ctx is done. In-flight requests finish
// before drain runs, so no handler can submit background work while it waits.
func serveUntilDone(ctx context.Context, srv *http.Server, ln net.Listener, drain func(context.Context) error) error {
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("server shutdown", zap.Error(err))
		}
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "server serve")
	}
	<-shutdownDone

	// Drain background tasks accepted before shutdown.
	waitCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := drain(waitCtx); err != nil {
		zap.L().Warn("in-flight tasks abandoned", zap.Error(err))
	}
	return nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
