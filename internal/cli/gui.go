package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TADSTech/financial-news-classifier/internal/adapter/http/router"
)

func newGUICmd(a *app) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:     "gui",
		Aliases: []string{"serve"},
		Short:   "Serve the browser form and JSON API",
		Example: `  fnc gui
  fnc gui --port 8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if host == "" {
				host = a.cfg.Server.Host
			}
			if port == 0 {
				port = a.cfg.Server.Port
			}

			gin.SetMode(a.cfg.Server.Mode)
			r := router.Setup(a.uc, a.log)

			addr := fmt.Sprintf("%s:%d", host, port)
			srv := &http.Server{
				Addr:         addr,
				Handler:      r,
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 5 * time.Minute, // batch uploads block on inference
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.log.Info("Starting server", zap.String("address", addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return fmt.Errorf("server failed: %w", err)
			case <-quit:
			}

			a.log.Info("Shutting down server...")
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				a.log.Error("Server forced to shutdown", zap.Error(err))
			}

			a.log.Info("Server exited")
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "bind address (default from config)")
	cmd.Flags().IntVar(&port, "port", 0, "bind port (default from config)")
	return cmd
}
