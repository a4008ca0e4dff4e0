package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/davicafu/autostock/internal/app"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Arranca la API HTTP y los procesos en segundo plano",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return withContainer(ctx, func(ctx context.Context, c *app.Container) error {
				c.Start(ctx)

				srv := &http.Server{
					Addr:              ":" + c.Config.HTTPPort,
					Handler:           c.Router(),
					ReadHeaderTimeout: 10 * time.Second,
				}

				errCh := make(chan error, 1)
				go func() {
					c.Log.Info("🚀 Server running", zap.String("url", "http://localhost:"+c.Config.HTTPPort))
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						errCh <- err
					}
					close(errCh)
				}()

				select {
				case err := <-errCh:
					return err
				case <-ctx.Done():
				}

				c.Log.Info("🛑 Apagando servidor")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
		},
	}
	cmd.Flags().String("port", "8080", "puerto HTTP")
	_ = viper.BindPFlag("HTTP_PORT", cmd.Flags().Lookup("port"))
	return cmd
}
