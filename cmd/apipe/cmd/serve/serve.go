package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"audio-pipeline/cmd/apipe/cmd/common"
	"audio-pipeline/internal/app"
)

var shutdownTimeout time.Duration

func init() {
	Cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "grace period for in-flight requests")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API

- Serves /api/process-audio, /api/log, the audio file routes, /health and /metrics
- Listens on HOST:PORT (default 127.0.0.1:5000)
- Writes application logs to LOG_FILE and client logs to FRONTEND_LOG_FILE`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, closeLogger, err := common.Setup(cmd, common.Options{LogToFile: true})
		if err != nil {
			return err
		}
		defer closeLogger()

		srv, cleanup, err := app.InitializeServer(cfg, logger)
		if err != nil {
			logger.Error("failed to initialize server", zap.Error(err))
			return err
		}
		defer cleanup()

		errCh := srv.Start()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err != nil {
				logger.Error("server stopped", zap.Error(err))
				return err
			}
			return nil
		case sig := <-quit:
			logger.Info("received signal", zap.String("signal", sig.String()))
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}
