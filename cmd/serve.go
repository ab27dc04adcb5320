package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/power-market-sim/power-market-sim/internal/api"
	"github.com/power-market-sim/power-market-sim/internal/api/handlers"
)

var (
	serveAddr       string   // Listen address
	corsOrigins     []string // Allowed CORS origins
	shutdownTimeout time.Duration
	releaseMode     bool
	maxPeriods      int      // Largest horizon a request may ask for
	maxSweepLevels  int      // Largest number of levels in one sweep request
)

// serveCmd exposes the simulator over HTTP until interrupted.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulator over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		if releaseMode {
			gin.SetMode(gin.ReleaseMode)
		}
		srv := &http.Server{
			Addr:              serveAddr,
			Handler:           api.NewHandler(corsOrigins, handlers.Limits{MaxPeriods: maxPeriods, MaxSweepLevels: maxSweepLevels}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			logrus.Infof("Starting API server on %s", serveAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logrus.Fatalf("Failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		logrus.Info("Shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.Fatalf("Server shutdown failed: %v", err)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "HTTP listen address")
	serveCmd.Flags().StringSliceVar(&corsOrigins, "cors-origin", []string{"*"}, "Allowed CORS origins")
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")
	serveCmd.Flags().BoolVar(&releaseMode, "release", false, "Run gin in release mode")
	serveCmd.Flags().IntVar(&maxPeriods, "max-periods", handlers.DefaultMaxPeriods, "Reject requests with more periods than this")
	serveCmd.Flags().IntVar(&maxSweepLevels, "max-sweep-levels", handlers.DefaultMaxSweepLevels, "Reject sweep requests with more levels than this")
	rootCmd.AddCommand(serveCmd)
}
