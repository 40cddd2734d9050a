package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/neirolis/qanalytics-go/internal/logger"
	"github.com/neirolis/qanalytics-go/internal/mockservice"
)

var listen string

// mockCmd serves the mock reporting service
var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run a local imitation of the reporting service",
	Long: `Serves every POST path as a reporting endpoint. Requests are checked
against the configured credentials; point reports must carry every field.`,
	Args: cobra.NoArgs,
	RunE: runMock,
}

func init() {
	mockCmd.Flags().StringVar(&listen, "listen", "", "listen address, defaults to the configured one")
}

func runMock(cmd *cobra.Command, args []string) error {
	if listen == "" {
		listen = cnf.Mock.Listen
	}
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	svc := mockservice.New(cnf.QAnalytics.User, cnf.QAnalytics.Password)
	srv := &http.Server{
		Addr:    listen,
		Handler: svc.Router(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Crit("Listen: ", err)
		}
	}()
	logger.Info("Mock service listening on", listen)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(quit)
	<-quit

	logger.Info("Shutting down mock service...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Mock service stopped,", len(svc.Received()), "reports received")
	return nil
}
