package main

import (
	"context"
	"encoding/hex"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flokiorg/lokilsp/config"
	"github.com/flokiorg/lokilsp/db"
	"github.com/flokiorg/lokilsp/http"
	"github.com/flokiorg/lokilsp/lnclient/lnd"
	"github.com/flokiorg/lokilsp/logger"
	"github.com/flokiorg/lokilsp/lsps/manager"
	"github.com/flokiorg/lokilsp/lsps/persist"
)

func main() {
	appConfig, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(appConfig.LogLevel)
	if appConfig.LogToFile {
		if err := logger.AddFileLogger(appConfig.Workdir); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to attach file logger")
		}
	}

	logger.Logger.Info().Msg("lokilspd starting")

	osSignalChannel := make(chan os.Signal, 1)
	signal.Notify(osSignalChannel, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := <-osSignalChannel
		logger.Logger.Info().Interface("signal", sig).Msg("Received OS signal")
		cancel()
	}()

	if err := os.MkdirAll(appConfig.Workdir, 0o700); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create workdir")
	}

	gormDB, err := db.NewDB(filepath.Join(appConfig.Workdir, appConfig.DatabaseUri), appConfig.LogDBQueries)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to open database")
	}

	lsps1Cfg, err := appConfig.LSPS1ServiceConfig()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Invalid LSPS1 configuration")
	}

	certHex, macaroonHex, err := readNodeCredentials(appConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to read FLND credentials")
	}

	lnClient, err := lnd.NewLNDService(ctx, appConfig.LNDAddress, certHex, macaroonHex)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to FLND")
	}

	orderStore := persist.NewOrderStore(gormDB)

	mgr, err := manager.NewServiceManager(&manager.ManagerConfig{
		LNClient:   lnClient,
		LSPS1:      lsps1Cfg,
		OrderStore: orderStore,
	})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create service manager")
	}
	if err := mgr.Start(ctx); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start service manager")
	}

	e := echo.New()
	e.HideBanner = true
	httpSvc := http.NewHttpService(orderStore, lsps1Cfg)
	httpSvc.RegisterRoutes(e)

	go func() {
		if err := e.Start(fmt.Sprintf(":%v", appConfig.Port)); err != nil && err != nethttp.ErrServerClosed {
			logger.Logger.Error().Err(err).Msg("echo server failed to start")
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("echo server shutdown failed")
	}
	if err := lnClient.Shutdown(); err != nil {
		logger.Logger.Error().Err(err).Msg("FLND client shutdown failed")
	}

	logger.Logger.Info().Msg("lokilspd exited")
}

func readNodeCredentials(appConfig *config.AppConfig) (certHex string, macaroonHex string, err error) {
	if appConfig.LNDCertFile != "" {
		certBytes, err := os.ReadFile(appConfig.LNDCertFile)
		if err != nil {
			return "", "", fmt.Errorf("failed to read FLND cert file: %w", err)
		}
		certHex = hex.EncodeToString(certBytes)
	}
	if appConfig.LNDMacaroonFile != "" {
		macaroonBytes, err := os.ReadFile(appConfig.LNDMacaroonFile)
		if err != nil {
			return "", "", fmt.Errorf("failed to read FLND macaroon file: %w", err)
		}
		macaroonHex = hex.EncodeToString(macaroonBytes)
	}
	return certHex, macaroonHex, nil
}
