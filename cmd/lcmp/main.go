// Command lcmp runs the Life-Cycle-Management-Proxy of the device
// application API.
package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/lcmp/internal/infrastructure/config"
	"github.com/GriffinCanCode/lcmp/internal/infrastructure/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Flags override the environment
	address := flag.String("address", cfg.Server.Address(), "Listen address (host:port)")
	appListType := flag.String("app-list-type", cfg.LCMP.AppListType, "Application list server (static;file=<path> or empty)")
	appContextType := flag.String("app-context-type", cfg.LCMP.AppContextType, "Application context server (single;<max>,<uri> or file;<path>)")
	dev := flag.Bool("dev", cfg.Logging.Development, "Development logging")
	flag.Parse()

	host, port, err := net.SplitHostPort(*address)
	if err != nil {
		log.Fatalf("Invalid address %q: %v", *address, err)
	}
	cfg.Server.Host, cfg.Server.Port = host, port
	cfg.LCMP.AppListType = *appListType
	cfg.LCMP.AppContextType = *appContextType
	cfg.Logging.Development = *dev

	logger, err := server.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	select {
	case sig := <-sigChan:
		logger.Info("Shutting down gracefully", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Error during shutdown", zap.Error(err))
		}
	case err := <-errChan:
		logger.Fatal("Server error", zap.Error(err))
	}
}
