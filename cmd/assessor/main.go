// Package main boots the assessor: storage, cache, scoring services and the
// ops listener, wired through the fx container
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/fx"

	"github.com/snacktrack/assessor/internal/infrastructure/container"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to the configuration file")
	stopTimeout := pflag.Duration("stop-timeout", 30*time.Second, "graceful shutdown deadline")
	pflag.Parse()

	app := fx.New(
		fx.NopLogger,
		fx.Supply(container.ConfigPath(*configPath)),
		container.Module,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start assessor: %v", err)
	}

	<-ctx.Done()
	fmt.Println("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), *stopTimeout)
	defer shutdownCancel()

	if err := app.Stop(shutdownCtx); err != nil {
		log.Fatalf("Failed to stop assessor gracefully: %v", err)
	}
}
