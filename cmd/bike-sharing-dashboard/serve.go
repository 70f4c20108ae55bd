package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/bike-sharing-dashboard/internal/api/http"
	"github.com/i474232898/bike-sharing-dashboard/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Long: `Loads the dataset, optionally reloads it every RELOAD_INTERVAL and serves the
dashboard page and JSON API until interrupted.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = rt.log.Sync() }()

	// Scheduler that periodically re-reads the dataset.
	sched := scheduler.New(rt.cfg.ReloadInterval, rt.cfg.HTTPTimeout, rt.service, rt.log)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	app := newServer(rt)

	listenErr := make(chan error, 1)
	go func() {
		rt.log.Info("listening", zap.String("port", rt.cfg.Port), zap.String("source", rt.cfg.DataSource))
		listenErr <- app.Listen(":" + rt.cfg.Port)
	}()

	if err := waitForShutdown(ctx, listenErr); err != nil {
		rt.log.Error("fiber server stopped", zap.Error(err))
		return fmt.Errorf("serve: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		rt.log.Error("error during shutdown", zap.Error(err))
	}
	return nil
}

// waitForShutdown blocks until ctx is cancelled or the listener exits. A
// listener that stops on its own is an error even when it reports none.
func waitForShutdown(ctx context.Context, listenErr <-chan error) error {
	select {
	case <-ctx.Done():
		return nil
	case err := <-listenErr:
		if err == nil {
			err = errors.New("listener exited")
		}
		return err
	}
}

func newServer(rt *deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "bike-sharing-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "bike-sharing-dashboard",
		})
	})

	httpapi.RegisterRoutes(app, rt.service)
	return app
}
