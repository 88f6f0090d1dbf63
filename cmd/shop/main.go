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

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/api"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/api/handler"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/api/router"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/appcontext"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/config"
	"golang.org/x/sync/errgroup"
)

func main() {
	cf := config.GetConfig()
	logger := appcontext.NewLogger(cf.LogLevel, cf.LogFormat, cf.ModuleName, os.Stdout)

	app, err := appcontext.NewApplicationContext(cf, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build application context")
	}

	// 初始化 handler
	server := api.NewServer(
		handler.NewProductHandler(app.ProductService),
		handler.NewCartHandler(app.CartService),
		handler.NewOrderHandler(app.OrderService),
		handler.NewPaymentHandler(app.PaymentService),
		handler.NewNotificationHandler(app.NotificationService),
		handler.NewWishlistHandler(app.WishlistService),
		handler.NewHealthHandler(app.HealthChecks()),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cf.ServerPort),
		Handler:           router.SetupRouter(server, app.PaymentLimiter, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 設置訊號監聽
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if app.NotificationConsumer != nil {
		if err := app.NotificationConsumer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("failed to start notification consumer")
		}
		g.Go(func() error {
			select {
			case <-app.NotificationConsumer.C():
				// consumer 自己停下來代表發生無法恢復的錯誤
				if err := app.NotificationConsumer.Err(); err != nil {
					return fmt.Errorf("notification consumer stopped: %w", err)
				}
				return nil
			case <-gctx.Done():
				return nil
			}
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cf.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown: %w", err))
		}
		if err := app.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("application shutdown: %w", err))
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("exited with error")
		os.Exit(1)
	}
	logger.Info().Msg("closed completed")
}
