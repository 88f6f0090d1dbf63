package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/appcontext"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/config"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/seed"
)

func main() {
	file := flag.String("file", "seed/products.yaml", "product catalog yaml")
	flag.Parse()

	cf := config.GetConfig()
	logger := appcontext.NewLogger(cf.LogLevel, cf.LogFormat, cf.ModuleName+"-seed", os.Stderr)

	if !cf.UsePostgres() {
		logger.Warn().Msg("STORE_DRIVER is not postgres, seeded data lives only for this process")
	}

	products, err := seed.LoadProductsFile(*file)
	if err != nil {
		logger.Fatal().Err(err).Str("file", *file).Msg("failed to read seed file")
	}

	app, err := appcontext.NewApplicationContext(cf, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build application context")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("shutdown error")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	n, err := app.ProductService.SeedProducts(ctx, products)
	if err != nil {
		logger.Error().Err(err).Msg("seed failed")
		return
	}
	logger.Info().Int("products", n).Str("store_driver", cf.StoreDriver).Msg("seed completed")
}
