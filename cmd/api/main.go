package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"vendormarket/internal/config"
	"vendormarket/internal/db"
	"vendormarket/internal/httpserver"
	"vendormarket/internal/logging"
	"vendormarket/internal/metrics"
	"vendormarket/internal/notify"
	cartrepo "vendormarket/internal/repository/cart"
	orderrepo "vendormarket/internal/repository/order"
	productrepo "vendormarket/internal/repository/product"
	stockrepo "vendormarket/internal/repository/stock"
	userrepo "vendormarket/internal/repository/user"
	authsvc "vendormarket/internal/service/auth"
	cartsvc "vendormarket/internal/service/cart"
	catalogsvc "vendormarket/internal/service/catalog"
	ordersvc "vendormarket/internal/service/order"
	vendorsvc "vendormarket/internal/service/vendor"
	"go.uber.org/zap"
)

func main() {
	cfg := config.FromEnv()
	logger := logging.MustNew("api", cfg.Environment)
	defer logger.Sync()

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	m := metrics.New()
	publisher := notify.NewPublisher(cfg.KafkaBrokers, "order-events", logger)
	defer publisher.Close()
	if !publisher.Enabled() {
		logger.Info("kafka brokers not configured, order events disabled")
	}

	users := userrepo.NewPostgres(dbpool)
	products := productrepo.NewPostgres(dbpool)
	carts := cartrepo.NewPostgres(dbpool)
	orders := orderrepo.NewPostgres(dbpool)
	stock := stockrepo.NewPostgres(dbpool)

	authService := authsvc.New(users, cfg.TokenTTL)
	catalogService := catalogsvc.New(products)
	cartService := cartsvc.New(carts, products)
	orderService := ordersvc.New(carts, products, stock, orders, publisher, m, logger)
	vendorService := vendorsvc.New(orders)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		AuthSvc:    authService,
		CatalogSvc: catalogService,
		CartSvc:    cartService,
		OrderSvc:   orderService,
		VendorSvc:  vendorService,
		Metrics:    m,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
