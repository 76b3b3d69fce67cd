package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arjun2k01/esports-cart/internal/cache"
	"github.com/arjun2k01/esports-cart/internal/config"
	"github.com/arjun2k01/esports-cart/internal/db"
	"github.com/arjun2k01/esports-cart/internal/httpserver"
	orderrepo "github.com/arjun2k01/esports-cart/internal/repository/order"
	productrepo "github.com/arjun2k01/esports-cart/internal/repository/product"
	tokenrepo "github.com/arjun2k01/esports-cart/internal/repository/token"
	userrepo "github.com/arjun2k01/esports-cart/internal/repository/user"
	ordersvc "github.com/arjun2k01/esports-cart/internal/service/order"
	productsvc "github.com/arjun2k01/esports-cart/internal/service/product"
	usersvc "github.com/arjun2k01/esports-cart/internal/service/user"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	var invalidator productrepo.Invalidator
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedis(ctx, cfg.RedisAddr, 5*time.Minute)
		if err != nil {
			logger.Fatalf("connect to redis: %v", err)
		}
		defer redisCache.Close()
		cached := productrepo.NewCached(productRepo, redisCache, logger)
		productRepo = cached
		invalidator = cached.(productrepo.Invalidator)
		logger.Printf("product cache enabled at %s", cfg.RedisAddr)
	}
	productService := productsvc.New(productRepo)

	orderRepo := orderrepo.NewPostgres(dbpool, cfg.Pricing, logger)
	orderService := ordersvc.New(orderRepo, invalidator)

	userRepo := userrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	userService := usersvc.New(userRepo, tokenRepo)

	srv := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		ProductSvc: productService,
		OrderSvc:   orderService,
		UserSvc:    userService,
	}, cfg.CORSOrigins)

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
