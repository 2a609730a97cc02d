package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/treedelivery/treedelivery-backend/configs"
	"github.com/treedelivery/treedelivery-backend/internal/adapter/cache"
	httpadapter "github.com/treedelivery/treedelivery-backend/internal/adapter/http"
	"github.com/treedelivery/treedelivery-backend/internal/adapter/http/middleware"
	"github.com/treedelivery/treedelivery-backend/internal/adapter/mailapi"
	"github.com/treedelivery/treedelivery-backend/internal/adapter/repo"
	"github.com/treedelivery/treedelivery-backend/internal/domain"
	"github.com/treedelivery/treedelivery-backend/internal/logging"
	"github.com/treedelivery/treedelivery-backend/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logFile := cfg.App.LogFile
	if logFile == "" {
		logFile = "./logs/app.log"
	}
	logger := logging.Init("treedelivery-api", logFile)

	// init database; the DSN must carry parseTime=true for DATE scanning
	db, err := sqlx.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetConnMaxLifetime(orDefault(cfg.MySQL.ConnMaxLifetime, 30*time.Minute))
	db.SetMaxOpenConns(orDefaultInt(cfg.MySQL.MaxOpenConns, 16))
	db.SetMaxIdleConns(orDefaultInt(cfg.MySQL.MaxIdleConns, 16))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, nil, fmt.Errorf("mysql unavailable: %w", err)
	}

	if err := runMigrations(db, cfg); err != nil {
		return nil, nil, err
	}

	logger.Info("treedelivery-api: starting up")

	// init redis (price table)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, nil, fmt.Errorf("redis unavailable: %w", err)
	}

	// infra
	orderRepo := repo.NewMySQLOrderRepo(db)
	priceStore := cache.NewRedisPriceStore(rdb, defaultPrices(cfg))
	mailer := mailapi.New(cfg.Mail.Endpoint, cfg.Mail.APIKey, cfg.Mail.Timeout)

	// services
	orders := usecase.NewOrders(orderRepo, mailer, usecase.MailConfig{
		Sender:    cfg.Mail.Sender,
		AdminCopy: cfg.Mail.AdminCopy,
		Timeout:   cfg.Mail.Timeout,
	})
	prices := usecase.NewPrices(priceStore)

	// handlers + router + middleware
	h := httpadapter.NewOrderHandler(orders, prices)
	ah := httpadapter.NewAdminHandler(orders, prices)
	lh := httpadapter.NewLoginHandler(cfg)
	authz := middleware.NewAuthz(cfg)
	router := httpadapter.NewRouter(h, ah, lh, authz)

	cleanup := func() {
		_ = db.Close()
		_ = rdb.Close()
	}

	return &App{Router: router}, cleanup, nil
}

func runMigrations(db *sqlx.DB, cfg configs.Config) error {
	path := cfg.MySQL.MigrationsPath
	if path == "" {
		path = "migrations"
	}
	driver, err := migratemysql.WithInstance(db.DB, &migratemysql.Config{})
	if err != nil {
		return fmt.Errorf("migrate driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+path, "mysql", driver)
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

func defaultPrices(cfg configs.Config) domain.PriceTable {
	t := domain.PriceTable{
		Small:  cfg.Prices.Small,
		Medium: cfg.Prices.Medium,
		Large:  cfg.Prices.Large,
		XL:     cfg.Prices.XL,
	}
	if !t.Valid() {
		t = domain.PriceTable{Small: 1995, Medium: 2995, Large: 3995, XL: 4995}
	}
	return t
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

func orDefaultInt(n, fallback int) int {
	if n <= 0 {
		return fallback
	}
	return n
}
