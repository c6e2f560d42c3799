package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dcamacho/rbm-gateway/internal/config"
	"github.com/dcamacho/rbm-gateway/internal/db"
	httpSrv "github.com/dcamacho/rbm-gateway/internal/http"
	"github.com/dcamacho/rbm-gateway/internal/kafka"
	"github.com/dcamacho/rbm-gateway/internal/logger"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger.Init(cfg.Log.Level)
		log := logger.Log
		defer func() { _ = log.Sync() }()

		if cfg.PermissiveMode() {
			log.Warn("VALIDATION MODE: webhook secret not configured, all requests will be accepted",
				zap.String("hint", "set RBMGW_WEBHOOK_SECRET after endpoint registration"))
		}

		// Optional collaborators: the webhook core runs with any subset.
		var mysqlDB *sqlx.DB
		if cfg.MySQL.DSN != "" {
			mysqlDB, err = db.NewMySQLConnection(cfg.MySQL.DSN, db.MySQLOpts{
				MaxOpenConns:    cfg.MySQL.MaxOpenConns,
				MaxIdleConns:    cfg.MySQL.MaxIdleConns,
				ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
				ConnMaxIdleTime: cfg.MySQL.ConnMaxIdleTime,
				PingTimeout:     cfg.MySQL.PingTimeout,
			})
			if err != nil {
				return fmt.Errorf("mysql connect: %w", err)
			}
			defer mysqlDB.Close()
		}

		var chDB *sqlx.DB
		if cfg.ClickHouse.DSN != "" {
			chDB, err = db.NewClickHouseConnection(db.ClickHouseOpts{
				DSN:             cfg.ClickHouse.DSN,
				MaxOpenConns:    cfg.ClickHouse.MaxOpenConns,
				MaxIdleConns:    cfg.ClickHouse.MaxIdleConns,
				ConnMaxLifetime: cfg.ClickHouse.ConnMaxLifetime,
				ConnMaxIdleTime: cfg.ClickHouse.ConnMaxIdleTime,
				PingTimeout:     cfg.ClickHouse.PingTimeout,
			})
			if err != nil {
				return fmt.Errorf("clickhouse connect: %w", err)
			}
			defer func() { _ = chDB.Close() }()
		}

		var rds *redis.Client
		if cfg.Redis.Addr != "" {
			rds, err = db.NewRedisClient(db.RedisOpts{
				Addr:        cfg.Redis.Addr,
				Password:    cfg.Redis.Password,
				DB:          cfg.Redis.DB,
				DialTimeout: cfg.Redis.DialTimeout,
			})
			if err != nil {
				return fmt.Errorf("redis connect: %w", err)
			}
			defer func() { _ = rds.Close() }()
		}

		var producer *kafka.Producer
		if len(cfg.Kafka.Brokers) > 0 {
			producer = kafka.NewProducerFromConfig(kafka.Config{
				Brokers:      cfg.Kafka.Brokers,
				Topic:        cfg.Kafka.Topic,
				BatchTimeout: cfg.Kafka.BatchTimeout,
				WriteTimeout: cfg.Kafka.WriteTimeout,
			})
			defer func() { _ = producer.Close() }()
		}

		server := httpSrv.NewServer(cfg, mysqlDB, chDB, rds, producer, log)

		errCh := make(chan error, 1)
		go func() {
			log.Info("starting http", zap.String("addr", cfg.HTTP.Addr))
			errCh <- server.Start(cfg.HTTP.Addr)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			log.Info("signal received, shutting down", zap.String("signal", sig.String()))
		case err := <-errCh:
			if err != nil {
				log.Error("http server exited", zap.Error(err))
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)

		return nil
	},
}
