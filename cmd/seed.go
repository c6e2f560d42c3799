package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/dcamacho/rbm-gateway/internal/config"
	"github.com/dcamacho/rbm-gateway/internal/db"
	"github.com/dcamacho/rbm-gateway/internal/model"
	"github.com/dcamacho/rbm-gateway/internal/util"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo transactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		sqlDB, err := db.NewMySQLConnection(cfg.MySQL.DSN, db.MySQLOpts{
			MaxOpenConns:    cfg.MySQL.MaxOpenConns,
			MaxIdleConns:    cfg.MySQL.MaxIdleConns,
			ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.MySQL.ConnMaxIdleTime,
			PingTimeout:     cfg.MySQL.PingTimeout,
		})
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer sqlDB.Close()

		log.Println(">> Seeding demo transactions...")

		if err := seedTransactions(sqlDB); err != nil {
			return err
		}

		log.Println(">> Seed completed")
		return nil
	},
}

// seedTransactions inserts a few demo rows covering each status (idempotent).
func seedTransactions(dbx *sqlx.DB) error {
	demo := []model.Transaction{
		{ID: util.New(), PhoneNumber: "+34600111222", Content: "Bienvenido a nuestro servicio", Status: model.StatusSent},
		{ID: util.New(), PhoneNumber: "+34600333444", Content: "Su pedido ha sido enviado", Status: model.StatusDelivered},
		{ID: util.New(), PhoneNumber: "+34600555666", Content: "¿Le ha resultado útil esta información?", Status: model.StatusResponded},
		{ID: util.New(), PhoneNumber: "+34600777888", Content: "Recordatorio de cita", Status: model.StatusPending},
	}

	const q = `
INSERT INTO transactions
    (transaction_id, phone_number, message_content, status, sent_at)
VALUES
    (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
    status     = VALUES(status),
    sent_at    = VALUES(sent_at)
`
	tx, err := dbx.Beginx()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now()
	for _, t := range demo {
		if _, err := tx.Exec(q, t.ID, t.PhoneNumber, t.Content, t.Status.String(), now); err != nil {
			return fmt.Errorf("insert transaction %q: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transactions: %w", err)
	}
	return nil
}
