package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dcamacho/rbm-gateway/internal/config"
	"github.com/dcamacho/rbm-gateway/internal/db"
	"github.com/dcamacho/rbm-gateway/internal/logger"
	"github.com/dcamacho/rbm-gateway/internal/model"
	"github.com/dcamacho/rbm-gateway/internal/rbm"
	"github.com/dcamacho/rbm-gateway/internal/repository"
	"github.com/dcamacho/rbm-gateway/internal/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	sendTo   string
	sendText string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a text message through the RBM API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger.Init(cfg.Log.Level)
		log := logger.Log

		recipient := util.NormalizePhone(sendTo)
		if recipient == "" || sendText == "" {
			return fmt.Errorf("both --to and --text are required")
		}
		if cfg.RBM.AgentID == "" {
			return fmt.Errorf("rbm.agent_id not configured")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		tokens, err := rbm.LoadTokenSource(ctx, cfg.RBM.CredentialsFile)
		if err != nil {
			return fmt.Errorf("load credentials: %w", err)
		}
		client := rbm.NewClient(
			cfg.RBM.Endpoint,
			cfg.RBM.AgentID,
			tokens,
			cfg.RBM.TimeoutMs,
			cfg.RBM.Breaker.FailThreshold,
			cfg.RBM.Breaker.OpenForMs,
		)

		// Transactions store is optional; without MySQL the send still goes out.
		var txRepo repository.TransactionsRepository
		if cfg.MySQL.DSN != "" {
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
			txRepo = repository.NewTransactionsRepository(sqlDB)
		}

		transactionID := util.New()
		if txRepo != nil {
			if err := txRepo.Insert(ctx, model.Transaction{
				ID:          transactionID,
				PhoneNumber: recipient,
				Content:     sendText,
				Status:      model.StatusPending,
			}); err != nil {
				return fmt.Errorf("record transaction: %w", err)
			}
		}

		resp, human, sendErr := client.SendText(ctx, recipient, sendText, transactionID)

		if txRepo != nil {
			status := model.StatusSent
			if sendErr != nil {
				status = model.StatusFailed
			}
			respJSON, _ := json.Marshal(resp)
			if err := txRepo.UpdateStatus(ctx, transactionID, status, respJSON); err != nil {
				log.Error("update transaction failed", zap.String("transaction_id", transactionID), zap.Error(err))
			}
		}

		if sendErr != nil {
			log.Error("send failed",
				zap.String("transaction_id", transactionID),
				zap.String("outcome", human),
				zap.Error(sendErr))
			return fmt.Errorf("send: %s: %w", human, sendErr)
		}

		log.Info("send succeeded",
			zap.String("transaction_id", transactionID),
			zap.String("to", recipient),
			zap.String("outcome", human))
		fmt.Printf(">> %s (transaction %s)\n", human, transactionID)
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendTo, "to", "", "recipient phone number (E.164)")
	sendCmd.Flags().StringVar(&sendText, "text", "", "message text")
}
