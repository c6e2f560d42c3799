package repository

import (
	"context"

	"github.com/dcamacho/rbm-gateway/internal/model"
	"github.com/jmoiron/sqlx"
)

// TransactionsRepository defines persistence for the transactions table:
// one row per outbound send, advanced by webhook receipts.
type TransactionsRepository interface {
	Insert(ctx context.Context, t model.Transaction) error
	UpdateStatus(ctx context.Context, id string, status model.TransactionStatus, responseJSON []byte) error
	List(ctx context.Context, limit int) ([]model.Transaction, error)
}

type TransactionsRepositoryImpl struct {
	db *sqlx.DB
}

func NewTransactionsRepository(db *sqlx.DB) *TransactionsRepositoryImpl {
	return &TransactionsRepositoryImpl{db: db}
}

var _ TransactionsRepository = (*TransactionsRepositoryImpl)(nil)

// Insert writes a new transaction row; status defaults to PENDING.
func (r *TransactionsRepositoryImpl) Insert(ctx context.Context, t model.Transaction) error {
	if t.Status == "" {
		t.Status = model.StatusPending
	}
	const q = `
		INSERT INTO transactions
		    (transaction_id, phone_number, message_content, status, sent_at)
		VALUES
		    (?, ?, ?, ?, NOW())
	`
	_, err := r.db.ExecContext(ctx, q, t.ID, t.PhoneNumber, t.Content, t.Status.String())
	return err
}

// UpdateStatus advances a transaction and optionally attaches the webhook
// response JSON. Unknown IDs are not an error (receipts may reference sends
// recorded elsewhere).
func (r *TransactionsRepositoryImpl) UpdateStatus(ctx context.Context, id string, status model.TransactionStatus, responseJSON []byte) error {
	const q = `
		UPDATE transactions
		   SET status = ?,
		       response_json = COALESCE(?, response_json),
		       response_at = NOW()
		 WHERE transaction_id = ?
	`
	_, err := r.db.ExecContext(ctx, q, status.String(), nullable(responseJSON), id)
	return err
}

// List returns transactions newest first.
func (r *TransactionsRepositoryImpl) List(ctx context.Context, limit int) ([]model.Transaction, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	const q = `
		SELECT transaction_id, phone_number, message_content, status, sent_at, response_json, response_at
		  FROM transactions
		 ORDER BY sent_at DESC
		 LIMIT ?
	`
	var rows []model.Transaction
	if err := r.db.SelectContext(ctx, &rows, q, limit); err != nil {
		return nil, err
	}
	return rows, nil
}

func nullable(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
