package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/relbalance/internal/domain"
	"github.com/iho/relbalance/internal/infrastructure/postgres/generated"
)

// TransactionRepository implements usecase.TransactionSource over the
// transactions table. It never writes.
type TransactionRepository struct {
	queries *generated.Queries
	retrier *Retrier
}

// NewTransactionRepository creates a new TransactionRepository. db is usually a *pgxpool.Pool.
func NewTransactionRepository(db generated.DBTX, retrier *Retrier) *TransactionRepository {
	if retrier == nil {
		retrier = NewRetrier()
	}
	return &TransactionRepository{
		queries: generated.New(db),
		retrier: retrier,
	}
}

// ID implements usecase.TransactionSource.
func (r *TransactionRepository) ID() string {
	return "postgres"
}

// Transactions returns every record where accountID is either party,
// reversals included.
func (r *TransactionRepository) Transactions(ctx context.Context, accountID string) ([]*domain.TransactionRecord, error) {
	var rows []generated.Transaction
	err := r.retrier.Retry(ctx, func() error {
		var err error
		rows, err = r.queries.ListTransactionsByAccount(ctx, accountID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	records := make([]*domain.TransactionRecord, 0, len(rows))
	for _, row := range rows {
		record, err := rowToRecord(row)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", row.ID, err)
		}
		records = append(records, record)
	}

	return records, nil
}

func rowToRecord(row generated.Transaction) (*domain.TransactionRecord, error) {
	txnType, err := domain.ParseTxnType(row.TxnType)
	if err != nil {
		return nil, err
	}

	record := &domain.TransactionRecord{
		ID:            row.ID,
		FromAccountID: row.FromAccountID,
		ToAccountID:   row.ToAccountID,
		CreatedAt:     row.CreatedAt.Time,
		Amount:        numericToDecimal(row.Amount),
		Type:          txnType,
	}

	if row.OrigTransactionID.Valid {
		orig := row.OrigTransactionID.String
		record.OrigTransactionID = &orig
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
