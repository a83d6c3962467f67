package csvsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/relbalance/internal/domain"
)

// Column positions in a transaction file.
const (
	colID = iota
	colFrom
	colTo
	colCreatedAt
	colAmount
	colType
	colOrigID

	minColumns = colType + 1
)

// Parse reads transaction records from CSV. The first row is a header and is
// skipped; blank lines are ignored. Dates are parsed with layout.
func Parse(r io.Reader, layout string) ([]*domain.TransactionRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var records []*domain.TransactionRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
		}

		line, _ := reader.FieldPos(0)
		if isBlank(row) {
			continue
		}

		record, err := parseRow(row, layout)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, record)
	}

	return records, nil
}

func parseRow(row []string, layout string) (*domain.TransactionRecord, error) {
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}

	if len(row) < minColumns {
		return nil, fmt.Errorf("%w: expected at least %d fields, got %d", domain.ErrMalformedRecord, minColumns, len(row))
	}

	createdAt, err := time.Parse(layout, row[colCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid createdAt %q", domain.ErrMalformedRecord, row[colCreatedAt])
	}

	amount, err := decimal.NewFromString(row[colAmount])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid amount %q", domain.ErrMalformedRecord, row[colAmount])
	}

	txnType, err := domain.ParseTxnType(row[colType])
	if err != nil {
		return nil, err
	}

	record := &domain.TransactionRecord{
		ID:            row[colID],
		FromAccountID: row[colFrom],
		ToAccountID:   row[colTo],
		CreatedAt:     createdAt,
		Amount:        amount,
		Type:          txnType,
	}

	// The trailing column is only meaningful for reversals.
	if txnType == domain.TxnTypeReversal && len(row) > colOrigID {
		orig := row[colOrigID]
		record.OrigTransactionID = &orig
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

func isBlank(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
