package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/relbalance/internal/domain"
	"github.com/iho/relbalance/internal/usecase"
	"github.com/iho/relbalance/internal/usecase/mocks"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(domain.DefaultDateLayout, value)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", value, err)
	}
	return parsed
}

func ledgerRecords(t *testing.T) []*domain.TransactionRecord {
	t.Helper()
	orig := "TX10002"
	return []*domain.TransactionRecord{
		{ID: "TX10001", FromAccountID: "ACC334455", ToAccountID: "ACC778899", CreatedAt: mustParse(t, "20/10/2018 12:47:55"), Amount: decimal.RequireFromString("25.00"), Type: domain.TxnTypePayment},
		{ID: "TX10002", FromAccountID: "ACC334455", ToAccountID: "ACC998877", CreatedAt: mustParse(t, "20/10/2018 17:33:43"), Amount: decimal.RequireFromString("10.50"), Type: domain.TxnTypePayment},
		{ID: "TX10004", FromAccountID: "ACC334455", ToAccountID: "ACC998877", CreatedAt: mustParse(t, "20/10/2018 19:45:00"), Amount: decimal.RequireFromString("10.50"), Type: domain.TxnTypeReversal, OrigTransactionID: &orig},
	}
}

var validInput = usecase.CalculateInput{
	AccountID: "ACC334455",
	From:      "20/10/2018 12:00:00",
	To:        "20/10/2018 19:00:00",
}

func newUseCase(ctrl *gomock.Controller, cache usecase.BalanceCache, metrics usecase.MetricsRecorder) (*usecase.BalanceUseCase, *mocks.MockIDGenerator) {
	idGen := mocks.NewMockIDGenerator(ctrl)
	uc := usecase.NewBalanceUseCase(usecase.BalanceConfig{}, idGen, cache, metrics, zerolog.Nop())
	return uc, idGen
}

func TestBalanceUseCase_Calculate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := mocks.NewMockTransactionSource(ctrl)
	source.EXPECT().ID().Return("file:/tmp/transactions.csv").AnyTimes()
	source.EXPECT().Transactions(gomock.Any(), "ACC334455").Return(ledgerRecords(t), nil)

	metrics := mocks.NewMockMetricsRecorder(ctrl)
	metrics.EXPECT().ObserveTransactions("file", 3, 1)
	metrics.EXPECT().ObserveCalculation("file", "ok", gomock.Any())

	uc, idGen := newUseCase(ctrl, nil, metrics)
	idGen.EXPECT().Generate().Return("calc-1")

	out, err := uc.Calculate(context.Background(), validInput, source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.CalculationID != "calc-1" {
		t.Errorf("expected calculation id calc-1, got %s", out.CalculationID)
	}
	if out.Balance.Display() != "-$25.00" {
		t.Errorf("expected -$25.00, got %s", out.Balance.Display())
	}
	if out.Balance.TransactionCount != 1 {
		t.Errorf("expected 1 transaction, got %d", out.Balance.TransactionCount)
	}
	if out.Cached {
		t.Error("expected uncached result")
	}
}

func TestBalanceUseCase_Calculate_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.CalculateInput
		wantErr error
	}{
		{"empty account", usecase.CalculateInput{From: validInput.From, To: validInput.To}, domain.ErrEmptyAccountID},
		{"empty from", usecase.CalculateInput{AccountID: "ACC1", To: validInput.To}, domain.ErrEmptyFromDate},
		{"empty to", usecase.CalculateInput{AccountID: "ACC1", From: validInput.From}, domain.ErrEmptyToDate},
		{"invalid date", usecase.CalculateInput{AccountID: "ACC1", From: "2018-10-01", To: validInput.To}, domain.ErrInvalidDate},
		{"inverted range", usecase.CalculateInput{AccountID: "ACC1", From: "20/10/2019 12:00:00", To: validInput.To}, domain.ErrInvalidDateRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// No source, cache, id or metrics calls are expected before validation passes.
			source := mocks.NewMockTransactionSource(ctrl)
			uc, _ := newUseCase(ctrl, mocks.NewMockBalanceCache(ctrl), mocks.NewMockMetricsRecorder(ctrl))

			_, err := uc.Calculate(context.Background(), tt.input, source)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestBalanceUseCase_Calculate_SourceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	boom := errors.New("connection refused")
	source := mocks.NewMockTransactionSource(ctrl)
	source.EXPECT().ID().Return("postgres").AnyTimes()
	source.EXPECT().Transactions(gomock.Any(), "ACC334455").Return(nil, boom)

	metrics := mocks.NewMockMetricsRecorder(ctrl)
	metrics.EXPECT().ObserveCalculation("postgres", "error", gomock.Any())

	uc, idGen := newUseCase(ctrl, nil, metrics)
	idGen.EXPECT().Generate().Return("calc-2")

	_, err := uc.Calculate(context.Background(), validInput, source)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
}

func TestBalanceUseCase_Calculate_EmptySource(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := mocks.NewMockTransactionSource(ctrl)
	source.EXPECT().ID().Return("upload:empty").AnyTimes()
	source.EXPECT().Transactions(gomock.Any(), gomock.Any()).Return(nil, nil)

	uc, idGen := newUseCase(ctrl, nil, nil)
	idGen.EXPECT().Generate().Return("calc-3")

	out, err := uc.Calculate(context.Background(), validInput, source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Balance.Amount.IsZero() || out.Balance.TransactionCount != 0 {
		t.Fatalf("expected zero balance, got %s / %d", out.Balance.Amount, out.Balance.TransactionCount)
	}
}

func TestBalanceUseCase_Calculate_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := mocks.NewMockTransactionSource(ctrl)
	source.EXPECT().ID().Return("file:/tmp/a.csv:1:2").AnyTimes()

	cached := &domain.RelativeBalance{Amount: decimal.RequireFromString("5.75"), TransactionCount: 3}
	cache := mocks.NewMockBalanceCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cached, nil)

	metrics := mocks.NewMockMetricsRecorder(ctrl)
	metrics.EXPECT().ObserveCache(true)
	metrics.EXPECT().ObserveCalculation("file", "ok", gomock.Any())

	uc, idGen := newUseCase(ctrl, cache, metrics)
	idGen.EXPECT().Generate().Return("calc-4")

	out, err := uc.Calculate(context.Background(), validInput, source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Cached {
		t.Fatal("expected cached result")
	}
	if out.Balance.Display() != "$5.75" {
		t.Fatalf("expected $5.75, got %s", out.Balance.Display())
	}
}

func TestBalanceUseCase_Calculate_CacheMissStoresResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := mocks.NewMockTransactionSource(ctrl)
	source.EXPECT().ID().Return("file:/tmp/a.csv:1:2").AnyTimes()
	source.EXPECT().Transactions(gomock.Any(), "ACC334455").Return(ledgerRecords(t), nil)

	var storedKey string
	cache := mocks.NewMockBalanceCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, usecase.ErrCacheMiss)
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), usecase.DefaultCacheTTL).
		DoAndReturn(func(_ context.Context, key string, balance *domain.RelativeBalance, _ time.Duration) error {
			storedKey = key
			if balance.TransactionCount != 1 {
				t.Errorf("expected stored count 1, got %d", balance.TransactionCount)
			}
			return nil
		})

	metrics := mocks.NewMockMetricsRecorder(ctrl)
	metrics.EXPECT().ObserveCache(false)
	metrics.EXPECT().ObserveTransactions("file", 3, 1)
	metrics.EXPECT().ObserveCalculation("file", "ok", gomock.Any())

	uc, idGen := newUseCase(ctrl, cache, metrics)
	idGen.EXPECT().Generate().Return("calc-5")

	if _, err := uc.Calculate(context.Background(), validInput, source); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "file:/tmp/a.csv:1:2:ACC334455:1540036800:1540062000"
	if storedKey != want {
		t.Fatalf("expected cache key %q, got %q", want, storedKey)
	}
}

func TestBalanceUseCase_Calculate_CacheFailuresAreNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := mocks.NewMockTransactionSource(ctrl)
	source.EXPECT().ID().Return("file:x").AnyTimes()
	source.EXPECT().Transactions(gomock.Any(), gomock.Any()).Return(ledgerRecords(t), nil)

	cache := mocks.NewMockBalanceCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("redis down"))
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	uc, idGen := newUseCase(ctrl, cache, nil)
	idGen.EXPECT().Generate().Return("calc-6")

	out, err := uc.Calculate(context.Background(), validInput, source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Balance.Display() != "-$25.00" {
		t.Fatalf("expected -$25.00, got %s", out.Balance.Display())
	}
}
