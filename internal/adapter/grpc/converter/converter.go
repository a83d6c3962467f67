package converter

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/iho/relbalance/internal/domain"
	"github.com/iho/relbalance/internal/usecase"
)

// Request fields of relbalance.v1.BalanceService/Calculate.
const (
	FieldAccountID       = "account_id"
	FieldFrom            = "from"
	FieldTo              = "to"
	FieldTransactionsCSV = "transactions_csv"
)

// BalanceRequest is a decoded Calculate request.
type BalanceRequest struct {
	Input usecase.CalculateInput
	// TransactionsCSV, when set, is computed over instead of the server's source.
	TransactionsCSV string
}

// BalanceRequestFromPb decodes a Calculate request. Absent fields stay empty
// so input validation can report them.
func BalanceRequestFromPb(s *structpb.Struct) (BalanceRequest, error) {
	fields := s.GetFields()

	get := func(name string) (string, error) {
		v, ok := fields[name]
		if !ok {
			return "", nil
		}
		str, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return "", fmt.Errorf("field %q must be a string", name)
		}
		return str.StringValue, nil
	}

	var (
		req BalanceRequest
		err error
	)
	if req.Input.AccountID, err = get(FieldAccountID); err != nil {
		return BalanceRequest{}, err
	}
	if req.Input.From, err = get(FieldFrom); err != nil {
		return BalanceRequest{}, err
	}
	if req.Input.To, err = get(FieldTo); err != nil {
		return BalanceRequest{}, err
	}
	if req.TransactionsCSV, err = get(FieldTransactionsCSV); err != nil {
		return BalanceRequest{}, err
	}

	return req, nil
}

// BalanceToPb converts a calculation result to the response shape shared
// with the HTTP API.
func BalanceToPb(out *usecase.CalculateOutput) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"calculation_id":    out.CalculationID,
		"account_id":        out.AccountID,
		"from":              out.Window.From.Format(time.RFC3339),
		"to":                out.Window.To.Format(time.RFC3339),
		"balance":           out.Balance.Amount.StringFixed(2),
		"display":           out.Balance.Display(),
		"transaction_count": out.Balance.TransactionCount,
		"incoming":          tallyToMap(out.Balance.Incoming),
		"outgoing":          tallyToMap(out.Balance.Outgoing),
		"cached":            out.Cached,
	})
}

func tallyToMap(t domain.Tally) map[string]any {
	return map[string]any{
		"total": t.Total.StringFixed(2),
		"count": t.Count,
	}
}
