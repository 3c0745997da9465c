package accounts

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dealdesk-dev/dealdesk/internal/model"
)

const (
	numFields = 5
	colCode   = 0
	colName   = 1
	colType   = 2
	colNormal = 3
	colDesc   = 4
)

// ReadAccounts reads chart-of-accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accts = append(accts, acct)
	}
	return accts, nil
}

// WriteAccounts writes chart-of-accounts.csv.
func WriteAccounts(w io.Writer, accts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"code", "name", "type", "normal_balance", "description"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(a model.Account) []string {
	row := make([]string, numFields)
	row[colCode] = a.Code
	row[colName] = a.Name
	row[colType] = string(a.Type)
	row[colNormal] = string(a.Normal)
	row[colDesc] = a.Description
	return row
}

// UnmarshalAccount converts a CSV row to an Account. The code's type
// digit must agree with the declared type.
func UnmarshalAccount(rec []string) (model.Account, error) {
	if len(rec) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(rec))
	}

	acct := model.Account{
		Code:        rec[colCode],
		Name:        rec[colName],
		Type:        model.AccountType(rec[colType]),
		Normal:      model.BalanceSide(rec[colNormal]),
		Description: rec[colDesc],
	}

	implied, ok := model.TypeForCode(acct.Code)
	if !ok {
		return model.Account{}, fmt.Errorf("account code %q has no type digit", acct.Code)
	}
	if implied != acct.Type {
		return model.Account{}, fmt.Errorf("account %s declared %s but code implies %s",
			acct.Code, acct.Type, implied)
	}

	if acct.Normal != model.BalanceDebit && acct.Normal != model.BalanceCredit {
		return model.Account{}, fmt.Errorf("account %s has invalid normal balance %q", acct.Code, acct.Normal)
	}

	return acct, nil
}
