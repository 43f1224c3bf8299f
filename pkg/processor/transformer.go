package processor

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bcaldwell/statementimporter/pkg/classifier"
	"github.com/bcaldwell/statementimporter/pkg/statement"
)

// Transformer turns raw rows into classified transactions.
type Transformer struct {
	classifier *classifier.Classifier
	loc        *time.Location
	now        func() time.Time
}

func NewTransformer(rules classifier.RuleSet, loc *time.Location) *Transformer {
	if loc == nil {
		loc = time.UTC
	}
	return &Transformer{
		classifier: classifier.New(rules, loc),
		loc:        loc,
		now:        time.Now,
	}
}

// Transform classifies row and normalizes its dates and amounts. Only an
// unreadable transaction date fails the row, other unreadable values are
// logged and left empty.
func (t *Transformer) Transform(row statement.RawRow) (statement.Transaction, error) {
	transactionAt, err := statement.ParseDate(row.TransactionDate, t.loc)
	if err != nil {
		return statement.Transaction{}, fmt.Errorf("invalid transaction date: %w", err)
	}

	result := t.classifier.Classify(row)
	now := t.now()

	txn := statement.Transaction{
		TransactionAt:  transactionAt,
		Description:    row.Description,
		Mode:           result.Mode,
		Category:       result.Category,
		Ref:            result.Ref,
		Tags:           result.Tags,
		AdditionalMeta: result.AdditionalMeta,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if row.ValueDate != "" {
		if valueAt, err := statement.ParseDate(row.ValueDate, t.loc); err == nil {
			txn.ValueAt = &valueAt
		} else {
			slog.Warn("ignoring invalid value date", "description", row.Description, "error", err)
		}
	}

	txn.ChequeNo = amountOrNil("cheque", row.Cheque, row)
	txn.Debit = amountOrNil("debit", row.Debit, row)
	txn.Credit = amountOrNil("credit", row.Credit, row)
	txn.Balance = amountOrNil("balance", row.Balance, row)

	return txn, nil
}

func amountOrNil(field, value string, row statement.RawRow) *int64 {
	amount, err := ParseAmount(value)
	if err != nil {
		slog.Warn("ignoring invalid amount", "field", field, "value", value, "description", row.Description, "error", err)
		return nil
	}
	return amount
}

// ParseAmount reads a formatted amount such as "15,000.00" and rounds it to a
// whole number. Empty input is not an error and yields nil.
func ParseAmount(s string) (*int64, error) {
	s = strings.NewReplacer(",", "", " ", "").Replace(s)
	if s == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}

	amount := d.Round(0).IntPart()
	return &amount, nil
}
