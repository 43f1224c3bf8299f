package feeder

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/bcaldwell/statementimporter/pkg/statement"
)

// DefaultTable is the table transactions are stored in when none is configured.
const DefaultTable = "statement_transactions"

type SQLTransaction struct {
	bun.BaseModel `bun:"table:statement_transactions,alias:st"`

	ID             int64              `bun:",pk,autoincrement"`
	TransactionRef *string            `bun:"transaction_ref,unique"`
	TransactionAt  time.Time          `bun:",notnull"`
	ValueAt        *time.Time         `bun:"value_at"`
	Description    string             `bun:",notnull"`
	ChequeNo       *int64             `bun:"cheque_no"`
	Debit          *int64             `bun:"debit"`
	Credit         *int64             `bun:"credit"`
	Balance        *int64             `bun:"balance"`
	Mode           string             `bun:",notnull"`
	Category       string             `bun:",notnull"`
	Tags           []string           `bun:"tags"`
	AdditionalMeta map[string]*string `bun:"additional_meta"`
	ImportID       string             `bun:"import_id"`
	CreatedAt      time.Time          `bun:",notnull"`
	UpdatedAt      time.Time          `bun:",notnull"`
}

func newSQLTransaction(txn statement.Transaction) SQLTransaction {
	return SQLTransaction{
		TransactionRef: txn.Ref,
		TransactionAt:  txn.TransactionAt,
		ValueAt:        txn.ValueAt,
		Description:    txn.Description,
		ChequeNo:       txn.ChequeNo,
		Debit:          txn.Debit,
		Credit:         txn.Credit,
		Balance:        txn.Balance,
		Mode:           txn.Mode.String(),
		Category:       txn.Category.String(),
		Tags:           txn.Tags,
		AdditionalMeta: txn.AdditionalMeta,
		ImportID:       txn.ImportID,
		CreatedAt:      txn.CreatedAt,
		UpdatedAt:      txn.UpdatedAt,
	}
}

func (t SQLTransaction) Transaction() statement.Transaction {
	return statement.Transaction{
		TransactionAt:  t.TransactionAt,
		ValueAt:        t.ValueAt,
		Description:    t.Description,
		ChequeNo:       t.ChequeNo,
		Debit:          t.Debit,
		Credit:         t.Credit,
		Balance:        t.Balance,
		Mode:           statement.Mode(t.Mode),
		Category:       statement.Category(t.Category),
		Ref:            t.TransactionRef,
		Tags:           t.Tags,
		AdditionalMeta: t.AdditionalMeta,
		ImportID:       t.ImportID,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}
