package statement

import (
	"time"
)

// Canonical field names raw statement columns are translated to.
const (
	FieldTransactionDate = "transaction_date"
	FieldValueDate       = "value_date"
	FieldDescription     = "description"
	FieldCheque          = "cheque"
	FieldDebit           = "debit"
	FieldCredit          = "credit"
	FieldBalance         = "balance"
)

// RawRow is one exported statement line with bank agnostic field names.
// Amount fields are kept as the text found in the export, empty means absent.
type RawRow struct {
	TransactionDate string
	ValueDate       string
	Description     string
	Cheque          string
	Debit           string
	Credit          string
	Balance         string
}

// Transaction is a normalized, categorized statement line ready to be persisted.
type Transaction struct {
	TransactionAt time.Time
	ValueAt       *time.Time
	Description   string

	// nil means the column was empty in the export, not zero
	ChequeNo *int64
	Debit    *int64
	Credit   *int64
	Balance  *int64

	Mode     Mode
	Category Category
	// Ref is the deduplication key, nil when none could be derived
	Ref *string

	Tags           []string
	AdditionalMeta map[string]*string

	ImportID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
