// Package processor reads a bank statement file and produces normalized,
// classified transactions ready to be fed to storage.
package processor

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"k8s.io/klog"

	"github.com/bcaldwell/statementimporter/pkg/extractor"
	"github.com/bcaldwell/statementimporter/pkg/statement"
)

type Options struct {
	// Location statement dates without a zone are read in, UTC when nil
	Location *time.Location
	// ColumnTranslation overrides which raw header a canonical field is read from
	ColumnTranslation map[string]string
}

type Processor struct {
	bank        Bank
	reader      *extractor.Reader
	transformer *Transformer
}

func New(bank Bank, opts Options) *Processor {
	return &Processor{
		bank:        bank,
		reader:      extractor.NewReader(bank.Layout, opts.ColumnTranslation),
		transformer: NewTransformer(bank.Rules, opts.Location),
	}
}

// Process extracts and transforms every row of file. Rows that cannot be
// transformed are dropped. All transactions of one call share an import id.
func (p *Processor) Process(ctx context.Context, file extractor.File) ([]statement.Transaction, error) {
	rows, err := p.reader.Read(file)
	if err != nil {
		return nil, err
	}

	importID := uuid.NewString()
	transactions := make([]statement.Transaction, 0, len(rows))

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		txn, err := p.transformer.Transform(row)
		if err != nil {
			slog.Warn("dropping statement row", "bank", p.bank.Name, "row", row, "error", err)
			continue
		}

		txn.ImportID = importID
		transactions = append(transactions, txn)
	}

	klog.Infof("processed %d of %d %s statement rows from %s", len(transactions), len(rows), p.bank.Name, file.Name)

	return transactions, nil
}
