// Package feeder persists classified statement transactions.
//
// Every transaction with a reference is stored at most once; feeding the
// same statement again skips rows whose reference is already stored.
// Transactions without a reference cannot be matched and are always stored.
package feeder

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/bcaldwell/statementimporter/pkg/dbutils"
	"github.com/bcaldwell/statementimporter/pkg/statement"
)

// Result counts the outcome of one feed.
type Result struct {
	// Inserted counts rows written, reclassified rows included
	Inserted int
	// Skipped counts rows whose reference was already stored
	Skipped int
}

type Feeder struct {
	db        *bun.DB
	table     string
	observers []Observer

	// Reclassify overwrites stored rows with the same reference instead of skipping them
	Reclassify bool
}

func New(db *bun.DB, table string, observers ...Observer) *Feeder {
	if table == "" {
		table = DefaultTable
	}
	return &Feeder{db: db, table: table, observers: observers}
}

// Migrate creates the transactions table if it does not exist.
func (f *Feeder) Migrate(ctx context.Context) error {
	_, err := f.db.NewCreateTable().
		Model((*SQLTransaction)(nil)).
		ModelTableExpr("?", bun.Ident(f.table)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create table %s: %w", f.table, err)
	}

	_, err = f.db.NewCreateIndex().
		Model((*SQLTransaction)(nil)).
		ModelTableExpr("?", bun.Ident(f.table)).
		Index(f.table + "_transaction_at_idx").
		IfNotExists().
		Column("transaction_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index on %s: %w", f.table, err)
	}

	return nil
}

// Feed stores txns in a single database transaction. Any storage error rolls
// the whole batch back. Feeding is not cancelled with ctx once it started.
func (f *Feeder) Feed(ctx context.Context, txns []statement.Transaction) (Result, error) {
	ctx = context.WithoutCancel(ctx)

	for _, o := range f.observers {
		o.ImportStarted(len(txns))
	}

	result := Result{}
	err := f.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, txn := range txns {
			inserted, err := f.insert(ctx, tx, txn)
			if err != nil {
				return err
			}

			if inserted {
				result.Inserted++
			} else {
				result.Skipped++
			}
		}
		return nil
	})
	if err != nil {
		err = fmt.Errorf("error writing to sql: %w", err)
		for _, o := range f.observers {
			o.ImportFailed(err)
		}
		return Result{}, err
	}

	for _, o := range f.observers {
		o.ImportCompleted(len(txns), result)
	}

	return result, nil
}

func (f *Feeder) insert(ctx context.Context, tx bun.Tx, txn statement.Transaction) (bool, error) {
	row := newSQLTransaction(txn)

	q := tx.NewInsert().
		Model(&row).
		ModelTableExpr("?", bun.Ident(f.table)).
		Returning("NULL")

	if f.Reclassify {
		q = q.On("CONFLICT (transaction_ref) DO UPDATE").
			Set(dbutils.TableSetString(f.db, (*SQLTransaction)(nil), "id", "transaction_ref", "created_at"))
	} else {
		q = q.On("CONFLICT (transaction_ref) DO NOTHING")
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to insert %q: %w", txn.Description, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// Stored returns every stored transaction, oldest first.
func (f *Feeder) Stored(ctx context.Context) ([]statement.Transaction, error) {
	rows := []SQLTransaction{}
	err := f.db.NewSelect().
		Model(&rows).
		ModelTableExpr("? AS st", bun.Ident(f.table)).
		Order("transaction_at", "id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.table, err)
	}

	txns := make([]statement.Transaction, len(rows))
	for i, row := range rows {
		txns[i] = row.Transaction()
	}
	return txns, nil
}
