// Package statementimporter wires statement processing to storage: it looks up
// the bank, processes the file, applies the import cut-off and feeds the
// result.
package statementimporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/uptrace/bun"
	"k8s.io/klog"

	"github.com/bcaldwell/statementimporter/pkg/config"
	"github.com/bcaldwell/statementimporter/pkg/dbutils"
	"github.com/bcaldwell/statementimporter/pkg/extractor"
	"github.com/bcaldwell/statementimporter/pkg/feeder"
	"github.com/bcaldwell/statementimporter/pkg/influxsink"
	"github.com/bcaldwell/statementimporter/pkg/processor"
)

// ErrUnknownBank is returned for a bank name that is not registered.
var ErrUnknownBank = errors.New("unknown bank")

type Options struct {
	// Bank is used for files imported from the import directory
	Bank        string
	ImportDir   string
	ImportAfter time.Time
	Table       string
	Reclassify  bool
	Processor   processor.Options
	// Sink is optional
	Sink *influxsink.Sink
}

type ImportStatementRunner struct {
	registry *processor.Registry
	db       *bun.DB
	feeder   *feeder.Feeder
	options  Options
}

func NewImportStatementRunner(ctx context.Context, registry *processor.Registry, db *bun.DB, options Options) (*ImportStatementRunner, error) {
	observers := []feeder.Observer{feeder.LogObserver{}}
	if options.Sink != nil {
		observers = append(observers, options.Sink)
	}

	f := feeder.New(db, options.Table, observers...)
	f.Reclassify = options.Reclassify

	if err := f.Migrate(ctx); err != nil {
		return nil, err
	}

	return &ImportStatementRunner{
		registry: registry,
		db:       db,
		feeder:   f,
		options:  options,
	}, nil
}

// NewImportStatementRunnerFromConfig builds a runner from the loaded config and secrets.
func NewImportStatementRunnerFromConfig(ctx context.Context, registry *processor.Registry) (*ImportStatementRunner, error) {
	c := config.CurrentConfig()

	loc, err := c.Location()
	if err != nil {
		return nil, err
	}

	importAfter, err := c.ImportAfter()
	if err != nil {
		return nil, err
	}

	db, err := dbutils.CreateDBClient(c.SQL, *config.CurrentSecrets())
	if err != nil {
		return nil, fmt.Errorf("error connecting to %s DB: %w", c.SQL.Driver, err)
	}

	options := Options{
		Bank:        c.Bank,
		ImportDir:   c.ImportDir,
		ImportAfter: importAfter,
		Table:       c.SQL.TransactionsTable,
		Reclassify:  c.SQL.Reclassify,
		Processor: processor.Options{
			Location:          loc,
			ColumnTranslation: c.ColumnTranslation,
		},
	}

	if config.CurrentInfluxSecrets().InfluxEndpoint != "" && c.Influx.Database != "" {
		client, err := influxsink.CreateInfluxClient(*config.CurrentInfluxSecrets())
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("error creating InfluxDB client: %w", err)
		}

		options.Sink = influxsink.New(client, c.Influx.Database, c.Influx.Measurement)
		if err := options.Sink.EnsureDatabase(); err != nil {
			db.Close()
			return nil, err
		}
	}

	runner, err := NewImportStatementRunner(ctx, registry, db, options)
	if err != nil {
		db.Close()
		return nil, err
	}
	return runner, nil
}

// Run imports every statement in the import directory as the configured
// bank. Imported files are moved out of the way; files that fail stay for
// the next run.
func (r *ImportStatementRunner) Run() error {
	files, err := Scan(r.options.ImportDir)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		klog.Infof("No statements to import in %s", r.options.ImportDir)
		return nil
	}

	var errs []error
	for _, f := range files {
		if err := r.importPath(context.Background(), f); err != nil {
			slog.Error("failed to import statement", "file", f.Name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", f.Name, err))
			continue
		}

		if err := MarkProcessed(r.options.ImportDir, f.Name); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (r *ImportStatementRunner) importPath(ctx context.Context, f FileInfo) error {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return err
	}

	_, err = r.Import(ctx, r.options.Bank, extractor.File{Name: f.Name, Data: data})
	return err
}

// Import processes file as a statement of bankName and feeds its transactions.
func (r *ImportStatementRunner) Import(ctx context.Context, bankName string, file extractor.File) (feeder.Result, error) {
	bank, ok := r.registry.Get(bankName)
	if !ok {
		return feeder.Result{}, fmt.Errorf("%w: %s", ErrUnknownBank, bankName)
	}

	txns, err := processor.New(bank, r.options.Processor).Process(ctx, file)
	if err != nil {
		return feeder.Result{}, fmt.Errorf("failed to process %s: %w", file.Name, err)
	}

	if !r.options.ImportAfter.IsZero() {
		kept := txns[:0]
		for _, txn := range txns {
			// check if transaction is before cutoff date
			if txn.TransactionAt.Before(r.options.ImportAfter) {
				continue
			}
			kept = append(kept, txn)
		}
		txns = kept
	}

	result, err := r.feeder.Feed(ctx, txns)
	if err != nil {
		return result, err
	}

	if r.options.Sink != nil {
		if err := r.options.Sink.WriteTransactions(txns); err != nil {
			slog.Warn("failed to mirror transactions to influx", "error", err)
		}
	}

	return result, nil
}

// Feeder exposes the runner's feeder for reading stored transactions.
func (r *ImportStatementRunner) Feeder() *feeder.Feeder {
	return r.feeder
}

// Banks lists the banks statements can be imported as.
func (r *ImportStatementRunner) Banks() []string {
	return r.registry.Names()
}

func (r *ImportStatementRunner) Close() error {
	return r.db.Close()
}
