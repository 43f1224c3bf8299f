// Package influxsink mirrors imported statement transactions and import
// summaries into influxdb for dashboards.
package influxsink

import (
	"fmt"
	"strings"
	"time"

	influx "github.com/influxdata/influxdb/client/v2"

	"github.com/bcaldwell/statementimporter/pkg/config"
	"github.com/bcaldwell/statementimporter/pkg/feeder"
	"github.com/bcaldwell/statementimporter/pkg/statement"
)

func CreateInfluxClient(secrets config.InfluxSecrets) (influx.Client, error) {
	return influx.NewHTTPClient(influx.HTTPConfig{
		Addr:     secrets.InfluxEndpoint,
		Username: secrets.InfluxUsername,
		Password: secrets.InfluxPassword,
	})
}

// Sink writes to one influx database. It is a feeder.Observer writing a
// summary point for every finished import.
type Sink struct {
	client      influx.Client
	database    string
	measurement string
	now         func() time.Time
}

var _ feeder.Observer = (*Sink)(nil)

func New(client influx.Client, database, measurement string) *Sink {
	return &Sink{client: client, database: database, measurement: measurement, now: time.Now}
}

// EnsureDatabase creates the sink's database if it does not exist.
func (s *Sink) EnsureDatabase() error {
	name := strings.Split(s.database, " ")[0]

	q := influx.NewQuery(fmt.Sprintf("CREATE DATABASE %s", name), "", "")
	response, err := s.client.Query(q)
	if err != nil {
		return fmt.Errorf("failed to create influx database %s: %w", name, err)
	}
	if response.Error() != nil {
		return fmt.Errorf("failed to create influx database %s: %w", name, response.Error())
	}
	return nil
}

// WriteTransactions writes one point per transaction, tagged by mode and category.
func (s *Sink) WriteTransactions(txns []statement.Transaction) error {
	bp, err := s.batch()
	if err != nil {
		return err
	}

	for _, txn := range txns {
		fields := map[string]interface{}{
			"description": txn.Description,
		}
		if txn.Debit != nil {
			fields["debit"] = *txn.Debit
		}
		if txn.Credit != nil {
			fields["credit"] = *txn.Credit
		}
		if txn.Balance != nil {
			fields["balance"] = *txn.Balance
		}

		tags := map[string]string{
			"mode":     txn.Mode.String(),
			"category": txn.Category.String(),
		}

		pt, err := influx.NewPoint(s.measurement, tags, fields, txn.TransactionAt)
		if err != nil {
			return fmt.Errorf("failed to create point: %w", err)
		}
		bp.AddPoint(pt)
	}

	if err := s.client.Write(bp); err != nil {
		return fmt.Errorf("failed to write transactions to influx: %w", err)
	}
	return nil
}

func (s *Sink) ImportStarted(count int) {}

func (s *Sink) ImportCompleted(count int, result feeder.Result) {
	s.writeSummary("completed", map[string]interface{}{
		"count":    count,
		"inserted": result.Inserted,
		"skipped":  result.Skipped,
	})
}

func (s *Sink) ImportFailed(err error) {
	s.writeSummary("failed", map[string]interface{}{
		"error": err.Error(),
	})
}

func (s *Sink) writeSummary(status string, fields map[string]interface{}) {
	bp, err := s.batch()
	if err != nil {
		return
	}

	pt, err := influx.NewPoint(s.measurement+"_imports", map[string]string{"status": status}, fields, s.now())
	if err != nil {
		return
	}
	bp.AddPoint(pt)

	// summaries are best effort, a failed write must not fail the import
	_ = s.client.Write(bp)
}

func (s *Sink) batch() (influx.BatchPoints, error) {
	bp, err := influx.NewBatchPoints(influx.BatchPointsConfig{
		Database:  s.database,
		Precision: "s",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create batch points: %w", err)
	}
	return bp, nil
}
