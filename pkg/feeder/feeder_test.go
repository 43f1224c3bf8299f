package feeder_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/bcaldwell/statementimporter/pkg/dbutils"
	"github.com/bcaldwell/statementimporter/pkg/feeder"
	"github.com/bcaldwell/statementimporter/pkg/feeder/mocks"
	"github.com/bcaldwell/statementimporter/pkg/statement"
)

func newTestFeeder(t *testing.T, observers ...feeder.Observer) (*feeder.Feeder, *bun.DB) {
	t.Helper()

	db, err := dbutils.CreateSQLiteClient(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := feeder.New(db, "", observers...)
	require.NoError(t, f.Migrate(context.Background()))
	return f, db
}

func testTransactions() []statement.Transaction {
	now := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	debit := int64(15000)
	credit := int64(120)

	return []statement.Transaction{
		{
			TransactionAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Description:   "UPI/MOB/400230892772/lunch",
			Debit:         &debit,
			Mode:          statement.ModeUPI,
			Category:      statement.CategoryFood,
			Ref:           statement.StringPtr("400230892772"),
			Tags:          []string{"lunch"},
			AdditionalMeta: map[string]*string{
				"location": nil,
			},
			ImportID:  "import-1",
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			TransactionAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			Description:   "NACH/somebody",
			Credit:        &credit,
			Mode:          statement.ModeNACH,
			Category:      statement.CategoryUnknown,
			Tags:          []string{"somebody"},
			ImportID:      "import-1",
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}
}

func TestFeedIsIdempotentForRefs(t *testing.T) {
	f, _ := newTestFeeder(t)
	ctx := context.Background()

	result, err := f.Feed(ctx, testTransactions())
	require.NoError(t, err)
	assert.Equal(t, feeder.Result{Inserted: 2, Skipped: 0}, result)

	// the row without a ref cannot be matched and is stored again
	result, err = f.Feed(ctx, testTransactions())
	require.NoError(t, err)
	assert.Equal(t, feeder.Result{Inserted: 1, Skipped: 1}, result)

	stored, err := f.Stored(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 3)

	lunch := stored[0]
	assert.Equal(t, "UPI/MOB/400230892772/lunch", lunch.Description)
	assert.Equal(t, "400230892772", *lunch.Ref)
	assert.Equal(t, int64(15000), *lunch.Debit)
	assert.Nil(t, lunch.Credit)
	assert.Equal(t, statement.ModeUPI, lunch.Mode)
	assert.Equal(t, statement.CategoryFood, lunch.Category)
	assert.Equal(t, []string{"lunch"}, lunch.Tags)
	assert.True(t, lunch.TransactionAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	assert.Nil(t, stored[1].Ref)
	assert.Nil(t, stored[2].Ref)
}

func TestFeedNotifiesObservers(t *testing.T) {
	ctrl := gomock.NewController(t)
	observer := mocks.NewMockObserver(ctrl)

	gomock.InOrder(
		observer.EXPECT().ImportStarted(2),
		observer.EXPECT().ImportCompleted(2, feeder.Result{Inserted: 2}),
	)

	f, _ := newTestFeeder(t, observer)
	_, err := f.Feed(context.Background(), testTransactions())
	require.NoError(t, err)
}

func TestFeedRollsBackOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	observer := mocks.NewMockObserver(ctrl)

	f, db := newTestFeeder(t, observer)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `CREATE TRIGGER reject_nach BEFORE INSERT ON statement_transactions
		WHEN NEW.mode = 'nach' BEGIN SELECT RAISE(ABORT, 'rejected'); END`)
	require.NoError(t, err)

	gomock.InOrder(
		observer.EXPECT().ImportStarted(2),
		observer.EXPECT().ImportFailed(gomock.Any()),
	)

	result, err := f.Feed(ctx, testTransactions())
	assert.Error(t, err)
	assert.Equal(t, feeder.Result{}, result)

	stored, err := f.Stored(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestFeedIgnoresCancellation(t *testing.T) {
	f, _ := newTestFeeder(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := f.Feed(ctx, testTransactions())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Inserted)
}

func TestReclassifyUpdatesStoredRows(t *testing.T) {
	f, _ := newTestFeeder(t)
	ctx := context.Background()

	txns := testTransactions()[:1]
	_, err := f.Feed(ctx, txns)
	require.NoError(t, err)

	txns[0].Category = statement.CategoryShopping
	txns[0].Tags = []string{"amazon"}

	f.Reclassify = true
	result, err := f.Feed(ctx, txns)
	require.NoError(t, err)
	assert.Equal(t, feeder.Result{Inserted: 1}, result)

	stored, err := f.Stored(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, statement.CategoryShopping, stored[0].Category)
	assert.Equal(t, []string{"amazon"}, stored[0].Tags)
}

func TestMigrateIsRepeatable(t *testing.T) {
	f, _ := newTestFeeder(t)
	assert.NoError(t, f.Migrate(context.Background()))
}

func TestCustomTable(t *testing.T) {
	db, err := dbutils.CreateSQLiteClient(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	f := feeder.New(db, "idfc_transactions")
	require.NoError(t, f.Migrate(ctx))

	_, err = f.Feed(ctx, testTransactions())
	require.NoError(t, err)

	var count int
	require.NoError(t, db.NewRaw("SELECT count(*) FROM idfc_transactions").Scan(ctx, &count))
	assert.Equal(t, 2, count)
}
