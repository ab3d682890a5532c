package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/miketheofan/dispatchlab/pkg/database"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	logger := zap.NewNop()
	db, err := database.New(database.Config{
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.NewMigrator(db, logger).RunMigrations())

	return NewRepository(db.DB, logger)
}

func TestRepository_RecordAndListRecent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := &Record{
		Kind:         KindPayment,
		Discriminant: "CREDIT_CARD",
		Identifier:   "TXN-AAAA1111",
		Status:       "COMPLETED",
		Amount:       "100",
		Fee:          "3.2",
		Currency:     "EUR",
		CreatedAt:    time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Record(ctx, first))
	assert.NotZero(t, first.ID)

	second := &Record{
		Kind:         KindNotification,
		Discriminant: "SMS",
		Identifier:   "NOTIF-BBBB2222",
		Status:       "SENT",
		Fee:          "0.05",
		Recipient:    "+306912345678",
		CreatedAt:    time.Date(2026, 8, 1, 11, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Record(ctx, second))

	all, err := repo.ListRecent(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "NOTIF-BBBB2222", all[0].Identifier, "newest record first")

	payments, err := repo.ListRecent(ctx, KindPayment, 10)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "CREDIT_CARD", payments[0].Discriminant)
	assert.Equal(t, "3.2", payments[0].Fee)
}

func TestRepository_RecordStampsMissingTimestamp(t *testing.T) {
	repo := newTestRepository(t)

	rec := &Record{
		Kind:         KindPayment,
		Discriminant: "PAYPAL",
		Status:       "FAILED",
		ErrorMessage: "Insufficient funds",
	}
	require.NoError(t, repo.Record(context.Background(), rec))
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestRepository_CountByStatus(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, rec := range []*Record{
		{Kind: KindPayment, Discriminant: "CREDIT_CARD", Status: "COMPLETED"},
		{Kind: KindPayment, Discriminant: "PAYPAL", Status: "COMPLETED"},
		{Kind: KindPayment, Discriminant: "CRYPTO", Status: "FAILED"},
		{Kind: KindNotification, Discriminant: "EMAIL", Status: "SENT"},
	} {
		require.NoError(t, repo.Record(ctx, rec))
	}

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)

	byKey := make(map[string]int64)
	for _, c := range counts {
		byKey[c.Kind+"/"+c.Status] = c.Count
	}

	assert.Equal(t, int64(2), byKey[KindPayment+"/COMPLETED"])
	assert.Equal(t, int64(1), byKey[KindPayment+"/FAILED"])
	assert.Equal(t, int64(1), byKey[KindNotification+"/SENT"])
}
