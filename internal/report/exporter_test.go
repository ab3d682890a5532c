package report

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/miketheofan/dispatchlab/internal/audit"
)

type mockStore struct {
	records []*audit.Record
	counts  []audit.StatusCount
}

func (m *mockStore) ListRecent(ctx context.Context, kind string, limit int) ([]*audit.Record, error) {
	return m.records, nil
}

func (m *mockStore) CountByStatus(ctx context.Context) ([]audit.StatusCount, error) {
	return m.counts, nil
}

func TestExporter_WriteReport(t *testing.T) {
	store := &mockStore{
		records: []*audit.Record{
			{
				ID:           1,
				Kind:         audit.KindPayment,
				Discriminant: "CREDIT_CARD",
				Identifier:   "TXN-AAAA1111",
				Status:       "COMPLETED",
				Amount:       "100",
				Fee:          "3.2",
				Currency:     "EUR",
				CreatedAt:    time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
			},
		},
		counts: []audit.StatusCount{
			{Kind: audit.KindPayment, Status: "COMPLETED", Count: 1},
		},
	}

	outputPath := filepath.Join(t.TempDir(), "report.xlsx")
	exporter := NewExporter(store, zap.NewNop())

	require.NoError(t, exporter.WriteReport(context.Background(), outputPath))

	f, err := excelize.OpenFile(outputPath)
	require.NoError(t, err)
	defer f.Close()

	assert.Contains(t, f.GetSheetList(), "Summary")
	assert.Contains(t, f.GetSheetList(), "Records")

	kind, err := f.GetCellValue("Summary", "A2")
	require.NoError(t, err)
	assert.Equal(t, audit.KindPayment, kind)

	identifier, err := f.GetCellValue("Records", "D2")
	require.NoError(t, err)
	assert.Equal(t, "TXN-AAAA1111", identifier)
}
