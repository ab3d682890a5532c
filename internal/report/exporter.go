// Package report exports recorded dispatch outcomes to Excel workbooks for
// offline review.
package report

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/miketheofan/dispatchlab/internal/audit"
)

const (
	summarySheet = "Summary"
	recordsSheet = "Records"

	// Caps the Records sheet so a long-running instance cannot produce an
	// unbounded workbook.
	maxExportedRecords = 1000
)

// Store is the slice of the audit repository the exporter needs.
type Store interface {
	ListRecent(ctx context.Context, kind string, limit int) ([]*audit.Record, error)
	CountByStatus(ctx context.Context) ([]audit.StatusCount, error)
}

// Exporter builds transaction report workbooks from the audit store.
type Exporter struct {
	store  Store
	logger *zap.Logger
}

// NewExporter creates a new report exporter
func NewExporter(store Store, logger *zap.Logger) *Exporter {
	return &Exporter{
		store:  store,
		logger: logger,
	}
}

// WriteReport writes the summary and record sheets to outputPath.
func (e *Exporter) WriteReport(ctx context.Context, outputPath string) error {
	e.logger.Info("Generating transaction report", zap.String("path", outputPath))

	counts, err := e.store.CountByStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to load status counts: %w", err)
	}

	records, err := e.store.ListRecent(ctx, "", maxExportedRecords)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := e.fillSummarySheet(f, counts); err != nil {
		return err
	}
	if err := e.fillRecordsSheet(f, records); err != nil {
		return err
	}

	// Drop the default sheet excelize creates.
	_ = f.DeleteSheet("Sheet1")

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	e.logger.Info("Transaction report written",
		zap.String("path", outputPath),
		zap.Int("records", len(records)))
	return nil
}

func (e *Exporter) fillSummarySheet(f *excelize.File, counts []audit.StatusCount) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	headers := []string{"Kind", "Status", "Count"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(summarySheet, cell, h); err != nil {
			return fmt.Errorf("failed to write summary header: %w", err)
		}
	}

	for row, c := range counts {
		values := []interface{}{c.Kind, c.Status, c.Count}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(summarySheet, cell, v); err != nil {
				return fmt.Errorf("failed to write summary row: %w", err)
			}
		}
	}

	return nil
}

func (e *Exporter) fillRecordsSheet(f *excelize.File, records []*audit.Record) error {
	if _, err := f.NewSheet(recordsSheet); err != nil {
		return fmt.Errorf("failed to create records sheet: %w", err)
	}

	headers := []string{
		"ID", "Kind", "Discriminant", "Identifier", "Status",
		"Amount", "Fee", "Currency", "Recipient", "Error", "Created At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(recordsSheet, cell, h); err != nil {
			return fmt.Errorf("failed to write records header: %w", err)
		}
	}

	for row, rec := range records {
		values := []interface{}{
			rec.ID,
			rec.Kind,
			rec.Discriminant,
			rec.Identifier,
			rec.Status,
			rec.Amount,
			rec.Fee,
			rec.Currency,
			rec.Recipient,
			rec.ErrorMessage,
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(recordsSheet, cell, v); err != nil {
				return fmt.Errorf("failed to write record row: %w", err)
			}
		}
	}

	return nil
}
