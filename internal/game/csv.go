package game

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const csvTimeFormat = "2006-01-02 15:04:05"

var csvHeader = []string{"DATE_TIME", "WINNER", "WINNING_NUM"}

// CSVStore persists game outcomes to a CSV file, one row per finished game.
// The header row is written once when the file is created or empty.
type CSVStore struct {
	path   string
	logger *zap.Logger
}

// NewCSVStore creates a store backed by the file at path. Parent directories
// are created on first write.
func NewCSVStore(path string, logger *zap.Logger) *CSVStore {
	return &CSVStore{path: path, logger: logger}
}

// Append writes a single outcome to the end of the file.
func (s *CSVStore) Append(outcome Outcome) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create stats directory: %w", err)
		}
	}

	writeHeader := false
	if info, err := os.Stat(s.path); os.IsNotExist(err) || (err == nil && info.Size() == 0) {
		writeHeader = true
	}

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open stats file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if writeHeader {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("failed to write stats header: %w", err)
		}
	}

	row := []string{
		outcome.PlayedAt.Format(csvTimeFormat),
		string(outcome.Winner),
		strconv.Itoa(outcome.WinningNumber),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to write stats row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush stats file: %w", err)
	}

	s.logger.Debug("Recorded game outcome",
		zap.String("winner", string(outcome.Winner)),
		zap.Int("winning_number", outcome.WinningNumber),
	)

	return nil
}

// ReadAll loads every recorded outcome in file order.
func (s *CSVStore) ReadAll() ([]Outcome, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("could not find stats file in: %s: %w", s.path, err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read stats file: %w", err)
	}

	var outcomes []Outcome
	for i, row := range rows {
		if i == 0 {
			// header row
			continue
		}
		if len(row) != 3 {
			return nil, fmt.Errorf("malformed stats row %d: expected 3 fields, got %d", i, len(row))
		}

		playedAt, err := time.Parse(csvTimeFormat, row[0])
		if err != nil {
			return nil, fmt.Errorf("malformed stats row %d: %w", i, err)
		}
		winningNumber, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, fmt.Errorf("malformed stats row %d: %w", i, err)
		}

		outcomes = append(outcomes, Outcome{
			PlayedAt:      playedAt,
			Winner:        Winner(row[1]),
			WinningNumber: winningNumber,
		})
	}

	return outcomes, nil
}
