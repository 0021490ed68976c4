package services

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/mybestodds/mybestodds-go/internal/models"
)

// Exporter renders finished forecast rows into the kit deliverable formats.
type Exporter struct {
	logger *logrus.Logger
}

func NewExporter(logger *logrus.Logger) *Exporter {
	return &Exporter{logger: logger}
}

var exportHeader = []string{
	"date", "session", "game", "candidate", "pattern",
	"confidence", "odds", "band", "play_type", "bonus", "bonus_strength",
	"legend", "source",
}

// WriteCSV streams rows as CSV with a fixed header.
func (e *Exporter) WriteCSV(w io.Writer, rows []models.ForecastRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range rows {
		record := exportRecord(row)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", row.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	if e.logger != nil {
		e.logger.WithField("rows", len(rows)).Debug("Exported forecast CSV")
	}
	return nil
}

// WriteJSON streams rows as a JSON array, indented for subscriber tooling.
func (e *Exporter) WriteJSON(w io.Writer, rows []models.ForecastRow) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("failed to encode forecast rows: %w", err)
	}
	return nil
}

// WriteExcel renders rows as a styled workbook, one sheet per run, with band
// emojis in a dedicated column the way the legacy kits presented them.
func (e *Exporter) WriteExcel(w io.Writer, rows []models.ForecastRow) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Forecast"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	header := append([]string{"tier"}, exportHeader...)
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to resolve header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = f.SetCellStyle(sheet, "A1", endCell, headerStyle)
	}

	for i, row := range rows {
		values := append([]string{row.Band.Emoji()}, exportRecord(row)...)
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to resolve cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write row %s: %w", row.ID, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	if e.logger != nil {
		e.logger.WithField("rows", len(rows)).Debug("Exported forecast workbook")
	}
	return nil
}

// WriteKitFiles renders one subscriber's ranked rows to disk in every
// deliverable format, under dir/<subscriberID>/. Returns the written paths.
// An empty row set writes nothing.
func (e *Exporter) WriteKitFiles(dir, subscriberID string, rows []models.ForecastRow) ([]string, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	kitDir := filepath.Join(dir, subscriberID)
	if err := os.MkdirAll(kitDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create kit directory: %w", err)
	}

	first := rows[0]
	base := fmt.Sprintf("%s_%s_%s",
		strings.ToLower(string(first.Game)),
		first.Date.Format("2006-01-02"),
		strings.ToLower(string(first.Session)),
	)

	writers := []struct {
		ext   string
		write func(io.Writer, []models.ForecastRow) error
	}{
		{"csv", e.WriteCSV},
		{"json", e.WriteJSON},
		{"xlsx", e.WriteExcel},
	}

	var paths []string
	for _, w := range writers {
		path := filepath.Join(kitDir, base+"."+w.ext)
		f, err := os.Create(path)
		if err != nil {
			return paths, fmt.Errorf("failed to create kit file %s: %w", path, err)
		}
		if err := w.write(f, rows); err != nil {
			f.Close()
			return paths, fmt.Errorf("failed to render kit file %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return paths, fmt.Errorf("failed to close kit file %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	if e.logger != nil {
		e.logger.WithFields(logrus.Fields{
			"subscriber": subscriberID,
			"files":      len(paths),
		}).Debug("Wrote forecast kit files")
	}
	return paths, nil
}

func exportRecord(row models.ForecastRow) []string {
	return []string{
		row.Date.Format("2006-01-02"),
		string(row.Session),
		string(row.Game),
		row.Candidate,
		row.Pattern,
		row.AdjustedConfidence.String(),
		row.OddsText,
		string(row.Band),
		string(row.PrimaryPlay),
		string(row.BOBSuggestion),
		string(row.BOBStrength),
		row.LegendText,
		row.CalculationSource,
	}
}
