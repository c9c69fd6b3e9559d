package students

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Writer emits the CSV reports. Files start with a UTF-8 BOM so they open
// cleanly in spreadsheet tools.
type Writer struct {
	filename string
	logger   *zap.Logger
}

// NewWriter creates a writer targeting the given file.
func NewWriter(filename string, logger *zap.Logger) *Writer {
	return &Writer{filename: filename, logger: logger}
}

// WriteForms writes the canonical forms report.
func (w *Writer) WriteForms(forms []StudentForm) error {
	if len(forms) == 0 {
		w.logger.Warn("no forms to write")
		return nil
	}
	rows := make([][]string, 0, len(forms))
	for _, form := range forms {
		rows = append(rows, form.Record())
	}
	return w.write(FormHeader, rows)
}

// WriteSkipped writes the audit report.
func (w *Writer) WriteSkipped(records []SkippedRecord) error {
	if len(records) == 0 {
		w.logger.Warn("no skipped records to write")
		return nil
	}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rec.Record())
	}
	return w.write(SkippedHeader, rows)
}

// write persists the rows, falling back once to a backup filename when the
// primary file cannot be written (commonly because it is held open by a
// spreadsheet application).
func (w *Writer) write(header []string, rows [][]string) error {
	var lastErr error
	for _, name := range []string{w.filename, backupFilename(w.filename)} {
		if err := writeCSV(name, header, rows); err != nil {
			lastErr = err
			w.logger.Warn("report write failed",
				zap.String("file", name),
				zap.Error(err))
			continue
		}
		w.logger.Info("report written",
			zap.String("file", name),
			zap.Int("rows", len(rows)))
		return nil
	}
	w.logger.Error("all report filenames failed, data not saved",
		zap.String("file", w.filename),
		zap.Error(lastErr))
	return lastErr
}

// backupFilename turns name.csv into name_backup.csv.
func backupFilename(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "_backup" + ext
}

func writeCSV(name string, header []string, rows [][]string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}

	if _, err := f.WriteString("\uFEFF"); err != nil {
		f.Close()
		return err
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		f.Close()
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
