// Package sink serializes prediction records to delimited, structured or
// plain-text result files.
package sink

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/TADSTech/financial-news-classifier/internal/domain/entity"
	"github.com/TADSTech/financial-news-classifier/internal/domain/service"
)

// Output formats accepted by Save.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatTXT  = "txt"
)

// IsValidFormat reports whether name is a recognized output format.
func IsValidFormat(name string) bool {
	switch name {
	case FormatCSV, FormatJSON, FormatTXT:
		return true
	}
	return false
}

// Writer persists prediction records to result files.
type Writer struct {
	log *zap.Logger
}

// NewWriter creates a result writer.
func NewWriter(log *zap.Logger) *Writer {
	return &Writer{log: log}
}

// Save serializes records to path in the given format, creating parent
// directories as needed.
func (w *Writer) Save(records []*entity.Prediction, path, format string) error {
	if !IsValidFormat(format) {
		return fmt.Errorf("%w: output format %q (supported: csv, json, txt)",
			service.ErrUnsupportedFormat, format)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	var err error
	switch format {
	case FormatCSV:
		err = w.saveCSV(records, path)
	case FormatJSON:
		err = w.saveJSON(records, path)
	case FormatTXT:
		err = w.saveTXT(records, path)
	}
	if err != nil {
		return err
	}

	w.log.Info("Results saved",
		zap.String("path", path),
		zap.String("format", format),
		zap.Int("records", len(records)))
	return nil
}

// saveCSV writes text,sentiment,confidence rows, adding source and published
// columns when any record carries feed metadata.
func (w *Writer) saveCSV(records []*entity.Prediction, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	withMeta := false
	for _, r := range records {
		if r.HasMetadata() {
			withMeta = true
			break
		}
	}

	writer := csv.NewWriter(f)
	header := []string{"text", "sentiment", "confidence"}
	if withMeta {
		header = append(header, "source", "published")
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Text,
			string(r.Sentiment),
			strconv.FormatFloat(r.Confidence, 'f', 4, 64),
		}
		if withMeta {
			published := ""
			if !r.Published.IsZero() {
				published = r.Published.Format(time.RFC3339)
			}
			row = append(row, r.Source, published)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// saveJSON writes an indented array of records.
func (w *Writer) saveJSON(records []*entity.Prediction, path string) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// saveTXT writes human-readable blocks separated by a dashed rule.
func (w *Writer) saveTXT(records []*entity.Prediction, path string) error {
	var sb strings.Builder
	for _, r := range records {
		fmt.Fprintf(&sb, "Text: %s\n", r.Text)
		fmt.Fprintf(&sb, "Sentiment: %s\n", r.Sentiment)
		fmt.Fprintf(&sb, "Confidence: %.4f\n", r.Confidence)
		if r.Source != "" {
			fmt.Fprintf(&sb, "Source: %s\n", r.Source)
		}
		if !r.Published.IsZero() {
			fmt.Fprintf(&sb, "Published: %s\n", r.Published.Format(time.RFC3339))
		}
		sb.WriteString(strings.Repeat("-", 80) + "\n")
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
