// Package source normalizes input texts from files and syndication feeds
// into flat string sequences for the classifier.
package source

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/TADSTech/financial-news-classifier/internal/domain/service"
)

// commonTextColumns are tried in order when no CSV column is specified.
var commonTextColumns = []string{"text", "content", "title", "sentence", "message", "body"}

// supportedExtensions maps readable file extensions to true.
var supportedExtensions = map[string]bool{
	".csv":  true,
	".json": true,
	".txt":  true,
	".md":   true,
}

// FileLoader reads texts from delimited, structured or line-oriented files.
type FileLoader struct {
	log *zap.Logger
}

// NewFileLoader creates a file loader.
func NewFileLoader(log *zap.Logger) *FileLoader {
	return &FileLoader{log: log}
}

// Load reads texts from path, dispatching by extension. column selects the
// CSV column; when empty, common text-bearing column names are tried before
// falling back to the first column. Blank texts are dropped.
func (l *FileLoader) Load(path, column string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: file not found: %s", service.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", service.ErrNotFound, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: path is not a file: %s", service.ErrInvalidInput, path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var texts []string

	switch ext {
	case ".csv":
		texts, err = l.loadCSV(path, column)
	case ".json":
		texts, err = l.loadJSON(path)
	case ".txt", ".md":
		texts, err = l.loadLines(path)
	default:
		return nil, fmt.Errorf("%w: %s (supported: CSV, JSON, TXT, MD)",
			service.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	texts = dropBlank(texts)
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w in %s", service.ErrEmptyInput, path)
	}

	l.log.Info("Loaded texts from file",
		zap.String("path", path),
		zap.Int("count", len(texts)))
	return texts, nil
}

// Validate reports whether path looks loadable, with a human-readable reason
// when it does not. It never returns an error.
func (l *FileLoader) Validate(path string) (bool, string) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Sprintf("file does not exist: %s", path)
	}
	if info.IsDir() {
		return false, fmt.Sprintf("path is not a file: %s", path)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		return false, fmt.Sprintf("unsupported format: %s", ext)
	}
	if info.Size() == 0 {
		return false, "file is empty"
	}
	return true, "file is valid"
}

// loadCSV reads one column of a headered CSV file.
func (l *FileLoader) loadCSV(path, column string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrNotFound, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parsing CSV: %v", service.ErrInvalidInput, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: CSV file is empty", service.ErrEmptyInput)
	}

	header := rows[0]
	colIdx, err := pickColumn(header, column)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if colIdx < len(row) {
			texts = append(texts, row[colIdx])
		}
	}
	return texts, nil
}

// pickColumn resolves the text column index: explicit name first, then the
// common names, then column zero.
func pickColumn(header []string, column string) (int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	if column != "" {
		if i, ok := index[column]; ok {
			return i, nil
		}
		return 0, fmt.Errorf("%w: column %q not found, available: %s",
			service.ErrNotFound, column, strings.Join(header, ", "))
	}
	for _, name := range commonTextColumns {
		if i, ok := index[name]; ok {
			return i, nil
		}
	}
	return 0, nil
}

// loadJSON accepts a bare array of strings/numbers/objects-with-text, a
// single object with a text field, an object with an items array, or any
// other object by stringifying its values.
func (l *FileLoader) loadJSON(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrNotFound, err)
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("%w: parsing JSON: %v", service.ErrInvalidInput, err)
	}

	switch value := decoded.(type) {
	case []any:
		return jsonItemsToTexts(value), nil
	case map[string]any:
		if text, ok := value["text"]; ok {
			return []string{stringify(text)}, nil
		}
		if items, ok := value["items"].([]any); ok {
			return jsonItemsToTexts(items), nil
		}
		texts := make([]string, 0, len(value))
		for _, v := range value {
			texts = append(texts, stringify(v))
		}
		return texts, nil
	default:
		return nil, fmt.Errorf("%w: invalid JSON structure", service.ErrInvalidInput)
	}
}

// jsonItemsToTexts extracts the text field of object items and stringifies
// everything else.
func jsonItemsToTexts(items []any) []string {
	texts := make([]string, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			if text, ok := obj["text"]; ok {
				texts = append(texts, stringify(text))
				continue
			}
		}
		texts = append(texts, stringify(item))
	}
	return texts
}

// loadLines reads one text per non-empty line.
func (l *FileLoader) loadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrNotFound, err)
	}
	return strings.Split(string(data), "\n"), nil
}

func stringify(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", value)
	}
}

func dropBlank(texts []string) []string {
	kept := make([]string, 0, len(texts))
	for _, t := range texts {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return kept
}
