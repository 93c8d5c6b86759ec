package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/TADSTech/financial-news-classifier/internal/domain/entity"
	"github.com/TADSTech/financial-news-classifier/internal/domain/service"
)

// TextSource loads texts from a local file.
type TextSource interface {
	Load(path, column string) ([]string, error)
	Validate(path string) (bool, string)
}

// FeedSource fetches entries from a syndication feed.
type FeedSource interface {
	Fetch(ctx context.Context, url string, max int) ([]entity.FeedEntry, error)
	Validate(ctx context.Context, url string) bool
}

// ResultSink persists prediction records.
type ResultSink interface {
	Save(records []*entity.Prediction, path, format string) error
}

// BatchInput describes a batch-file classification request.
type BatchInput struct {
	Path       string
	Column     string
	BatchSize  int
	OutputPath string
	Format     string
	Device     string
}

// FeedInput describes an RSS classification request.
type FeedInput struct {
	URL        string
	MaxEntries int
	BatchSize  int
	OutputPath string
	Format     string
	Device     string
}

// ClassifyUsecase wires text sources, the inference engine and the result
// sink together for every presentation shell.
type ClassifyUsecase interface {
	ClassifyText(ctx context.Context, text, device string) (*entity.Prediction, error)
	ClassifyFile(ctx context.Context, input *BatchInput) ([]*entity.Prediction, error)
	ClassifyFeed(ctx context.Context, input *FeedInput) ([]*entity.Prediction, error)
	ValidateFeed(ctx context.Context, url string) bool
	EngineInfo() service.EngineInfo
}

type classifyUsecase struct {
	classifier service.Classifier
	files      TextSource
	feeds      FeedSource
	results    ResultSink
	log        *zap.Logger
}

// NewClassifyUsecase creates the classification usecase.
func NewClassifyUsecase(
	classifier service.Classifier,
	files TextSource,
	feeds FeedSource,
	results ResultSink,
	log *zap.Logger,
) ClassifyUsecase {
	return &classifyUsecase{
		classifier: classifier,
		files:      files,
		feeds:      feeds,
		results:    results,
		log:        log,
	}
}

func (u *classifyUsecase) ClassifyText(ctx context.Context, text, device string) (*entity.Prediction, error) {
	if err := u.applyDevice(device); err != nil {
		return nil, err
	}
	return u.classifier.Classify(ctx, text)
}

func (u *classifyUsecase) ClassifyFile(ctx context.Context, input *BatchInput) ([]*entity.Prediction, error) {
	if err := u.validateOutput(input.OutputPath, input.Format); err != nil {
		return nil, err
	}
	if err := u.applyDevice(input.Device); err != nil {
		return nil, err
	}

	texts, err := u.files.Load(input.Path, input.Column)
	if err != nil {
		return nil, err
	}

	records, err := u.classifier.ClassifyBatch(ctx, texts, input.BatchSize)
	if err != nil {
		return nil, err
	}

	if input.OutputPath != "" {
		if err := u.results.Save(records, input.OutputPath, input.Format); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (u *classifyUsecase) ClassifyFeed(ctx context.Context, input *FeedInput) ([]*entity.Prediction, error) {
	if err := u.validateOutput(input.OutputPath, input.Format); err != nil {
		return nil, err
	}
	if err := u.applyDevice(input.Device); err != nil {
		return nil, err
	}

	entries, err := u.feeds.Fetch(ctx, input.URL, input.MaxEntries)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []*entity.Prediction{}, nil
	}

	titles := make([]string, len(entries))
	for i, entry := range entries {
		titles[i] = entry.Title
	}

	records, err := u.classifier.ClassifyBatch(ctx, titles, input.BatchSize)
	if err != nil {
		return nil, err
	}

	// Titles are pre-filtered by the feed adapter, so records align with
	// entries one to one.
	if len(records) != len(entries) {
		return nil, fmt.Errorf("%w: %d predictions for %d feed entries",
			service.ErrInference, len(records), len(entries))
	}
	for i, record := range records {
		record.Source = entries[i].Source
		record.Published = entries[i].Published
	}

	if input.OutputPath != "" {
		if err := u.results.Save(records, input.OutputPath, input.Format); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (u *classifyUsecase) ValidateFeed(ctx context.Context, url string) bool {
	return u.feeds.Validate(ctx, url)
}

func (u *classifyUsecase) EngineInfo() service.EngineInfo {
	return u.classifier.Info()
}

// applyDevice forwards a non-empty device override to the engine.
func (u *classifyUsecase) applyDevice(device string) error {
	if device == "" {
		return nil
	}
	return u.classifier.SetDevice(device)
}

// validFormats mirrors what the sink can serialize, checked up front so a
// bad --format fails before any inference happens.
var validFormats = map[string]bool{"csv": true, "json": true, "txt": true}

// validateOutput rejects unknown output formats before any work happens.
func (u *classifyUsecase) validateOutput(path, format string) error {
	if path == "" {
		return nil
	}
	if !validFormats[format] {
		return fmt.Errorf("%w: output format %q (supported: csv, json, txt)",
			service.ErrUnsupportedFormat, format)
	}
	return nil
}
