package service

import (
	"context"

	"github.com/TADSTech/financial-news-classifier/internal/domain/entity"
)

// EngineInfo describes the currently configured model backend.
type EngineInfo struct {
	ModelID   string   `json:"model_id"`
	Source    string   `json:"source"` // "local" or "hub"
	Device    string   `json:"device"`
	MaxTokens int      `json:"max_tokens"`
	Labels    []string `json:"labels"`
	Loaded    bool     `json:"loaded"`
	Runtime   string   `json:"runtime"`
}

// Classifier defines the interface for sentiment classification of financial text.
type Classifier interface {
	// Classify classifies a single text.
	Classify(ctx context.Context, text string) (*entity.Prediction, error)

	// ClassifyBatch classifies texts in contiguous chunks of batchSize.
	// Blank texts are dropped; output order matches the order of the
	// surviving inputs. A non-positive batchSize selects the default.
	ClassifyBatch(ctx context.Context, texts []string, batchSize int) ([]*entity.Prediction, error)

	// SetDevice selects the compute device ("cpu" or "cuda") for the next
	// model load. Already-loaded state is not moved.
	SetDevice(device string) error

	// Info reports the model identifier, source and device in use.
	Info() EngineInfo
}
