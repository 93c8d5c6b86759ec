package model

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/options"
	backends "github.com/knights-analytics/hugot/pipelineBackends"
	"github.com/knights-analytics/hugot/pipelines"
	"go.uber.org/zap"

	"github.com/TADSTech/financial-news-classifier/internal/domain/entity"
	"github.com/TADSTech/financial-news-classifier/internal/domain/service"
	"github.com/TADSTech/financial-news-classifier/internal/infrastructure/config"
)

// DefaultBatchSize is the chunk size used when the caller does not specify
// one. Chunking is purely a throughput optimization for the runtime's
// vectorized execution; no semantics depend on chunk boundaries.
const DefaultBatchSize = 32

const (
	DeviceCPU  = "cpu"
	DeviceCUDA = "cuda"
)

// loadKey identifies one loaded model instance. A Load or lazy load with a
// different key tears down the previous instance and loads fresh.
type loadKey struct {
	modelID string
	device  string
}

// Engine runs sentiment classification through an ONNX Runtime
// text-classification pipeline. It is constructed once at process start and
// shared by every consumer; the mutex makes lazy loading safe when the HTTP
// shell serves concurrent requests.
type Engine struct {
	cfg      config.ModelConfig
	log      *zap.Logger
	resolver *Resolver

	mu       sync.Mutex
	device   string // device for the next load
	loaded   bool
	key      loadKey
	source   Source
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
	labels   map[int]entity.Sentiment
}

var _ service.Classifier = (*Engine)(nil)

// NewEngine creates an unloaded engine. The model is loaded on the first
// classification request or an explicit Load call.
func NewEngine(cfg config.ModelConfig, log *zap.Logger) *Engine {
	device := cfg.Device
	if device == "" {
		device = DeviceCPU
	}
	return &Engine{
		cfg:      cfg,
		log:      log,
		resolver: NewResolver(cfg, log),
		device:   device,
	}
}

// SetDevice selects the compute device for the next load. Already-loaded
// state is not moved; the key mismatch triggers a reload on the next request.
func (e *Engine) SetDevice(device string) error {
	if device != DeviceCPU && device != DeviceCUDA {
		return fmt.Errorf("%w: device must be %q or %q, got %q",
			service.ErrInvalidInput, DeviceCPU, DeviceCUDA, device)
	}
	e.mu.Lock()
	e.device = device
	e.mu.Unlock()
	return nil
}

// Load resolves the model source and loads model, tokenizer and label
// mapping. Loading is keyed by (model identifier, device): a matching loaded
// instance makes Load a no-op, a mismatch reloads cleanly. On failure the
// engine remains unloaded with no partial state retained.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadLocked(ctx)
}

func (e *Engine) loadLocked(ctx context.Context) error {
	key := loadKey{modelID: e.cfg.ID, device: e.device}
	if e.loaded && e.key == key {
		return nil
	}
	if e.loaded {
		e.log.Info("Model key changed, reloading",
			zap.String("device", key.device))
		e.teardownLocked()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	src := e.resolver.Resolve()

	modelDir := src.Path
	if !src.Local {
		dir, err := hugot.DownloadModel(src.Path, e.cfg.CacheDir, hugot.NewDownloadOptions())
		if err != nil {
			return fmt.Errorf("%w: downloading model %s: %v",
				service.ErrConfiguration, src.Path, err)
		}
		modelDir = dir
	}

	labels, err := e.resolver.LabelMapping(src, modelDir)
	if err != nil {
		return err
	}

	var sessionOpts []options.WithOption
	if e.device == DeviceCUDA {
		sessionOpts = append(sessionOpts, options.WithCuda(map[string]string{
			"device_id": "0",
		}))
	}
	session, err := hugot.NewORTSession(sessionOpts...)
	if err != nil {
		return fmt.Errorf("%w: creating runtime session: %v", service.ErrConfiguration, err)
	}

	pipelineCfg := hugot.TextClassificationConfig{
		ModelPath: modelDir,
		Name:      "financial-sentiment",
		Options: []backends.PipelineOption[*pipelines.TextClassificationPipeline]{
			pipelines.WithMultiLabel(),
			pipelines.WithSoftmax(),
		},
	}
	pipeline, err := hugot.NewPipeline(session, pipelineCfg)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			e.log.Warn("Failed to destroy session after load failure", zap.Error(destroyErr))
		}
		return fmt.Errorf("%w: building classification pipeline: %v", service.ErrConfiguration, err)
	}

	e.session = session
	e.pipeline = pipeline
	e.labels = labels
	e.source = src
	e.key = key
	e.loaded = true

	e.log.Info("Model loaded",
		zap.String("model", e.cfg.ID),
		zap.Bool("local", src.Local),
		zap.String("device", e.device),
		zap.Strings("labels", sortedLabels(labels)))
	return nil
}

// Classify classifies a single text.
func (e *Engine) Classify(ctx context.Context, text string) (*entity.Prediction, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: text must be a non-empty string", service.ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.loadLocked(ctx); err != nil {
		return nil, err
	}

	preds, err := e.runChunk([]string{trimmed})
	if err != nil {
		return nil, err
	}
	return preds[0], nil
}

// ClassifyBatch classifies texts in contiguous chunks. Blank entries are
// dropped up front and not reported; output order matches the order of the
// surviving inputs. One failed chunk aborts the whole call.
func (e *Engine) ClassifyBatch(ctx context.Context, texts []string, batchSize int) ([]*entity.Prediction, error) {
	filtered := filterTexts(texts)
	if len(filtered) == 0 {
		return nil, fmt.Errorf("%w: no non-empty texts to classify", service.ErrInvalidInput)
	}
	if batchSize <= 0 {
		batchSize = e.cfg.BatchSize
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.loadLocked(ctx); err != nil {
		return nil, err
	}

	results := make([]*entity.Prediction, 0, len(filtered))
	for start := 0; start < len(filtered); start += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+batchSize, len(filtered))
		preds, err := e.runChunk(filtered[start:end])
		if err != nil {
			return nil, err
		}
		results = append(results, preds...)
	}
	return results, nil
}

// runChunk executes one forward pass over texts. Callers hold the mutex.
func (e *Engine) runChunk(texts []string) ([]*entity.Prediction, error) {
	output, err := e.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrInference, err)
	}
	if len(output.ClassificationOutputs) != len(texts) {
		return nil, fmt.Errorf("%w: runtime returned %d results for %d inputs",
			service.ErrInference, len(output.ClassificationOutputs), len(texts))
	}

	preds := make([]*entity.Prediction, len(texts))
	for i, row := range output.ClassificationOutputs {
		pred, err := e.toPrediction(texts[i], row)
		if err != nil {
			return nil, err
		}
		preds[i] = pred
	}
	return preds, nil
}

// toPrediction converts one row of per-class scores into a Prediction:
// argmax class as sentiment, its probability mass as confidence, and every
// class probability rounded to 4 decimals.
func (e *Engine) toPrediction(text string, row []pipelines.ClassificationOutput) (*entity.Prediction, error) {
	if len(row) == 0 {
		return nil, fmt.Errorf("%w: runtime returned no class scores", service.ErrInference)
	}

	scores := make(map[entity.Sentiment]float64, len(row))
	var best entity.Sentiment
	bestScore := math.Inf(-1)

	for _, class := range row {
		sentiment, err := e.toSentiment(class.Label)
		if err != nil {
			return nil, err
		}
		score := float64(class.Score)
		scores[sentiment] = round4(score)
		if score > bestScore {
			bestScore = score
			best = sentiment
		}
	}

	return &entity.Prediction{
		Text:       text,
		Sentiment:  best,
		Confidence: bestScore,
		Scores:     scores,
	}, nil
}

// toSentiment resolves a runtime class label against the label mapping.
// Models exported without explicit names emit placeholder LABEL_<i> classes,
// which is where the side-artifact table comes in.
func (e *Engine) toSentiment(label string) (entity.Sentiment, error) {
	if s := entity.Sentiment(label); s.IsValid() {
		return s, nil
	}
	if idxStr, ok := strings.CutPrefix(label, "LABEL_"); ok {
		if idx, err := strconv.Atoi(idxStr); err == nil {
			if s, ok := e.labels[idx]; ok {
				return s, nil
			}
		}
	}
	return "", fmt.Errorf("%w: class %q has no label mapping", service.ErrInference, label)
}

// Info reports the resolved model source and runtime configuration.
func (e *Engine) Info() service.EngineInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	info := service.EngineInfo{
		ModelID:   e.cfg.ID,
		Device:    e.device,
		MaxTokens: e.cfg.MaxTokens,
		Loaded:    e.loaded,
		Runtime:   "onnxruntime",
	}
	if e.loaded {
		if e.source.Local {
			info.Source = "local"
		} else {
			info.Source = "hub"
		}
		info.Labels = sortedLabels(e.labels)
	}
	return info
}

// Close releases the runtime session. Safe to call multiple times.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return nil
	}
	e.teardownLocked()
	return nil
}

// teardownLocked destroys the session and clears every loaded reference.
// Callers hold the mutex.
func (e *Engine) teardownLocked() {
	if e.session != nil {
		if err := e.session.Destroy(); err != nil {
			e.log.Warn("Failed to destroy runtime session", zap.Error(err))
		}
	}
	e.session = nil
	e.pipeline = nil
	e.labels = nil
	e.loaded = false
	e.key = loadKey{}
}

// filterTexts trims every entry and drops the blank ones, preserving order.
func filterTexts(texts []string) []string {
	filtered := make([]string, 0, len(texts))
	for _, t := range texts {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			filtered = append(filtered, trimmed)
		}
	}
	return filtered
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
