package model

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/TADSTech/financial-news-classifier/internal/domain/entity"
	"github.com/TADSTech/financial-news-classifier/internal/domain/service"
	"github.com/TADSTech/financial-news-classifier/internal/infrastructure/config"
)

// Artifact file names expected inside a model directory.
const (
	onnxModelFile    = "model.onnx"
	tokenizerFile    = "tokenizer.json"
	labelMappingFile = "label_mapping.json"
)

// defaultHubURL is the hub serving raw model artifacts.
const defaultHubURL = "https://huggingface.co"

// Source tells the engine where to load model artifacts from.
type Source struct {
	// Path is a local directory when Local is true, otherwise the hub
	// repository identifier to download.
	Path  string
	Local bool
}

// Resolver decides between a locally cached model directory and the remote
// hub repository, and locates the label-mapping side artifact.
type Resolver struct {
	cfg    config.ModelConfig
	log    *zap.Logger
	hubURL string
	client *http.Client
}

// NewResolver creates a resolver for the configured model.
func NewResolver(cfg config.ModelConfig, log *zap.Logger) *Resolver {
	return &Resolver{
		cfg:    cfg,
		log:    log,
		hubURL: defaultHubURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Resolve prefers the configured local directory when it holds the minimum
// descriptor files, otherwise falls back to the hub repository identifier.
func (r *Resolver) Resolve() Source {
	if r.hasLocalModel() {
		r.log.Info("Using local model", zap.String("dir", r.cfg.LocalDir))
		return Source{Path: r.cfg.LocalDir, Local: true}
	}
	r.log.Info("Using hub model", zap.String("repo", r.cfg.ID))
	return Source{Path: r.cfg.ID, Local: false}
}

// hasLocalModel reports whether the local directory contains model weights
// and a tokenizer. The weights may live at the directory root or under the
// conventional onnx/ subdirectory.
func (r *Resolver) hasLocalModel() bool {
	if r.cfg.LocalDir == "" {
		return false
	}
	if info, err := os.Stat(r.cfg.LocalDir); err != nil || !info.IsDir() {
		return false
	}
	if !fileExists(filepath.Join(r.cfg.LocalDir, tokenizerFile)) {
		return false
	}
	return fileExists(filepath.Join(r.cfg.LocalDir, onnxModelFile)) ||
		fileExists(filepath.Join(r.cfg.LocalDir, "onnx", onnxModelFile))
}

// LabelMapping loads the class-index to sentiment-name table for a resolved
// model. A label_mapping.json inside the model directory always wins. A local
// model without one is treated as an incomplete installation (local state is
// complete or absent, never partial); for hub models the file is fetched from
// the repository and cached next to the model.
func (r *Resolver) LabelMapping(src Source, modelDir string) (map[int]entity.Sentiment, error) {
	path := filepath.Join(modelDir, labelMappingFile)

	if fileExists(path) {
		return readLabelMapping(path)
	}

	if src.Local {
		return nil, fmt.Errorf("%w: local model dir %s is missing %s",
			service.ErrConfiguration, modelDir, labelMappingFile)
	}

	if err := r.fetchLabelMapping(src.Path, path); err != nil {
		return nil, err
	}
	return readLabelMapping(path)
}

// fetchLabelMapping downloads the label mapping from the hub repository and
// writes it to dst.
func (r *Resolver) fetchLabelMapping(repoID, dst string) error {
	url := fmt.Sprintf("%s/%s/resolve/main/%s", r.hubURL, repoID, labelMappingFile)
	resp, err := r.client.Get(url)
	if err != nil {
		return fmt.Errorf("%w: fetching %s: %v", service.ErrConfiguration, labelMappingFile, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s not found in repository %s",
			service.ErrNotFound, labelMappingFile, repoID)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: hub returned status %d for %s",
			service.ErrConfiguration, resp.StatusCode, labelMappingFile)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", service.ErrConfiguration, labelMappingFile, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("%w: %v", service.ErrConfiguration, err)
	}
	if err := os.WriteFile(dst, body, 0o644); err != nil {
		return fmt.Errorf("%w: caching %s: %v", service.ErrConfiguration, labelMappingFile, err)
	}

	r.log.Info("Fetched label mapping from hub", zap.String("repo", repoID))
	return nil
}

// readLabelMapping parses a {"0": "Bearish", ...} file into the index table.
func readLabelMapping(path string) (map[int]entity.Sentiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", service.ErrConfiguration, path, err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", service.ErrConfiguration, path, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s contains no labels", service.ErrConfiguration, path)
	}

	mapping := make(map[int]entity.Sentiment, len(raw))
	for idxStr, name := range raw {
		idx, err := strconv.Atoi(idxStr)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid class index %q in %s",
				service.ErrConfiguration, idxStr, path)
		}
		sentiment := entity.Sentiment(name)
		if !sentiment.IsValid() {
			return nil, fmt.Errorf("%w: unknown sentiment label %q in %s",
				service.ErrConfiguration, name, path)
		}
		mapping[idx] = sentiment
	}
	return mapping, nil
}

// sortedLabels returns the mapped names in class-index order.
func sortedLabels(mapping map[int]entity.Sentiment) []string {
	indices := make([]int, 0, len(mapping))
	for idx := range mapping {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	labels := make([]string, 0, len(indices))
	for _, idx := range indices {
		labels = append(labels, string(mapping[idx]))
	}
	return labels
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
