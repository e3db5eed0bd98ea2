// Package classifier loads the pretrained department-routing artifacts
// and exposes the single classify(text) -> department capability the
// intake pipeline consumes. Artifacts are loaded once at startup and
// shared read-only across requests; there is no reload or hot-swap.
package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/spec-kit/civic-complaints/internal/config"
)

// Classifier maps complaint text to a department name.
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// ModelClassifier chains the embedder and the linear model.
type ModelClassifier struct {
	embedder *Embedder
	model    *LinearModel
}

// Load reads both artifacts. Callers treat an error as fatal: serving
// requests against missing model files is worse than refusing to
// start.
func Load(cfg config.ModelConfig) (*ModelClassifier, error) {
	embedder, err := LoadEmbedder(cfg.EmbedderPath)
	if err != nil {
		return nil, fmt.Errorf("load embedder: %w", err)
	}
	model, err := LoadLinearModel(cfg.ClassifierPath, embedder.Dim())
	if err != nil {
		return nil, fmt.Errorf("load classifier: %w", err)
	}
	return New(embedder, model), nil
}

// New builds a classifier from already-loaded artifacts.
func New(embedder *Embedder, model *LinearModel) *ModelClassifier {
	return &ModelClassifier{embedder: embedder, model: model}
}

// Departments returns the label vocabulary.
func (c *ModelClassifier) Departments() []string {
	return c.model.Labels()
}

// Classify embeds the text, predicts a label index and decodes it to a
// department name. Embedding and prediction are pure functions of the
// text, so repeated calls with identical input return the same
// department.
func (c *ModelClassifier) Classify(_ context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty classifier input")
	}

	embedding := c.embedder.Embed(text)
	index, err := c.model.Predict(embedding)
	if err != nil {
		return "", fmt.Errorf("predict: %w", err)
	}
	department, err := c.model.Decode(index)
	if err != nil {
		return "", fmt.Errorf("decode label: %w", err)
	}
	return department, nil
}
