package classifier

import (
	"encoding/json"
	"fmt"
	"os"
)

// LinearModel is a pretrained linear classification head over
// embeddings, paired with the label vocabulary it was trained against.
// Decoding must use exactly that vocabulary; an index outside it is a
// classification failure, never a silent default.
type LinearModel struct {
	weights    [][]float64
	intercepts []float64
	labels     []string
}

type classifierArtifact struct {
	Labels     []string    `json:"labels"`
	Weights    [][]float64 `json:"weights"`
	Intercepts []float64   `json:"intercepts"`
}

// LoadLinearModel reads the classifier artifact and validates its
// shape against the given embedding dimension.
func LoadLinearModel(path string, dim int) (*LinearModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read classifier artifact: %w", err)
	}

	var artifact classifierArtifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, fmt.Errorf("decode classifier artifact %s: %w", path, err)
	}
	if len(artifact.Labels) == 0 {
		return nil, fmt.Errorf("classifier artifact %s: empty label vocabulary", path)
	}
	if len(artifact.Weights) != len(artifact.Labels) {
		return nil, fmt.Errorf("classifier artifact %s: %d weight rows for %d labels",
			path, len(artifact.Weights), len(artifact.Labels))
	}
	if len(artifact.Intercepts) != len(artifact.Labels) {
		return nil, fmt.Errorf("classifier artifact %s: %d intercepts for %d labels",
			path, len(artifact.Intercepts), len(artifact.Labels))
	}
	for i, row := range artifact.Weights {
		if len(row) != dim {
			return nil, fmt.Errorf("classifier artifact %s: weight row %d has %d components, want %d",
				path, i, len(row), dim)
		}
	}

	return &LinearModel{
		weights:    artifact.Weights,
		intercepts: artifact.Intercepts,
		labels:     artifact.Labels,
	}, nil
}

// Labels returns the label vocabulary in decoder order.
func (m *LinearModel) Labels() []string {
	out := make([]string, len(m.labels))
	copy(out, m.labels)
	return out
}

// Predict scores the embedding against every label and returns the
// index of the highest score.
func (m *LinearModel) Predict(embedding []float64) (int, error) {
	if len(m.weights) == 0 {
		return 0, fmt.Errorf("model has no weights")
	}
	if len(embedding) != len(m.weights[0]) {
		return 0, fmt.Errorf("embedding has %d components, model expects %d",
			len(embedding), len(m.weights[0]))
	}

	best := 0
	bestScore := m.score(0, embedding)
	for i := 1; i < len(m.weights); i++ {
		if score := m.score(i, embedding); score > bestScore {
			best, bestScore = i, score
		}
	}
	return best, nil
}

// Decode maps a predicted index to its department name.
func (m *LinearModel) Decode(index int) (string, error) {
	if index < 0 || index >= len(m.labels) {
		return "", fmt.Errorf("label index %d outside vocabulary of %d", index, len(m.labels))
	}
	return m.labels[index], nil
}

func (m *LinearModel) score(row int, embedding []float64) float64 {
	score := m.intercepts[row]
	for i, component := range embedding {
		score += m.weights[row][i] * component
	}
	return score
}
