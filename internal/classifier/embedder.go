package classifier

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// Embedder turns free text into a fixed-length vector using a
// pretrained word-vector table. The artifact is consumed read-only;
// embedding the same text always yields the same vector.
type Embedder struct {
	dim     int
	vectors map[string][]float64
}

type embedderArtifact struct {
	Dim     int                  `json:"dim"`
	Vectors map[string][]float64 `json:"vectors"`
}

// LoadEmbedder reads the embedder artifact from disk. A missing or
// malformed artifact is an error the caller treats as fatal.
func LoadEmbedder(path string) (*Embedder, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read embedder artifact: %w", err)
	}

	var artifact embedderArtifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, fmt.Errorf("decode embedder artifact %s: %w", path, err)
	}
	if artifact.Dim <= 0 {
		return nil, fmt.Errorf("embedder artifact %s: non-positive dimension %d", path, artifact.Dim)
	}
	for token, vec := range artifact.Vectors {
		if len(vec) != artifact.Dim {
			return nil, fmt.Errorf("embedder artifact %s: token %q has %d components, want %d",
				path, token, len(vec), artifact.Dim)
		}
	}

	return &Embedder{dim: artifact.Dim, vectors: artifact.Vectors}, nil
}

// Dim returns the embedding dimensionality.
func (e *Embedder) Dim() int {
	return e.dim
}

// Embed mean-pools the vectors of known tokens in text. Unknown tokens
// contribute nothing; text with no known tokens embeds to the zero
// vector.
func (e *Embedder) Embed(text string) []float64 {
	sum := make([]float64, e.dim)
	matched := 0

	for _, token := range tokenize(text) {
		vec, ok := e.vectors[token]
		if !ok {
			continue
		}
		for i, component := range vec {
			sum[i] += component
		}
		matched++
	}

	if matched > 1 {
		for i := range sum {
			sum[i] /= float64(matched)
		}
	}
	return sum
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
