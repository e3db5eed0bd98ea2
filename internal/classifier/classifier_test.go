package classifier

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spec-kit/civic-complaints/internal/config"
)

func writeArtifact(t *testing.T, dir, name string, payload any) string {
	t.Helper()

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal artifact: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func fixtureConfig(t *testing.T) config.ModelConfig {
	t.Helper()

	dir := t.TempDir()
	embedderPath := writeArtifact(t, dir, "embedder.json", embedderArtifact{
		Dim: 2,
		Vectors: map[string][]float64{
			"pothole":     {1, 0},
			"road":        {1, 0},
			"streetlight": {0, 1},
			"dark":        {0, 1},
		},
	})
	classifierPath := writeArtifact(t, dir, "classifier.json", classifierArtifact{
		Labels:     []string{"Department of Transportation", "Office of Technology and Innovation"},
		Weights:    [][]float64{{1, 0}, {0, 1}},
		Intercepts: []float64{0, 0},
	})
	return config.ModelConfig{EmbedderPath: embedderPath, ClassifierPath: classifierPath}
}

func TestLoadMissingArtifact(t *testing.T) {
	dir := t.TempDir()
	cfg := fixtureConfig(t)

	missingEmbedder := cfg
	missingEmbedder.EmbedderPath = filepath.Join(dir, "absent.json")
	if _, err := Load(missingEmbedder); err == nil {
		t.Fatal("Load() with missing embedder artifact expected error")
	}

	missingClassifier := cfg
	missingClassifier.ClassifierPath = filepath.Join(dir, "absent.json")
	if _, err := Load(missingClassifier); err == nil {
		t.Fatal("Load() with missing classifier artifact expected error")
	}
}

func TestLoadRejectsShapeMismatch(t *testing.T) {
	dir := t.TempDir()
	cfg := fixtureConfig(t)

	cfg.ClassifierPath = writeArtifact(t, dir, "bad.json", classifierArtifact{
		Labels:     []string{"A", "B"},
		Weights:    [][]float64{{1, 0, 0}, {0, 1, 0}},
		Intercepts: []float64{0, 0},
	})
	if _, err := Load(cfg); err == nil {
		t.Fatal("Load() with wrong weight dimension expected error")
	}
}

func TestClassifyRoutesByTokens(t *testing.T) {
	model, err := Load(fixtureConfig(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	testCases := []struct {
		name string
		text string
		want string
	}{
		{"road tokens", "Pothole on the road near my house", "Department of Transportation"},
		{"light tokens", "The streetlight is dark all night", "Office of Technology and Innovation"},
		{"mixed leans road", "pothole road dark", "Department of Transportation"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got, err := model.Classify(context.Background(), testCase.text)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if got != testCase.want {
				t.Fatalf("Classify() = %q, want %q", got, testCase.want)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	model, err := Load(fixtureConfig(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	const text = "Broken streetlight, the street is dark for a week"
	first, err := model.Classify(context.Background(), text)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := model.Classify(context.Background(), text)
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		if again != first {
			t.Fatalf("Classify() = %q on repeat, want %q", again, first)
		}
	}
}

func TestClassifyRejectsEmptyInput(t *testing.T) {
	model, err := Load(fixtureConfig(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := model.Classify(context.Background(), "   "); err == nil {
		t.Fatal("Classify() with blank input expected error")
	}
}

func TestDecodeOutOfRange(t *testing.T) {
	model := &LinearModel{
		weights:    [][]float64{{1, 0}},
		intercepts: []float64{0},
		labels:     []string{"Department of Sanitation"},
	}

	if _, err := model.Decode(1); err == nil {
		t.Fatal("Decode(1) expected error for vocabulary of 1")
	}
	if _, err := model.Decode(-1); err == nil {
		t.Fatal("Decode(-1) expected error")
	}
	got, err := model.Decode(0)
	if err != nil {
		t.Fatalf("Decode(0) error = %v", err)
	}
	if got != "Department of Sanitation" {
		t.Fatalf("Decode(0) = %q", got)
	}
}

func TestEmbedMeanPooling(t *testing.T) {
	embedder := &Embedder{
		dim: 2,
		vectors: map[string][]float64{
			"a": {2, 0},
			"b": {0, 4},
		},
	}

	got := embedder.Embed("A unknown B!")
	if got[0] != 1 || got[1] != 2 {
		t.Fatalf("Embed() = %v, want [1 2]", got)
	}

	zero := embedder.Embed("nothing matches here")
	if zero[0] != 0 || zero[1] != 0 {
		t.Fatalf("Embed() with no known tokens = %v, want zero vector", zero)
	}
}

func TestNewCachedClassifierWithoutRedis(t *testing.T) {
	model, err := Load(fixtureConfig(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	wrapped := NewCachedClassifier(model, nil, 0, nil)
	if wrapped != Classifier(model) {
		t.Fatal("NewCachedClassifier(nil client) should return the wrapped classifier unchanged")
	}
}
