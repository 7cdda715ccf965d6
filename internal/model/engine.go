// Package model loads the pre-fitted inference artifacts and exposes the
// two operations the prediction service depends on: scaling a validated
// feature vector and classifying the scaled result. Artifacts are read once
// at startup; any missing or malformed file is fatal before serving begins,
// never a per-request condition.
package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"diabetes-predict/internal/features"
)

const (
	scalerFile   = "scaler.json"
	forestFile   = "model.json"
	namesFile    = "feature_names.json"
	metricsFile  = "metrics.json"
	defaultModel = "Random Forest"
)

// Engine is the loaded scaler + classifier pair. All fields are read-only
// after Load, so a single Engine is safe to share across request handlers.
type Engine struct {
	scaler       *StandardScaler
	forest       *Forest
	featureNames []string
	modelName    string
	metricsRaw   []byte
}

// Load reads the artifact set from dir and verifies internal consistency:
// the feature-name list must match the field registry in length, order and
// spelling, and the scaler and forest must agree on the input width.
func Load(dir string) (*Engine, error) {
	var scaler StandardScaler
	if err := readJSON(filepath.Join(dir, scalerFile), &scaler); err != nil {
		return nil, fmt.Errorf("load scaler: %w", err)
	}

	var forest Forest
	if err := readJSON(filepath.Join(dir, forestFile), &forest); err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	var names []string
	if err := readJSON(filepath.Join(dir, namesFile), &names); err != nil {
		return nil, fmt.Errorf("load feature names: %w", err)
	}

	metricsRaw, err := os.ReadFile(filepath.Join(dir, metricsFile))
	if err != nil {
		return nil, fmt.Errorf("load metrics: %w", err)
	}
	var metricsData struct {
		BestModel string `json:"best_model"`
	}
	if err := json.Unmarshal(metricsRaw, &metricsData); err != nil {
		return nil, fmt.Errorf("parse metrics: %w", err)
	}
	modelName := metricsData.BestModel
	if modelName == "" {
		modelName = defaultModel
	}

	// The model input order is implicit in the trained artifacts; it must
	// line up with the declared field registry or every prediction would be
	// silently computed on permuted features.
	registryNames := features.Names()
	if len(names) != len(registryNames) {
		return nil, fmt.Errorf("model expects %d features, registry declares %d", len(names), len(registryNames))
	}
	for i, name := range names {
		if name != registryNames[i] {
			return nil, fmt.Errorf("feature %d: model trained on %q, registry declares %q", i, name, registryNames[i])
		}
	}

	if err := scaler.validate(len(names)); err != nil {
		return nil, fmt.Errorf("invalid scaler: %w", err)
	}
	if err := forest.validate(len(names)); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}

	log.Info().
		Str("model", modelName).
		Int("trees", len(forest.Trees)).
		Strs("features", names).
		Msg("model artifacts loaded")

	return &Engine{
		scaler:       &scaler,
		forest:       &forest,
		featureNames: names,
		modelName:    modelName,
		metricsRaw:   metricsRaw,
	}, nil
}

// Scale standardizes a validated feature vector.
func (e *Engine) Scale(vec features.Vector) ([]float64, error) {
	return e.scaler.Transform(vec.Values())
}

// Classify runs the forest on a scaled vector and returns the binary label
// together with the positive-class probability.
func (e *Engine) Classify(scaled []float64) (int, float64, error) {
	label, probs, err := e.forest.Predict(scaled)
	if err != nil {
		return 0, 0, err
	}
	return label, probs[1], nil
}

// ModelName returns the display name from the metrics descriptor.
func (e *Engine) ModelName() string {
	return e.modelName
}

// FeatureNames returns the model's input feature names in order.
func (e *Engine) FeatureNames() []string {
	out := make([]string, len(e.featureNames))
	copy(out, e.featureNames)
	return out
}

// MetricsJSON returns the raw metrics descriptor for passthrough serving.
func (e *Engine) MetricsJSON() []byte {
	out := make([]byte, len(e.metricsRaw))
	copy(out, e.metricsRaw)
	return out
}

// Info summarizes the loaded artifacts for the model-info endpoint.
func (e *Engine) Info() map[string]any {
	return map[string]any{
		"model":    e.modelName,
		"features": e.FeatureNames(),
		"trees":    len(e.forest.Trees),
		"classes":  e.forest.NumClasses,
	}
}

func readJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
