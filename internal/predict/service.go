package predict

import (
	"fmt"
	"math"
	"time"

	"diabetes-predict/internal/features"
)

// Labels for the two prediction outcomes.
const (
	LabelDiabetic    = "Diabetic"
	LabelNotDiabetic = "Not Diabetic"
)

// Engine is the pre-fitted scaler + classifier pair the service calls but
// does not implement. Both operations must be pure and deterministic.
type Engine interface {
	Scale(vec features.Vector) ([]float64, error)
	Classify(scaled []float64) (label int, positiveProb float64, err error)
}

// Recorder receives pipeline metrics. A nil Recorder disables recording,
// which keeps the service directly testable.
type Recorder interface {
	PredictionsInc()
	ValidationFailuresInc()
	InferenceFailuresInc()
	PredictionLatencyObserve(seconds float64)
	ConfidenceScoreObserve(score float64)
}

// Result is the assembled response for one successful prediction. It is
// built once and never mutated.
type Result struct {
	Prediction      string          `json:"prediction"`
	Diabetic        bool            `json:"diabetic"`
	Probability     float64         `json:"probability"`
	Confidence      string          `json:"confidence"`
	ConfidenceScore float64         `json:"confidence_score"`
	Model           string          `json:"model"`
	InputFeatures   features.Vector `json:"input_features"`
}

// Service runs the prediction pipeline. It is stateless across requests;
// the engine and model name are read-only after construction, so one
// Service is safe for concurrent use.
type Service struct {
	engine   Engine
	model    string
	recorder Recorder
}

// NewService builds a prediction service around a loaded engine. The model
// name is stamped into every result. recorder may be nil.
func NewService(engine Engine, model string, recorder Recorder) *Service {
	return &Service{engine: engine, model: model, recorder: recorder}
}

// Predict runs one request through the pipeline. Validation failures come
// back as field errors with a nil result; an engine failure comes back as a
// non-nil error and is terminal for the request, never retried.
func (s *Service) Predict(raw map[string]any) (*Result, []features.FieldError, error) {
	start := time.Now()
	defer func() {
		if s.recorder != nil {
			s.recorder.PredictionLatencyObserve(time.Since(start).Seconds())
		}
	}()

	vec, fieldErrs := features.Validate(raw)
	if len(fieldErrs) > 0 {
		if s.recorder != nil {
			s.recorder.ValidationFailuresInc()
		}
		return nil, fieldErrs, nil
	}

	scaled, err := s.engine.Scale(vec)
	if err != nil {
		return nil, nil, s.inferenceFailure("scale", err)
	}

	label, prob, err := s.engine.Classify(scaled)
	if err != nil {
		return nil, nil, s.inferenceFailure("classify", err)
	}
	if prob < 0 || prob > 1 || math.IsNaN(prob) {
		return nil, nil, s.inferenceFailure("classify", fmt.Errorf("probability %v out of range", prob))
	}

	diabetic := label == 1
	bucket, score := Confidence(prob, diabetic)

	prediction := LabelNotDiabetic
	if diabetic {
		prediction = LabelDiabetic
	}

	if s.recorder != nil {
		s.recorder.PredictionsInc()
		s.recorder.ConfidenceScoreObserve(score)
	}

	return &Result{
		Prediction:      prediction,
		Diabetic:        diabetic,
		Probability:     round4(prob),
		Confidence:      bucket,
		ConfidenceScore: round4(score),
		Model:           s.model,
		InputFeatures:   vec,
	}, nil, nil
}

func (s *Service) inferenceFailure(stage string, err error) error {
	if s.recorder != nil {
		s.recorder.InferenceFailuresInc()
	}
	return fmt.Errorf("inference %s failed: %w", stage, err)
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
