package predict

import (
	"math"
	"testing"
)

func TestConfidence_Buckets(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		prob       float64
		diabetic   bool
		wantBucket string
		wantScore  float64
	}{
		{"high boundary inclusive", 0.80, true, ConfidenceHigh, 0.80},
		{"just below high", 0.7999, true, ConfidenceModerate, 0.7999},
		{"moderate boundary inclusive", 0.60, true, ConfidenceModerate, 0.60},
		{"just below moderate", 0.5999, true, ConfidenceLow, 0.5999},
		{"certain positive", 1.0, true, ConfidenceHigh, 1.0},
		{"coin flip positive", 0.5, true, ConfidenceLow, 0.5},
		{"confident negative", 0.10, false, ConfidenceHigh, 0.90},
		{"moderate negative", 0.35, false, ConfidenceModerate, 0.65},
		{"weak negative", 0.45, false, ConfidenceLow, 0.55},
		{"negative high boundary", 0.20, false, ConfidenceHigh, 0.80},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			bucket, score := Confidence(tc.prob, tc.diabetic)
			if bucket != tc.wantBucket {
				t.Errorf("Confidence(%v, %v) bucket = %q, want %q", tc.prob, tc.diabetic, bucket, tc.wantBucket)
			}
			if math.Abs(score-tc.wantScore) > 1e-12 {
				t.Errorf("Confidence(%v, %v) score = %v, want %v", tc.prob, tc.diabetic, score, tc.wantScore)
			}
		})
	}
}

func TestConfidence_ScoreMeasuresPredictedLabel(t *testing.T) {
	t.Parallel()

	// Same raw probability, opposite labels: scores must be complements.
	_, posScore := Confidence(0.3, true)
	_, negScore := Confidence(0.3, false)
	if posScore != 0.3 || negScore != 0.7 {
		t.Errorf("expected 0.3/0.7, got %v/%v", posScore, negScore)
	}
}

func TestConfidence_Deterministic(t *testing.T) {
	t.Parallel()

	b1, s1 := Confidence(0.731, true)
	for i := 0; i < 5; i++ {
		b2, s2 := Confidence(0.731, true)
		if b1 != b2 || s1 != s2 {
			t.Fatal("Confidence must be deterministic")
		}
	}
}
