package model

import (
	"math"
	"testing"
)

func leaf(p0, p1 float64) TreeNode {
	return TreeNode{Feature: -1, Value: []float64{p0, p1}}
}

func split(feature int, threshold float64, left, right int) TreeNode {
	return TreeNode{Feature: feature, Threshold: threshold, Left: left, Right: right}
}

func testForest() *Forest {
	return &Forest{
		NumClasses: 2,
		Trees: []Tree{
			{Nodes: []TreeNode{split(0, 0.5, 1, 2), leaf(0.8, 0.2), leaf(0.3, 0.7)}},
			{Nodes: []TreeNode{split(1, 0.0, 1, 2), leaf(0.9, 0.1), leaf(0.2, 0.8)}},
		},
	}
}

func TestForest_Predict(t *testing.T) {
	t.Parallel()
	f := testForest()

	// Both trees route right: mean positive probability (0.7+0.8)/2.
	label, probs, err := f.Predict([]float64{1.0, 1.0})
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	if label != 1 {
		t.Errorf("expected label 1, got %d", label)
	}
	if math.Abs(probs[1]-0.75) > 1e-12 {
		t.Errorf("expected positive probability 0.75, got %v", probs[1])
	}
	if math.Abs(probs[0]+probs[1]-1.0) > 1e-12 {
		t.Errorf("probabilities should sum to 1, got %v", probs)
	}

	// Both trees route left: (0.2+0.1)/2 positive.
	label, probs, err = f.Predict([]float64{0.0, -1.0})
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	if label != 0 {
		t.Errorf("expected label 0, got %d", label)
	}
	if math.Abs(probs[1]-0.15) > 1e-12 {
		t.Errorf("expected positive probability 0.15, got %v", probs[1])
	}
}

func TestForest_ThresholdRoutesLeftOnEquality(t *testing.T) {
	t.Parallel()
	f := &Forest{
		NumClasses: 2,
		Trees:      []Tree{{Nodes: []TreeNode{split(0, 0.5, 1, 2), leaf(1, 0), leaf(0, 1)}}},
	}

	label, _, err := f.Predict([]float64{0.5})
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	if label != 0 {
		t.Error("value equal to threshold must route left")
	}
}

func TestForest_Deterministic(t *testing.T) {
	t.Parallel()
	f := testForest()
	in := []float64{0.3, 0.1}

	firstLabel, firstProbs, err := f.Predict(in)
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		label, probs, err := f.Predict(in)
		if err != nil {
			t.Fatalf("predict failed: %v", err)
		}
		if label != firstLabel || probs[0] != firstProbs[0] || probs[1] != firstProbs[1] {
			t.Fatalf("prediction not deterministic: run %d gave %d %v", i, label, probs)
		}
	}
}

func TestForest_PredictErrors(t *testing.T) {
	t.Parallel()

	empty := &Forest{NumClasses: 2}
	if _, _, err := empty.Predict([]float64{1}); err == nil {
		t.Error("expected error for empty forest")
	}

	// Feature index beyond the input width.
	narrow := testForest()
	if _, _, err := narrow.Predict([]float64{1.0}); err == nil {
		t.Error("expected error for short input vector")
	}

	// Self-referencing node never reaches a leaf.
	cyclic := &Forest{
		NumClasses: 2,
		Trees:      []Tree{{Nodes: []TreeNode{split(0, 0.5, 0, 0)}}},
	}
	if _, _, err := cyclic.Predict([]float64{1.0}); err == nil {
		t.Error("expected error for cyclic tree")
	}
}

func TestForest_Validate(t *testing.T) {
	t.Parallel()

	if err := testForest().validate(2); err != nil {
		t.Errorf("valid forest rejected: %v", err)
	}
	if err := testForest().validate(1); err == nil {
		t.Error("expected width mismatch to fail validation")
	}

	multi := testForest()
	multi.NumClasses = 3
	if err := multi.validate(2); err == nil {
		t.Error("expected non-binary forest to fail validation")
	}

	badLeaf := testForest()
	badLeaf.Trees[0].Nodes[1] = leaf(1.5, -0.5)
	if err := badLeaf.validate(2); err == nil {
		t.Error("expected out-of-range leaf probability to fail validation")
	}

	badChild := testForest()
	badChild.Trees[1].Nodes[0].Right = 9
	if err := badChild.validate(2); err == nil {
		t.Error("expected out-of-range child index to fail validation")
	}
}

func TestStandardScaler_Transform(t *testing.T) {
	t.Parallel()
	s := &StandardScaler{Mean: []float64{10, 20}, Scale: []float64{2, 5}}

	out, err := s.Transform([]float64{14, 10})
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}
	if out[0] != 2 || out[1] != -2 {
		t.Errorf("expected [2 -2], got %v", out)
	}

	if _, err := s.Transform([]float64{1}); err == nil {
		t.Error("expected width mismatch error")
	}
}

func TestStandardScaler_Validate(t *testing.T) {
	t.Parallel()

	good := &StandardScaler{Mean: []float64{0, 0}, Scale: []float64{1, 1}}
	if err := good.validate(2); err != nil {
		t.Errorf("valid scaler rejected: %v", err)
	}

	zero := &StandardScaler{Mean: []float64{0, 0}, Scale: []float64{1, 0}}
	if err := zero.validate(2); err == nil {
		t.Error("expected zero scale to fail validation")
	}

	short := &StandardScaler{Mean: []float64{0}, Scale: []float64{1}}
	if err := short.validate(2); err == nil {
		t.Error("expected width mismatch to fail validation")
	}
}
