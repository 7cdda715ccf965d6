package model

import (
	"fmt"
	"math"
)

// TreeNode is one node of an exported decision tree. Interior nodes route on
// Feature and Threshold (left when value <= threshold); leaves carry the
// class probability distribution in Value and have Feature == -1.
type TreeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value,omitempty"`
}

// Tree is a single decision tree with nodes indexed from the root at 0.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// Forest is an exported random-forest classifier. Classification averages
// the leaf class distributions across all trees.
type Forest struct {
	NumClasses int    `json:"n_classes"`
	Trees      []Tree `json:"trees"`
}

func (t *Tree) classProbabilities(values []float64, numClasses int) ([]float64, error) {
	idx := 0
	// A well-formed tree reaches a leaf in at most len(Nodes) hops; more
	// means a cycle in the exported structure.
	for steps := 0; steps <= len(t.Nodes); steps++ {
		if idx < 0 || idx >= len(t.Nodes) {
			return nil, fmt.Errorf("node index %d out of range", idx)
		}
		node := t.Nodes[idx]
		if node.Feature < 0 {
			if len(node.Value) != numClasses {
				return nil, fmt.Errorf("leaf %d has %d class values, expected %d", idx, len(node.Value), numClasses)
			}
			return node.Value, nil
		}
		if node.Feature >= len(values) {
			return nil, fmt.Errorf("node %d routes on feature %d, input width %d", idx, node.Feature, len(values))
		}
		if values[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
	return nil, fmt.Errorf("tree walk exceeded %d nodes, structure is cyclic", len(t.Nodes))
}

// Predict classifies a scaled feature vector. It returns the winning class
// index and the averaged per-class probabilities.
func (f *Forest) Predict(values []float64) (int, []float64, error) {
	if len(f.Trees) == 0 {
		return 0, nil, fmt.Errorf("forest has no trees")
	}

	sum := make([]float64, f.NumClasses)
	for i := range f.Trees {
		probs, err := f.Trees[i].classProbabilities(values, f.NumClasses)
		if err != nil {
			return 0, nil, fmt.Errorf("tree %d: %w", i, err)
		}
		for c, p := range probs {
			sum[c] += p
		}
	}

	label := 0
	for c := range sum {
		sum[c] /= float64(len(f.Trees))
		if sum[c] > sum[label] {
			label = c
		}
	}
	return label, sum, nil
}

func (f *Forest) validate(width int) error {
	if f.NumClasses != 2 {
		return fmt.Errorf("expected a binary classifier, got %d classes", f.NumClasses)
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	for ti, tree := range f.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d is empty", ti)
		}
		for ni, node := range tree.Nodes {
			if node.Feature < 0 {
				if len(node.Value) != f.NumClasses {
					return fmt.Errorf("tree %d leaf %d has %d class values, expected %d",
						ti, ni, len(node.Value), f.NumClasses)
				}
				for c, p := range node.Value {
					if p < 0 || p > 1 || math.IsNaN(p) {
						return fmt.Errorf("tree %d leaf %d class %d probability %v out of range", ti, ni, c, p)
					}
				}
				continue
			}
			if node.Feature >= width {
				return fmt.Errorf("tree %d node %d routes on feature %d, input width %d",
					ti, ni, node.Feature, width)
			}
			if node.Left < 0 || node.Left >= len(tree.Nodes) || node.Right < 0 || node.Right >= len(tree.Nodes) {
				return fmt.Errorf("tree %d node %d has child out of range", ti, ni)
			}
		}
	}
	return nil
}
