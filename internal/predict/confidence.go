// Package predict orchestrates the request pipeline: validate the payload,
// scale and classify the feature vector, bucket the confidence, and
// assemble the response. It holds no per-request state.
package predict

// Confidence buckets, ordered from strongest to weakest.
const (
	ConfidenceHigh     = "High"
	ConfidenceModerate = "Moderate"
	ConfidenceLow      = "Low"
)

const (
	highThreshold     = 0.80
	moderateThreshold = 0.60
)

// Confidence converts the positive-class probability into confidence in the
// predicted label: the probability itself for a positive prediction, its
// complement for a negative one. The score therefore always measures how
// strongly the model backs the label it emitted, not the chance of being
// diabetic. Bucket lower bounds are inclusive.
func Confidence(positiveProb float64, diabetic bool) (string, float64) {
	score := positiveProb
	if !diabetic {
		score = 1 - positiveProb
	}

	switch {
	case score >= highThreshold:
		return ConfidenceHigh, score
	case score >= moderateThreshold:
		return ConfidenceModerate, score
	default:
		return ConfidenceLow, score
	}
}
