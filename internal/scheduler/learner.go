package scheduler

import "math"

// Hyperparams configure one batch of online learner updates.
type Hyperparams struct {
	LearningRate        float64
	Regularization      float64
	MaskHardConstraints bool
	// MinFeedbackCount gates updates until enough history exists;
	// PriorFeedbackCount is how many feedback rows were accumulated
	// before this batch.
	MinFeedbackCount   int
	PriorFeedbackCount int
}

// Sigmoid is the logistic squashing function, saturated outside ±30 to
// avoid overflow.
func Sigmoid(z float64) float64 {
	if z < -30 {
		return 0
	}
	if z > 30 {
		return 1
	}
	return 1 / (1 + math.Exp(-z))
}

// Dot computes the inner product over the shorter of the two vectors'
// common prefix after reconciling lengths.
func Dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		if i >= len(b) {
			break
		}
		sum += a[i] * b[i]
	}
	return sum
}

// Utility is the raw ranking score for a candidate placement: the
// unsquashed dot product of weights and features. Only meaningful for
// relative comparison between slots of the same task.
func Utility(weights, features []float64) float64 {
	return Dot(ReconcileWeights(weights, len(features)), features)
}

// SGDStep applies one logistic regression gradient step and returns the
// updated weight vector. When hyper.MaskHardConstraints is set, the
// meal/school/sleep conflict components are zeroed in the feature
// vector before both prediction and gradient, so feedback never trains
// the hard-rule weights beyond regularization drift.
func SGDStep(weights, features []float64, label int, hyper Hyperparams) []float64 {
	w := ReconcileWeights(weights, len(features))

	x := make([]float64, len(features))
	copy(x, features)
	if hyper.MaskHardConstraints {
		for _, idx := range HardConstraintFeatureIndexes {
			if idx < len(x) {
				x[idx] = 0
			}
		}
	}

	prediction := Sigmoid(Dot(w, x))
	err := prediction - float64(label)

	updated := make([]float64, len(w))
	for i := range w {
		gradient := err*x[i] + hyper.Regularization*w[i]
		updated[i] = w[i] - hyper.LearningRate*gradient
	}
	return updated
}

// ApplyFeedback runs one SGD step per example, in order. Until the
// accumulated feedback count reaches hyper.MinFeedbackCount the update
// is a no-op returning a copy of the input: single early examples must
// not destabilize a young model.
func ApplyFeedback(weights []float64, examples []FeedbackExample, hyper Hyperparams) []float64 {
	if hyper.LearningRate == 0 {
		hyper.LearningRate = DefaultLearningRate
	}
	if hyper.Regularization == 0 {
		hyper.Regularization = DefaultRegularization
	}
	if hyper.MinFeedbackCount == 0 {
		hyper.MinFeedbackCount = DefaultMinFeedbackCount
	}

	out := make([]float64, len(weights))
	copy(out, weights)

	if hyper.PriorFeedbackCount < hyper.MinFeedbackCount {
		return out
	}

	for _, example := range examples {
		if len(example.Features) == 0 {
			continue
		}
		label := 0
		if example.Label > 0 {
			label = 1
		}
		out = SGDStep(out, example.Features, label, hyper)
	}
	return out
}
