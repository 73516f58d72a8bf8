package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigmoidBoundsAndClamp(t *testing.T) {
	assert.InDelta(t, 0.5, Sigmoid(0), 1e-9)
	assert.Greater(t, Sigmoid(2.0), 0.5)
	assert.Less(t, Sigmoid(-2.0), 0.5)

	// Extreme magnitudes clamp instead of overflowing.
	assert.InDelta(t, 1, Sigmoid(1e6), 1e-9)
	assert.InDelta(t, 0, Sigmoid(-1e6), 1e-9)
}

func TestDotHandlesLengthMismatch(t *testing.T) {
	assert.InDelta(t, 11, Dot([]float64{1, 2, 3}, []float64{3, 4}), 1e-9)
	assert.Zero(t, Dot(nil, []float64{1, 2}))
}

func TestReconcileWeights(t *testing.T) {
	padded := ReconcileWeights([]float64{0.1, 0.2}, 4)
	require.Len(t, padded, 4)
	assert.Equal(t, []float64{0.1, 0.2, 0, 0}, padded)

	truncated := ReconcileWeights([]float64{0.1, 0.2, 0.3}, 2)
	assert.Equal(t, []float64{0.1, 0.2}, truncated)

	original := []float64{0.1, 0.2}
	copied := ReconcileWeights(original, 2)
	copied[0] = 9
	assert.InDelta(t, 0.1, original[0], 1e-9, "reconcile must not alias the input")
}

func TestDefaultWeightsPerProfile(t *testing.T) {
	adult := DefaultWeights(ProfileAdult)
	child := DefaultWeights(ProfileChild)
	require.Len(t, adult, FeatureCount)
	require.Len(t, child, FeatureCount)

	assert.Zero(t, adult[featureSchoolConflict], "adults carry no school rule weight")
	assert.Negative(t, child[featureSchoolConflict])
	assert.Negative(t, adult[featureSleepConflict])

	adult[0] = 99
	assert.NotEqual(t, 99.0, DefaultWeights(ProfileAdult)[0], "presets must not be mutable through the returned slice")
}

func TestSGDStepMovesPredictionTowardLabel(t *testing.T) {
	weights := make([]float64, FeatureCount)
	features := []float64{0.8, 0.3, 1, 0, 0, 0.5, 0, 0, 0, 1, 0, 0}

	hyper := Hyperparams{LearningRate: DefaultLearningRate, Regularization: DefaultRegularization}
	before := Sigmoid(Dot(weights, features))
	updated := SGDStep(weights, features, 1, hyper)
	after := Sigmoid(Dot(updated, features))

	assert.Greater(t, after, before, "a positive label must raise the kept-placement probability")
	assert.Zero(t, Dot(weights, features), "the input weights stay untouched")

	down := SGDStep(updated, features, 0, hyper)
	assert.Less(t, Sigmoid(Dot(down, features)), after, "a negative label must lower it")
}

func TestSGDStepMasksHardConstraintFeatures(t *testing.T) {
	weights := make([]float64, FeatureCount)
	features := make([]float64, FeatureCount)
	features[featureMealConflict] = -1
	features[featureSchoolConflict] = -1
	features[featureSleepConflict] = -1
	features[0] = 0.5

	updated := SGDStep(weights, features, 1, Hyperparams{
		LearningRate:        DefaultLearningRate,
		Regularization:      DefaultRegularization,
		MaskHardConstraints: true,
	})

	for _, idx := range HardConstraintFeatureIndexes {
		assert.Zero(t, updated[idx], "masked feature %d must not receive gradient", idx)
	}
	assert.NotZero(t, updated[0])
	assert.InDelta(t, -1, features[featureMealConflict], 1e-9, "masking must not mutate the caller's snapshot")
}

func TestApplyFeedbackRequiresMinimumHistory(t *testing.T) {
	weights := DefaultWeights(ProfileAdult)
	examples := []FeedbackExample{
		{Features: []float64{0.5, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0}, Label: 1},
	}

	unchanged := ApplyFeedback(weights, examples, Hyperparams{PriorFeedbackCount: 5})
	assert.Equal(t, weights, unchanged, "below the feedback floor the weights stay put")

	updated := ApplyFeedback(weights, examples, Hyperparams{PriorFeedbackCount: DefaultMinFeedbackCount})
	assert.NotEqual(t, weights, updated)
}

func TestApplyFeedbackConvergesOnRepeatedSignal(t *testing.T) {
	weights := make([]float64, FeatureCount)
	features := []float64{1, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0}

	examples := make([]FeedbackExample, 0, 40)
	for i := 0; i < 40; i++ {
		examples = append(examples, FeedbackExample{Features: features, Label: 1})
	}

	updated := ApplyFeedback(weights, examples, Hyperparams{PriorFeedbackCount: 100})
	prob := Sigmoid(Utility(updated, features))
	assert.Greater(t, prob, 0.6, "repeated positive feedback must push the model toward keeping the placement")
}

func TestUtilityReconcilesShortWeightVectors(t *testing.T) {
	score := Utility([]float64{1}, []float64{0.5, 0.9, 0.9})
	assert.InDelta(t, 0.5, score, 1e-9)
}

func TestMergeWeightsMigratesOlderVectors(t *testing.T) {
	stored := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}
	merged := MergeWeights(stored, ProfileChild)
	require.Len(t, merged, FeatureCount)

	assert.InDelta(t, 0.1, merged[0], 1e-9, "learned components survive the migration")
	defaults := DefaultWeights(ProfileChild)
	for i := len(stored); i < FeatureCount; i++ {
		assert.InDelta(t, defaults[i], merged[i], 1e-9, "new components seed from the profile preset")
	}

	assert.Equal(t, DefaultWeights(ProfileAdult), MergeWeights(nil, ProfileAdult))
}
