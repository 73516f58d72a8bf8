package scheduler

// ModelVersion tags the weight vector schema. Stored vectors from older
// versions are reconciled by padding or truncation, never rejected.
const ModelVersion = 3

// Default hyperparameters for the online learner.
const (
	DefaultLearningRate     = 0.05
	DefaultRegularization   = 0.001
	DefaultMinFeedbackCount = 20
)

var adultDefaultWeights = []float64{
	0.55,  // circadian_fit
	0.50,  // deadline_pressure
	0.55,  // priority
	-0.25, // context_switch
	-0.20, // daily_load
	0.35,  // habit_alignment
	-0.90, // meal_conflict
	0.00,  // school_conflict
	-1.20, // sleep_conflict
	0.15,  // activity_target_gap
	0.00,  // homework_evening_penalty
	0.00,  // games_morning_penalty
}

var childDefaultWeights = []float64{
	0.55,  // circadian_fit
	0.45,  // deadline_pressure
	0.50,  // priority
	-0.25, // context_switch
	-0.15, // daily_load
	0.30,  // habit_alignment
	-0.95, // meal_conflict
	-1.10, // school_conflict
	-1.30, // sleep_conflict
	0.40,  // activity_target_gap
	-0.70, // homework_evening_penalty
	-0.80, // games_morning_penalty
}

// DefaultWeights returns a fresh copy of the preset for the profile.
func DefaultWeights(profile Profile) []float64 {
	preset := adultDefaultWeights
	if profile == ProfileChild {
		preset = childDefaultWeights
	}
	weights := make([]float64, len(preset))
	copy(weights, preset)
	return weights
}

// ReconcileWeights returns a weight vector of exactly length, padding
// missing components with zeros and truncating extras. The input is
// never mutated.
func ReconcileWeights(weights []float64, length int) []float64 {
	out := make([]float64, length)
	copy(out, weights)
	return out
}

// MergeWeights overlays stored weights onto the profile defaults,
// keeping learned components where both vectors define them. Used for
// model version migrations.
func MergeWeights(stored []float64, profile Profile) []float64 {
	merged := DefaultWeights(profile)
	limit := len(stored)
	if limit > len(merged) {
		limit = len(merged)
	}
	copy(merged[:limit], stored[:limit])
	return merged
}
