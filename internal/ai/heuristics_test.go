package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorizeWithHeuristicsStrongRules(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		wantLabel  string
		confidence float64
	}{
		{name: "homework", title: "Домашняя работа по математике", wantLabel: labelLearning, confidence: 0.95},
		{name: "gym session", title: "Тренировка в зале", wantLabel: labelSport, confidence: 0.92},
		{name: "park walk", title: "Прогулка в парке", wantLabel: labelOutdoor, confidence: 0.9},
		{name: "minecraft", title: "Поиграть в майнкрафт", wantLabel: labelGames, confidence: 0.92},
		{name: "lunch", title: "Обед с семьей", wantLabel: labelHealthcare, confidence: 0.9},
		{name: "textbook beats relaxing", title: "Читать учебник", wantLabel: labelLearning, confidence: 0.95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := CategorizeWithHeuristics(TaskText{Title: tt.title}, true)
			require.True(t, ok)
			assert.Equal(t, tt.wantLabel, result.Label)
			assert.Equal(t, tt.confidence, result.Confidence)
		})
	}
}

func TestCategorizeWithHeuristicsSupportRules(t *testing.T) {
	result, ok := CategorizeWithHeuristics(TaskText{Title: "Физкультура"}, false)
	require.True(t, ok)
	assert.Equal(t, labelSport, result.Label)
	assert.Equal(t, 0.76, result.Confidence)

	_, ok = CategorizeWithHeuristics(TaskText{Title: "Физкультура"}, true)
	assert.False(t, ok, "support rules must stay off in strong-only mode")
}

func TestCategorizeWithHeuristicsNoMatch(t *testing.T) {
	_, ok := CategorizeWithHeuristics(TaskText{Title: "Xyzzy"}, false)
	assert.False(t, ok)

	_, ok = CategorizeWithHeuristics(TaskText{}, false)
	assert.False(t, ok)
}

func TestNormalizeTaskTextFoldsYo(t *testing.T) {
	text := normalizeTaskText(TaskText{Title: "Приём  у врача", Description: "Ёжик"})
	assert.Equal(t, "прием у врача ежик", text)
}

func TestRefineCategoryPredictionStrongOverride(t *testing.T) {
	initial := CategorizeResult{Label: labelDeepWork, Confidence: 0.9}
	refined := RefineCategoryPrediction(TaskText{Title: "Школа"}, initial)
	assert.Equal(t, labelLearning, refined.Label)
	assert.Equal(t, 0.95, refined.Confidence)
}

func TestRefineCategoryPredictionWalkReclassified(t *testing.T) {
	initial := CategorizeResult{Label: labelSport, Confidence: 0.4}
	refined := RefineCategoryPrediction(TaskText{Title: "Пройтись по скверу"}, initial)
	assert.Equal(t, labelOutdoor, refined.Label)
	assert.Equal(t, 0.64, refined.Confidence)
}

func TestRefineCategoryPredictionSupportFallbackWins(t *testing.T) {
	initial := CategorizeResult{Label: labelOther, Confidence: 0.2}
	refined := RefineCategoryPrediction(TaskText{Title: "Навести порядок"}, initial)
	assert.Equal(t, labelHousehold, refined.Label)
	assert.Equal(t, 0.72, refined.Confidence)
}

func TestRefineCategoryPredictionKeepsConfidentModel(t *testing.T) {
	initial := CategorizeResult{Label: labelSocial, Confidence: 0.9}
	refined := RefineCategoryPrediction(TaskText{Title: "Quarterly review"}, initial)
	assert.Equal(t, initial, refined)
}
