package ai

import (
	"context"
	"fmt"
	"strings"
)

// MockProvider is an offline stand-in used when no inference API key
// is configured. Categorization falls back to a stable seed derived
// from the task text so the same task always lands in the same bucket.
type MockProvider struct{}

// NewMockProvider returns the offline provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Categorize implements Provider.
func (m *MockProvider) Categorize(_ context.Context, task TaskText) (CategorizeResult, error) {
	if heuristic, ok := CategorizeWithHeuristics(task, false); ok {
		heuristic.Provider = "heuristic-mock"
		return heuristic, nil
	}

	seed := len(task.Title + task.Description)
	return CategorizeResult{
		Label:      CategoryLabels[seed%len(CategoryLabels)],
		Confidence: 0.3,
		Provider:   "mock",
	}, nil
}

// Explain implements Provider.
func (m *MockProvider) Explain(_ context.Context, input ExplainInput) (ExplainResult, error) {
	significant := make([]string, 0, 2)
	for _, feature := range input.TopFeatures {
		if feature == "" {
			continue
		}
		significant = append(significant, TranslateSummary(feature, input.Locale))
		if len(significant) == 2 {
			break
		}
	}

	joiner := " and "
	if input.Locale == "ru" {
		joiner = " и "
	}
	reason := strings.Join(significant, joiner)
	if reason == "" {
		reason = TranslateSummary("it keeps the plan balanced", input.Locale)
	}

	text := fmt.Sprintf("Placed %s between %s and %s to %s.", input.TaskTitle, input.Start, input.End, reason)
	if input.Locale == "ru" {
		text = fmt.Sprintf("Мы запланировали «%s» на %s — %s, чтобы %s.", input.TaskTitle, input.Start, input.End, reason)
	}

	return ExplainResult{Text: text, Provider: "mock"}, nil
}
