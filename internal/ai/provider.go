// Package ai holds the task-intelligence collaborators: free-text
// category prediction and natural language placement explanations.
// Providers are chosen once at wiring time and injected; there is no
// package-level singleton.
package ai

import "context"

// CategorizeResult is one category prediction with its confidence.
type CategorizeResult struct {
	Label      string
	Confidence float64
	Provider   string
}

// TaskText is the free text a category is predicted from.
type TaskText struct {
	Title       string
	Description string
}

// ExplainInput carries everything the explanation prompt needs.
type ExplainInput struct {
	TaskTitle   string
	Start       string
	End         string
	TopFeatures []string
	Locale      string
}

// ExplainResult is one generated explanation.
type ExplainResult struct {
	Text     string
	Provider string
}

// Provider predicts categories and explains placements. Implementations
// must be safe for concurrent use.
type Provider interface {
	Categorize(ctx context.Context, task TaskText) (CategorizeResult, error)
	Explain(ctx context.Context, input ExplainInput) (ExplainResult, error)
}
