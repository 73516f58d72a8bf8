package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// HuggingFaceConfig configures the hosted inference client.
type HuggingFaceConfig struct {
	APIKey          string
	BaseURL         string
	ClassifierModel string
	InstructModel   string
	Timeout         time.Duration
	Logger          *zap.Logger
}

// HuggingFaceProvider predicts categories with a zero-shot classifier
// and generates explanations with an instruct model. Heuristic rules
// run before and after the classifier; on transport failure the
// heuristics alone decide.
type HuggingFaceProvider struct {
	cfg    HuggingFaceConfig
	client *http.Client
	logger *zap.Logger
}

// NewHuggingFaceProvider builds the provider with defaults filled in.
func NewHuggingFaceProvider(cfg HuggingFaceConfig) *HuggingFaceProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api-inference.huggingface.co"
	}
	if cfg.ClassifierModel == "" {
		cfg.ClassifierModel = "facebook/bart-large-mnli"
	}
	if cfg.InstructModel == "" {
		cfg.InstructModel = "mistralai/Mistral-7B-Instruct-v0.2"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &HuggingFaceProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: cfg.Logger,
	}
}

type zeroShotRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters zeroShotParameters `json:"parameters"`
}

type zeroShotParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
	MultiLabel      bool     `json:"multi_label"`
}

type zeroShotResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

type textGenerationRequest struct {
	Inputs     string                   `json:"inputs"`
	Parameters textGenerationParameters `json:"parameters"`
}

type textGenerationParameters struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
}

type textGenerationResponse struct {
	GeneratedText string `json:"generated_text"`
}

// Categorize implements Provider.
func (p *HuggingFaceProvider) Categorize(ctx context.Context, task TaskText) (CategorizeResult, error) {
	if strong, ok := CategorizeWithHeuristics(task, true); ok {
		strong.Provider = "heuristic-rule"
		return strong, nil
	}

	payload := zeroShotRequest{
		Inputs: task.Title + "\n" + task.Description,
		Parameters: zeroShotParameters{
			CandidateLabels: CategoryLabels,
			MultiLabel:      false,
		},
	}

	var parsed zeroShotResponse
	if err := p.post(ctx, p.cfg.ClassifierModel, payload, &parsed); err != nil {
		p.logger.Warn("classifier request failed, using heuristics",
			zap.String("model", p.cfg.ClassifierModel), zap.Error(err))
		if fallback, ok := CategorizeWithHeuristics(task, false); ok {
			fallback.Provider = "heuristic-fallback"
			return fallback, nil
		}
		return CategorizeResult{Label: labelOther, Provider: p.cfg.ClassifierModel}, nil
	}

	result := CategorizeResult{Label: labelOther, Provider: p.cfg.ClassifierModel}
	if len(parsed.Labels) > 0 {
		result.Label = parsed.Labels[0]
	}
	if len(parsed.Scores) > 0 {
		result.Confidence = parsed.Scores[0]
	}

	refined := RefineCategoryPrediction(task, result)
	refined.Provider = result.Provider

	if supplemental, ok := CategorizeWithHeuristics(task, false); ok {
		if supplemental.Label == refined.Label {
			refined.Confidence = maxFloat(refined.Confidence, supplemental.Confidence)
		} else if supplemental.Confidence >= refined.Confidence+0.1 {
			supplemental.Provider = "heuristic+" + p.cfg.ClassifierModel
			return supplemental, nil
		}
	}

	return refined, nil
}

// Explain implements Provider.
func (p *HuggingFaceProvider) Explain(ctx context.Context, input ExplainInput) (ExplainResult, error) {
	languageInstruction := "Respond in English with a friendly, encouraging tone."
	if input.Locale == "ru" {
		languageInstruction = "Отвечай на русском языке дружелюбным и ободряющим тоном."
	}

	featuresLine := "Important factors: keep the plan balanced."
	if len(input.TopFeatures) > 0 {
		featuresLine = "Important factors: " + strings.Join(input.TopFeatures, ", ") + "."
	}

	prompt := strings.Join([]string{
		"You are an assistant that explains a smart personal timetable to a young student.",
		languageInstruction,
		"Task: " + input.TaskTitle + ".",
		"Scheduled between " + input.Start + " and " + input.End + ".",
		featuresLine,
		"Explain in two or three short sentences why this slot works.",
		"Avoid mentioning raw numbers or model weights.",
	}, "\n")

	payload := textGenerationRequest{
		Inputs: prompt,
		Parameters: textGenerationParameters{
			MaxNewTokens: 80,
			Temperature:  0.4,
		},
	}

	var parsed textGenerationResponse
	if err := p.post(ctx, p.cfg.InstructModel, payload, &parsed); err != nil {
		return ExplainResult{}, fmt.Errorf("explain request: %w", err)
	}

	return ExplainResult{
		Text:     strings.TrimSpace(parsed.GeneratedText),
		Provider: p.cfg.InstructModel,
	}, nil
}

// post sends one inference request and decodes either an object or a
// single-element array response body into out.
func (p *HuggingFaceProvider) post(ctx context.Context, model string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal inference payload: %w", err)
	}

	url := strings.TrimRight(p.cfg.BaseURL, "/") + "/models/" + model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("inference status %d for %s", resp.StatusCode, model)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return fmt.Errorf("decode inference response: %w", err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return fmt.Errorf("decode inference list: %w", err)
		}
		if len(list) == 0 {
			return fmt.Errorf("empty inference response for %s", model)
		}
		trimmed = list[0]
	}
	return json.Unmarshal(trimmed, out)
}
