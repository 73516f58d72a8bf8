package dto

// SubmitFeedbackRequest records the user's verdict on one scheduled
// slot. The feature snapshot is looked up from the stored plan, never
// trusted from the client.
type SubmitFeedbackRequest struct {
	PlanID string `json:"planId" validate:"required,uuid4"`
	TaskID string `json:"taskId" validate:"required"`
	Action string `json:"action" validate:"required,oneof=kept moved"`
}

// ModelResponse describes the user's current model state.
type ModelResponse struct {
	Version       int       `json:"version"`
	Weights       []float64 `json:"weights"`
	FeedbackCount int       `json:"feedbackCount"`
	Training      bool      `json:"training"`
}
