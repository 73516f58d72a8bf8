package dto

// CreateTemplateRequest saves a reusable task preset for the user.
type CreateTemplateRequest struct {
	Title            string  `json:"title" validate:"required,max=200"`
	Category         string  `json:"category" validate:"required"`
	EstimatedMinutes int     `json:"estimatedMinutes" validate:"required,min=15,max=720"`
	Priority         float64 `json:"priority" validate:"min=0,max=1"`
	MealType         string  `json:"mealType" validate:"omitempty,oneof=breakfast lunch dinner"`
}
