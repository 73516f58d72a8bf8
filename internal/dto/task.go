package dto

import "time"

// CreateTaskRequest adds a task to the user's pool. Category may be
// omitted; the AI collaborator then assigns one from the title.
type CreateTaskRequest struct {
	Title            string     `json:"title" validate:"required,max=200"`
	Description      string     `json:"description" validate:"omitempty,max=2000"`
	Category         string     `json:"category" validate:"omitempty"`
	EstimatedMinutes int        `json:"estimatedMinutes" validate:"required,min=15,max=720"`
	Priority         float64    `json:"priority" validate:"min=0,max=1"`
	Deadline         *time.Time `json:"deadline"`
	FixedStart       *time.Time `json:"fixedStart"`
	MealType         string     `json:"mealType" validate:"omitempty,oneof=breakfast lunch dinner"`
	MinChunkMinutes  int        `json:"minChunkMinutes" validate:"omitempty,min=15,max=240"`
}

// UpdateTaskRequest mutates an existing task. Pointer fields distinguish
// "leave unchanged" from "clear".
type UpdateTaskRequest struct {
	Title            *string    `json:"title" validate:"omitempty,max=200"`
	Description      *string    `json:"description" validate:"omitempty,max=2000"`
	Category         *string    `json:"category"`
	EstimatedMinutes *int       `json:"estimatedMinutes" validate:"omitempty,min=15,max=720"`
	Priority         *float64   `json:"priority" validate:"omitempty,min=0,max=1"`
	Deadline         *time.Time `json:"deadline"`
	ClearDeadline    bool       `json:"clearDeadline"`
	FixedStart       *time.Time `json:"fixedStart"`
	ClearFixedStart  bool       `json:"clearFixedStart"`
	MealType         *string    `json:"mealType" validate:"omitempty,oneof=breakfast lunch dinner"`
	MinChunkMinutes  *int       `json:"minChunkMinutes" validate:"omitempty,min=15,max=240"`
}

// ListTasksQuery filters the task listing.
type ListTasksQuery struct {
	Category        string `form:"category"`
	IncludeArchived bool   `form:"includeArchived"`
	Page            int    `form:"page,default=1" validate:"omitempty,min=1"`
	PageSize        int    `form:"pageSize,default=20" validate:"omitempty,min=1,max=100"`
}
