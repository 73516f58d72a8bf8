package models

import "time"

// Task is a user's planned activity stored in the tasks table. Category
// values follow the scheduler's fixed category set.
type Task struct {
	ID               string     `db:"id" json:"id"`
	UserID           string     `db:"user_id" json:"-"`
	Title            string     `db:"title" json:"title"`
	Description      string     `db:"description" json:"description,omitempty"`
	Category         string     `db:"category" json:"category"`
	EstimatedMinutes int        `db:"estimated_minutes" json:"estimated_minutes"`
	Priority         float64    `db:"priority" json:"priority"`
	Deadline         *time.Time `db:"deadline" json:"deadline,omitempty"`
	FixedStart       *time.Time `db:"fixed_start" json:"fixed_start,omitempty"`
	MealType         string     `db:"meal_type" json:"meal_type,omitempty"`
	MinChunkMinutes  int        `db:"min_chunk_minutes" json:"min_chunk_minutes,omitempty"`
	Archived         bool       `db:"archived" json:"archived"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// TaskFilter captures listing criteria for a user's tasks.
type TaskFilter struct {
	Category        string
	IncludeArchived bool
	Page            int
	PageSize        int
}
