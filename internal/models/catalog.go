package models

import "time"

// CatalogTemplate is a reusable task preset. Global templates carry a
// NULL user id; user templates shadow them in listings.
type CatalogTemplate struct {
	ID               string    `db:"id" json:"id"`
	UserID           *string   `db:"user_id" json:"-"`
	Title            string    `db:"title" json:"title"`
	Category         string    `db:"category" json:"category"`
	EstimatedMinutes int       `db:"estimated_minutes" json:"estimated_minutes"`
	Priority         float64   `db:"priority" json:"priority"`
	MealType         string    `db:"meal_type" json:"meal_type,omitempty"`
	UsageCount       int       `db:"usage_count" json:"usage_count"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
