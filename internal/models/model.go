package models

import "time"

// UserModel is the persisted per-user linear model: one weight vector,
// its schema version, and how many feedback rows have accumulated.
type UserModel struct {
	UserID        string      `db:"user_id" json:"-"`
	Version       int         `db:"version" json:"version"`
	Weights       FloatVector `db:"weights" json:"weights"`
	FeedbackCount int         `db:"feedback_count" json:"feedback_count"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}
