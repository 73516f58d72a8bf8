package models

import "time"

// Profile selects the scheduling rule set applied to a user.
type Profile string

const (
	ProfileAdult Profile = "adult"
	ProfileChild Profile = "child-school-age"
)

// User represents an application user stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Profile      Profile    `db:"profile" json:"profile"`
	Locale       string     `db:"locale" json:"locale"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// UserSettings are the per-user preferences the scheduler normalizes
// into day windows. One row per user, created lazily with defaults.
type UserSettings struct {
	UserID                string    `db:"user_id" json:"-"`
	SleepStart            string    `db:"sleep_start" json:"sleep_start"`
	SleepEnd              string    `db:"sleep_end" json:"sleep_end"`
	WorkStart             string    `db:"work_start" json:"work_start"`
	WorkEnd               string    `db:"work_end" json:"work_end"`
	BreakfastOffset       int       `db:"breakfast_offset" json:"breakfast_offset"`
	LunchOffset           int       `db:"lunch_offset" json:"lunch_offset"`
	DinnerOffset          int       `db:"dinner_offset" json:"dinner_offset"`
	ActivityTargetMinutes *int      `db:"activity_target_minutes" json:"activity_target_minutes,omitempty"`
	UpdatedAt             time.Time `db:"updated_at" json:"updated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
