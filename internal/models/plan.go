package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PlanSlot is one scheduled block inside a stored day plan. The feature
// snapshot is kept so feedback rows can reference the exact vector the
// placement was ranked with.
type PlanSlot struct {
	TaskID    string    `json:"task_id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Score     float64   `json:"score"`
	Features  []float64 `json:"features,omitempty"`
	Reasoning string    `json:"reasoning,omitempty"`
}

// PlanSlots is the JSONB column payload for a plan's slot list.
type PlanSlots []PlanSlot

// Value marshals the slot list to JSON for persistence.
func (s PlanSlots) Value() (driver.Value, error) {
	if s == nil {
		s = PlanSlots{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal plan slots: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSONB payload into the slot list.
func (s *PlanSlots) Scan(value interface{}) error {
	if value == nil {
		*s = PlanSlots{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported plan slots type %T", value)
	}
	if len(data) == 0 {
		*s = PlanSlots{}
		return nil
	}
	return json.Unmarshal(data, s)
}

// StringList is a JSONB-backed list of strings (plan warnings).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal string list: %w", err)
	}
	return data, nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported string list type %T", value)
	}
	if len(data) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// Plan is one generated day schedule. Unique per (user_id, date);
// regeneration upserts.
type Plan struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"-"`
	Date        time.Time  `db:"date" json:"date"`
	Slots       PlanSlots  `db:"slots" json:"slots"`
	Warnings    StringList `db:"warnings" json:"warnings,omitempty"`
	GeneratedAt time.Time  `db:"generated_at" json:"generated_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
