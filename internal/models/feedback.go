package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// FeedbackAction is the user's verdict on one scheduled slot.
type FeedbackAction string

const (
	FeedbackKept  FeedbackAction = "kept"
	FeedbackMoved FeedbackAction = "moved"
)

// FloatVector is a JSONB-backed feature snapshot column.
type FloatVector []float64

func (v FloatVector) Value() (driver.Value, error) {
	if v == nil {
		v = FloatVector{}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal float vector: %w", err)
	}
	return data, nil
}

func (v *FloatVector) Scan(value interface{}) error {
	if value == nil {
		*v = FloatVector{}
		return nil
	}
	var data []byte
	switch raw := value.(type) {
	case []byte:
		data = raw
	case string:
		data = []byte(raw)
	default:
		return fmt.Errorf("unsupported float vector type %T", value)
	}
	if len(data) == 0 {
		*v = FloatVector{}
		return nil
	}
	return json.Unmarshal(data, v)
}

// Feedback is one training example recorded against a scheduled slot.
// Label 1 means the placement was kept, 0 means rejected or moved.
type Feedback struct {
	ID        string         `db:"id" json:"id"`
	UserID    string         `db:"user_id" json:"-"`
	TaskID    string         `db:"task_id" json:"task_id"`
	PlanID    string         `db:"plan_id" json:"plan_id"`
	Action    FeedbackAction `db:"action" json:"action"`
	Label     int            `db:"label" json:"label"`
	Features  FloatVector    `db:"features" json:"features"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
