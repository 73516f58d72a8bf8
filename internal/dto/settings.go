package dto

// UpdateSettingsRequest adjusts the preferences the scheduler builds
// day windows from. Clock fields are HH:MM; offsets are minutes and
// clamp to ±30 during normalization.
type UpdateSettingsRequest struct {
	SleepStart            *string `json:"sleepStart" validate:"omitempty,datetime=15:04"`
	SleepEnd              *string `json:"sleepEnd" validate:"omitempty,datetime=15:04"`
	WorkStart             *string `json:"workStart" validate:"omitempty,datetime=15:04"`
	WorkEnd               *string `json:"workEnd" validate:"omitempty,datetime=15:04"`
	BreakfastOffset       *int    `json:"breakfastOffset" validate:"omitempty,min=-30,max=30"`
	LunchOffset           *int    `json:"lunchOffset" validate:"omitempty,min=-30,max=30"`
	DinnerOffset          *int    `json:"dinnerOffset" validate:"omitempty,min=-30,max=30"`
	ActivityTargetMinutes *int    `json:"activityTargetMinutes" validate:"omitempty,min=0,max=480"`
	Profile               *string `json:"profile" validate:"omitempty,oneof=adult child-school-age"`
	Locale                *string `json:"locale" validate:"omitempty,bcp47_language_tag"`
}
