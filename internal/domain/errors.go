package domain

import "errors"

var (
	// ErrGoalsNotConfigured indicates the user has no daily nutrition goals.
	ErrGoalsNotConfigured = errors.New("goals not configured")
	// ErrPlanNotFound indicates that the requested plan does not exist.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrPlanConflict indicates a concurrent write for the same user and date.
	ErrPlanConflict = errors.New("plan version conflict")
	// ErrInvalidDate indicates a date that is not formatted as YYYY-MM-DD.
	ErrInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")
	// ErrInvalidMeal indicates an unknown meal slot.
	ErrInvalidMeal = errors.New("unknown meal slot")
	// ErrPlanDiscarded indicates an attempt to accept a plan that was replaced.
	ErrPlanDiscarded = errors.New("plan has been discarded")
)

// DateLayout is the layout of plan and log dates.
const DateLayout = "2006-01-02"
