package server

import (
	"github.com/rgehrsitz/sipgo/internal/compare"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/shopspring/decimal"
)

// ProjectionRequest is a complete plan plus request options
type ProjectionRequest struct {
	domain.Configuration
	AsOf             *domain.Date `json:"as_of,omitempty"`
	IncludeSchedules bool         `json:"include_schedules,omitempty"`
}

// ProjectionResponse carries every goal's projection for one plan
type ProjectionResponse struct {
	CalculationID string                    `json:"calculation_id"`
	AsOf          domain.Date               `json:"as_of"`
	DurationMs    int64                     `json:"duration_ms"`
	Cached        bool                      `json:"cached"`
	TotalMonthly  decimal.Decimal           `json:"total_monthly"`
	Results       []domain.ProjectionResult `json:"results"`
	Schedules     []domain.GoalSchedule     `json:"schedules,omitempty"`
}

// cachedProjection is the part of a response that is stable across calls
type cachedProjection struct {
	Results   []domain.ProjectionResult `json:"results"`
	Schedules []domain.GoalSchedule     `json:"schedules,omitempty"`
}

// CompareRequest asks for a goal to be compared against what-if alternatives
type CompareRequest struct {
	Plan       domain.Configuration `json:"plan"`
	GoalID     string               `json:"goal_id"`
	Templates  []string             `json:"templates,omitempty"`
	Transforms []string             `json:"transforms,omitempty"`
	AsOf       *domain.Date         `json:"as_of,omitempty"`
}

// CompareResponse wraps a comparison with request metadata
type CompareResponse struct {
	CalculationID string                 `json:"calculation_id"`
	AsOf          domain.Date            `json:"as_of"`
	DurationMs    int64                  `json:"duration_ms"`
	Comparison    *compare.ComparisonSet `json:"comparison"`
}

// TemplateInfo describes one built-in what-if template
type TemplateInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}
