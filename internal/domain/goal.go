package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// GoalType distinguishes ordinary savings goals from retirement goals
type GoalType string

const (
	GoalTypeOneTime    GoalType = "one_time"
	GoalTypeRetirement GoalType = "retirement"
)

// GoalCategory buckets a goal by the time left until its target date
type GoalCategory string

const (
	CategoryShort GoalCategory = "short"
	CategoryLong  GoalCategory = "long"
)

// DateLayout is the calendar-date format used in plan files and API bodies
const DateLayout = "2006-01-02"

// Date is a calendar date that reads and writes as YYYY-MM-DD in both YAML and JSON.
type Date struct {
	time.Time
}

// NewDate builds a UTC midnight Date
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		*d = Date{}
		return nil
	}
	// Accept full timestamps too; only the calendar part is kept.
	if len(s) > len(DateLayout) {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", s, err)
		}
		*d = NewDate(t.Year(), t.Month(), t.Day())
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*d = Date{}
		return nil
	}
	return d.UnmarshalText([]byte(strings.Trim(s, `"`)))
}

// LinkedAsset earmarks part of an existing holding for a goal
type LinkedAsset struct {
	AssetID       string          `yaml:"asset_id" json:"asset_id"`
	PledgedAmount decimal.Decimal `yaml:"pledged_amount" json:"pledged_amount"`
}

// Goal is a savings target the planner computes a monthly contribution for.
// The engine reads goals but never mutates them.
type Goal struct {
	ID                             string          `yaml:"id" json:"id"`
	Name                           string          `yaml:"name,omitempty" json:"name,omitempty"`
	TargetAmount                   decimal.Decimal `yaml:"target_amount" json:"target_amount"`
	TargetDate                     Date            `yaml:"target_date" json:"target_date"`
	InflationRatePercent           decimal.Decimal `yaml:"inflation_rate_percent" json:"inflation_rate_percent"`
	GoalType                       GoalType        `yaml:"goal_type" json:"goal_type"`
	InitialEquityPercent           decimal.Decimal `yaml:"initial_equity_percent" json:"initial_equity_percent"`
	AnnualStepUpPercent            decimal.Decimal `yaml:"annual_step_up_percent" json:"annual_step_up_percent"`
	IncludeRetirementContributions bool            `yaml:"include_retirement_contributions,omitempty" json:"include_retirement_contributions,omitempty"`
	LinkedAssets                   []LinkedAsset   `yaml:"linked_assets,omitempty" json:"linked_assets,omitempty"`
}

// DisplayName returns the name, falling back to the id
func (g *Goal) DisplayName() string {
	if g.Name != "" {
		return g.Name
	}
	return g.ID
}

// IsRetirement reports whether the goal is a retirement goal
func (g *Goal) IsRetirement() bool {
	return g.GoalType == GoalTypeRetirement
}

// TotalPledged sums the pledged amounts of all linked assets
func (g *Goal) TotalPledged() decimal.Decimal {
	total := decimal.Zero
	for _, la := range g.LinkedAssets {
		total = total.Add(la.PledgedAmount)
	}
	return total
}

// DeepCopy returns a copy that shares no slices with the receiver
func (g *Goal) DeepCopy() *Goal {
	if g == nil {
		return nil
	}
	cp := *g
	if g.LinkedAssets != nil {
		cp.LinkedAssets = make([]LinkedAsset, len(g.LinkedAssets))
		copy(cp.LinkedAssets, g.LinkedAssets)
	}
	return &cp
}
