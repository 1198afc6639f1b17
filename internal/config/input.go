package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ValidationError describes a single invalid field of a plan
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

var (
	hundred        = decimal.NewFromInt(100)
	minReturnRate  = decimal.NewFromInt(-100)
	maxReturnRate  = decimal.NewFromInt(100)
	maxStepUpRate  = decimal.NewFromInt(100)
	maxIterations  = 100000
	validGoalTypes = map[domain.GoalType]bool{
		domain.GoalTypeOneTime:    true,
		domain.GoalTypeRetirement: true,
	}
)

// InputParser handles parsing of plan files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML (or JSON) file and validates it
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a plan document
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ip.ApplyDefaults(&config)

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ApplyDefaults fills fields a plan may leave out. A plan without a
// return_assumptions block uses domain.DefaultReturnAssumptions.
func (ip *InputParser) ApplyDefaults(config *domain.Configuration) {
	if config.ReturnAssumptions.IsZero() {
		config.ReturnAssumptions = domain.DefaultReturnAssumptions()
	}
	for i := range config.Goals {
		g := &config.Goals[i]
		if g.GoalType == "" {
			g.GoalType = domain.GoalTypeOneTime
		}
		g.GoalType = domain.GoalType(strings.ToLower(string(g.GoalType)))
	}
	for i := range config.Assets {
		a := &config.Assets[i]
		a.Category = domain.AssetCategory(strings.ToLower(string(a.Category)))
	}
}

// ValidateConfiguration checks everything the projection engine assumes
// its callers have already enforced.
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := ip.validateReturnAssumptions(&config.ReturnAssumptions); err != nil {
		return fmt.Errorf("return assumptions validation failed: %w", err)
	}
	if err := ip.validateEngineOverrides(config.Engine); err != nil {
		return fmt.Errorf("engine settings validation failed: %w", err)
	}
	if err := ip.validateRetirementContributions(config.RetirementContributions); err != nil {
		return fmt.Errorf("retirement contributions validation failed: %w", err)
	}

	assets := make(map[string]domain.Asset, len(config.Assets))
	for i, asset := range config.Assets {
		if err := ip.validateAsset(asset); err != nil {
			return fmt.Errorf("asset %d validation failed: %w", i, err)
		}
		if _, dup := assets[asset.ID]; dup {
			return fmt.Errorf("asset %d validation failed: %w", i, invalid("id", "duplicate asset id %q", asset.ID))
		}
		assets[asset.ID] = asset
	}

	if len(config.Goals) == 0 {
		return fmt.Errorf("no goals provided")
	}

	seen := make(map[string]bool, len(config.Goals))
	for i := range config.Goals {
		goal := &config.Goals[i]
		if err := ip.validateGoal(goal, assets); err != nil {
			return fmt.Errorf("goal %d (%s) validation failed: %w", i, goal.ID, err)
		}
		if seen[goal.ID] {
			return fmt.Errorf("goal %d validation failed: %w", i, invalid("id", "duplicate goal id %q", goal.ID))
		}
		seen[goal.ID] = true
	}

	return ip.validatePledgeTotals(config, assets)
}

func (ip *InputParser) validateReturnAssumptions(ra *domain.ReturnAssumptions) error {
	if missing := ra.MissingFields(); len(missing) > 0 {
		return invalid(missing[0], "is required when return_assumptions is given")
	}

	rates := []struct {
		field string
		value decimal.Decimal
	}{
		{"equity_return_percent", ra.EquityReturnPercent},
		{"debt_return_percent", ra.DebtReturnPercent},
		{"epf_return_percent", ra.EPFReturnPercent},
		{"nps_return_percent", ra.NPSReturnPercent},
	}
	if ra.ArbitrageReturnPercent != nil {
		rates = append(rates, struct {
			field string
			value decimal.Decimal
		}{"arbitrage_return_percent", *ra.ArbitrageReturnPercent})
	}

	for _, r := range rates {
		if r.value.LessThanOrEqual(minReturnRate) || r.value.GreaterThan(maxReturnRate) {
			return invalid(r.field, "must be greater than -100%% and at most 100%%, got %s", r.value)
		}
	}
	return nil
}

func (ip *InputParser) validateEngineOverrides(o *domain.EngineOverrides) error {
	if o == nil {
		return nil
	}
	if o.ShortTermThresholdYears != nil && *o.ShortTermThresholdYears <= 0 {
		return invalid("short_term_threshold_years", "must be positive")
	}
	if o.MaxIterations != nil && (*o.MaxIterations <= 0 || *o.MaxIterations > maxIterations) {
		return invalid("max_iterations", "must be between 1 and %d", maxIterations)
	}
	if o.Tolerance != nil && *o.Tolerance <= 0 {
		return invalid("tolerance", "must be positive")
	}
	if o.HalfEquityCap != nil && (*o.HalfEquityCap < 0 || *o.HalfEquityCap > 100) {
		return invalid("half_equity_cap", "must be between 0 and 100")
	}
	if o.QuarterEquityCap != nil && (*o.QuarterEquityCap < 0 || *o.QuarterEquityCap > 100) {
		return invalid("quarter_equity_cap", "must be between 0 and 100")
	}
	return nil
}

func (ip *InputParser) validateRetirementContributions(rc *domain.RetirementContributions) error {
	if rc == nil {
		return nil
	}
	amounts := map[string]decimal.Decimal{
		"monthly_epf": rc.MonthlyEPF,
		"monthly_nps": rc.MonthlyNPS,
		"epf_corpus":  rc.EPFCorpus,
		"nps_corpus":  rc.NPSCorpus,
	}
	for _, field := range []string{"monthly_epf", "monthly_nps", "epf_corpus", "nps_corpus"} {
		if amounts[field].IsNegative() {
			return invalid(field, "cannot be negative")
		}
	}
	return nil
}

func (ip *InputParser) validateAsset(asset domain.Asset) error {
	if asset.ID == "" {
		return invalid("id", "is required")
	}
	if asset.Category == "" {
		return invalid("category", "is required for asset %q", asset.ID)
	}
	if asset.CurrentValue.IsNegative() {
		return invalid("current_value", "cannot be negative for asset %q", asset.ID)
	}
	return nil
}

func (ip *InputParser) validateGoal(goal *domain.Goal, assets map[string]domain.Asset) error {
	if goal.ID == "" {
		return invalid("id", "is required")
	}
	if goal.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return invalid("target_amount", "must be positive")
	}
	if goal.TargetDate.IsZero() {
		return invalid("target_date", "is required")
	}
	if goal.InflationRatePercent.IsNegative() {
		return invalid("inflation_rate_percent", "cannot be negative")
	}
	if !validGoalTypes[goal.GoalType] {
		return invalid("goal_type", "must be 'one_time' or 'retirement', got %q", goal.GoalType)
	}
	if goal.InitialEquityPercent.IsNegative() || goal.InitialEquityPercent.GreaterThan(hundred) {
		return invalid("initial_equity_percent", "must be between 0 and 100")
	}
	if goal.AnnualStepUpPercent.IsNegative() || goal.AnnualStepUpPercent.GreaterThan(maxStepUpRate) {
		return invalid("annual_step_up_percent", "must be between 0 and 100")
	}
	if goal.IncludeRetirementContributions && !goal.IsRetirement() {
		return invalid("include_retirement_contributions", "only applies to retirement goals")
	}

	for j, pledge := range goal.LinkedAssets {
		if _, ok := assets[pledge.AssetID]; !ok {
			return invalid(fmt.Sprintf("linked_assets[%d].asset_id", j), "unknown asset %q", pledge.AssetID)
		}
		if pledge.PledgedAmount.LessThanOrEqual(decimal.Zero) {
			return invalid(fmt.Sprintf("linked_assets[%d].pledged_amount", j), "must be positive")
		}
	}
	return nil
}

// validatePledgeTotals makes sure no asset is pledged beyond its value across all goals
func (ip *InputParser) validatePledgeTotals(config *domain.Configuration, assets map[string]domain.Asset) error {
	pledged := make(map[string]decimal.Decimal)
	var order []string
	for _, goal := range config.Goals {
		for _, pledge := range goal.LinkedAssets {
			if _, ok := pledged[pledge.AssetID]; !ok {
				order = append(order, pledge.AssetID)
			}
			pledged[pledge.AssetID] = pledged[pledge.AssetID].Add(pledge.PledgedAmount)
		}
	}

	for _, id := range order {
		asset := assets[id]
		if pledged[id].GreaterThan(asset.CurrentValue) {
			return invalid("linked_assets", "asset %q is pledged %s but is only worth %s",
				id, pledged[id].StringFixed(2), asset.CurrentValue.StringFixed(2))
		}
	}
	return nil
}
