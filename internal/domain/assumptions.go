package domain

import (
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// RequiredReturnFields are the rates a return_assumptions block must state
var RequiredReturnFields = []string{
	"equity_return_percent",
	"debt_return_percent",
	"epf_return_percent",
	"nps_return_percent",
}

// ReturnAssumptions holds the annual return rates, in percent, used for every projection
type ReturnAssumptions struct {
	EquityReturnPercent    decimal.Decimal  `yaml:"equity_return_percent" json:"equity_return_percent"`
	DebtReturnPercent      decimal.Decimal  `yaml:"debt_return_percent" json:"debt_return_percent"`
	ArbitrageReturnPercent *decimal.Decimal `yaml:"arbitrage_return_percent,omitempty" json:"arbitrage_return_percent,omitempty"`
	EPFReturnPercent       decimal.Decimal  `yaml:"epf_return_percent" json:"epf_return_percent"`
	NPSReturnPercent       decimal.Decimal  `yaml:"nps_return_percent" json:"nps_return_percent"`

	// keys present in the decoded document; nil when not decoded
	decoded map[string]bool
}

func (ra *ReturnAssumptions) UnmarshalYAML(node *yaml.Node) error {
	type plain ReturnAssumptions
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*ra = ReturnAssumptions(p)
	ra.decoded = make(map[string]bool)
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			ra.decoded[node.Content[i].Value] = true
		}
	}
	return nil
}

func (ra *ReturnAssumptions) UnmarshalJSON(data []byte) error {
	if strings.TrimSpace(string(data)) == "null" {
		return nil
	}
	type plain ReturnAssumptions
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	*ra = ReturnAssumptions(p)
	ra.decoded = make(map[string]bool, len(keys))
	for k := range keys {
		ra.decoded[k] = true
	}
	return nil
}

// IsZero reports whether no rate has been set at all
func (ra ReturnAssumptions) IsZero() bool {
	return ra.decoded == nil && ra.ArbitrageReturnPercent == nil &&
		ra.EquityReturnPercent.IsZero() && ra.DebtReturnPercent.IsZero() &&
		ra.EPFReturnPercent.IsZero() && ra.NPSReturnPercent.IsZero()
}

// MissingFields lists the required rates absent from a decoded block
func (ra ReturnAssumptions) MissingFields() []string {
	if ra.decoded == nil {
		return nil
	}
	var missing []string
	for _, f := range RequiredReturnFields {
		if !ra.decoded[f] {
			missing = append(missing, f)
		}
	}
	return missing
}

// ShortTermReturnPercent is the arbitrage rate, or the debt rate when no arbitrage rate is configured
func (ra ReturnAssumptions) ShortTermReturnPercent() decimal.Decimal {
	if ra.ArbitrageReturnPercent != nil {
		return *ra.ArbitrageReturnPercent
	}
	return ra.DebtReturnPercent
}

// DefaultReturnAssumptions returns the planner's stock assumptions
func DefaultReturnAssumptions() ReturnAssumptions {
	arbitrage := decimal.NewFromFloat(7.5)
	return ReturnAssumptions{
		EquityReturnPercent:    decimal.NewFromInt(12),
		DebtReturnPercent:      decimal.NewFromInt(7),
		ArbitrageReturnPercent: &arbitrage,
		EPFReturnPercent:       decimal.NewFromFloat(8.25),
		NPSReturnPercent:       decimal.NewFromInt(10),
	}
}

// GlidePathSettings describes the four-step equity staircase
type GlidePathSettings struct {
	FullEquityYears    float64 `yaml:"full_equity_years" json:"full_equity_years"`
	HalfEquityYears    float64 `yaml:"half_equity_years" json:"half_equity_years"`
	QuarterEquityYears float64 `yaml:"quarter_equity_years" json:"quarter_equity_years"`
	HalfEquityCap      float64 `yaml:"half_equity_cap" json:"half_equity_cap"`
	QuarterEquityCap   float64 `yaml:"quarter_equity_cap" json:"quarter_equity_cap"`
}

// EngineSettings are the projection engine's tunable constants. A value is
// passed to the engine at construction and never changed afterwards.
type EngineSettings struct {
	ShortTermThresholdYears float64           `yaml:"short_term_threshold_years" json:"short_term_threshold_years"`
	GlidePath               GlidePathSettings `yaml:"glide_path" json:"glide_path"`
	MaxIterations           int               `yaml:"max_iterations" json:"max_iterations"`
	Tolerance               float64           `yaml:"tolerance" json:"tolerance"`
	UpperBoundFactor        float64           `yaml:"upper_bound_factor" json:"upper_bound_factor"`
	MaxBoundExpansions      int               `yaml:"max_bound_expansions" json:"max_bound_expansions"`
}

// DefaultEngineSettings returns the standard engine constants
func DefaultEngineSettings() EngineSettings {
	return EngineSettings{
		ShortTermThresholdYears: 5,
		GlidePath: GlidePathSettings{
			FullEquityYears:    8,
			HalfEquityYears:    5,
			QuarterEquityYears: 3,
			HalfEquityCap:      40,
			QuarterEquityCap:   20,
		},
		MaxIterations:      100,
		Tolerance:          0.01,
		UpperBoundFactor:   2,
		MaxBoundExpansions: 32,
	}
}

// EngineOverrides is the optional engine block of a plan file.
// Zero fields keep the default.
type EngineOverrides struct {
	ShortTermThresholdYears *float64 `yaml:"short_term_threshold_years,omitempty" json:"short_term_threshold_years,omitempty"`
	MaxIterations           *int     `yaml:"max_iterations,omitempty" json:"max_iterations,omitempty"`
	Tolerance               *float64 `yaml:"tolerance,omitempty" json:"tolerance,omitempty"`
	HalfEquityCap           *float64 `yaml:"half_equity_cap,omitempty" json:"half_equity_cap,omitempty"`
	QuarterEquityCap        *float64 `yaml:"quarter_equity_cap,omitempty" json:"quarter_equity_cap,omitempty"`
}

// Apply returns a copy of base with the overrides set
func (o *EngineOverrides) Apply(base EngineSettings) EngineSettings {
	if o == nil {
		return base
	}
	if o.ShortTermThresholdYears != nil {
		base.ShortTermThresholdYears = *o.ShortTermThresholdYears
	}
	if o.MaxIterations != nil {
		base.MaxIterations = *o.MaxIterations
	}
	if o.Tolerance != nil {
		base.Tolerance = *o.Tolerance
	}
	if o.HalfEquityCap != nil {
		base.GlidePath.HalfEquityCap = *o.HalfEquityCap
	}
	if o.QuarterEquityCap != nil {
		base.GlidePath.QuarterEquityCap = *o.QuarterEquityCap
	}
	return base
}
