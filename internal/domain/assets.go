package domain

import (
	"github.com/shopspring/decimal"
)

// AssetCategory drives which return assumption applies to a holding
type AssetCategory string

const (
	AssetEquity           AssetCategory = "equity"
	AssetStocks           AssetCategory = "stocks"
	AssetEquityMutualFund AssetCategory = "equity_mutual_fund"
	AssetIndexFund        AssetCategory = "index_fund"
	AssetELSS             AssetCategory = "elss"

	AssetDebt           AssetCategory = "debt"
	AssetDebtMutualFund AssetCategory = "debt_mutual_fund"
	AssetFixedDeposit   AssetCategory = "fixed_deposit"
	AssetBonds          AssetCategory = "bonds"
	AssetPPF            AssetCategory = "ppf"

	AssetArbitrage     AssetCategory = "arbitrage"
	AssetArbitrageFund AssetCategory = "arbitrage_fund"

	AssetCash       AssetCategory = "cash"
	AssetGold       AssetCategory = "gold"
	AssetRealEstate AssetCategory = "real_estate"
)

// AssetClass is the coarse return bucket a category maps to
type AssetClass int

const (
	ClassDebtLike AssetClass = iota
	ClassEquityLike
	ClassArbitrageLike
	ClassZeroGrowth
)

var assetClasses = map[AssetCategory]AssetClass{
	AssetEquity:           ClassEquityLike,
	AssetStocks:           ClassEquityLike,
	AssetEquityMutualFund: ClassEquityLike,
	AssetIndexFund:        ClassEquityLike,
	AssetELSS:             ClassEquityLike,
	AssetDebt:             ClassDebtLike,
	AssetDebtMutualFund:   ClassDebtLike,
	AssetFixedDeposit:     ClassDebtLike,
	AssetBonds:            ClassDebtLike,
	AssetPPF:              ClassDebtLike,
	AssetArbitrage:        ClassArbitrageLike,
	AssetArbitrageFund:    ClassArbitrageLike,
	AssetCash:             ClassZeroGrowth,
	AssetGold:             ClassZeroGrowth,
	AssetRealEstate:       ClassZeroGrowth,
}

// Class returns the category's return bucket. Unrecognized categories are debt-like.
func (c AssetCategory) Class() AssetClass {
	if class, ok := assetClasses[c]; ok {
		return class
	}
	return ClassDebtLike
}

// Known reports whether the category is one of the recognized values
func (c AssetCategory) Known() bool {
	_, ok := assetClasses[c]
	return ok
}

// Asset is an existing holding owned by the allocation layer
type Asset struct {
	ID           string          `yaml:"id" json:"id"`
	Name         string          `yaml:"name,omitempty" json:"name,omitempty"`
	Category     AssetCategory   `yaml:"category" json:"category"`
	CurrentValue decimal.Decimal `yaml:"current_value" json:"current_value"`
}

// AssetRegistry resolves asset ids to holdings
type AssetRegistry map[string]Asset

// NewAssetRegistry indexes assets by id. Later duplicates win.
func NewAssetRegistry(assets []Asset) AssetRegistry {
	registry := make(AssetRegistry, len(assets))
	for _, a := range assets {
		registry[a.ID] = a
	}
	return registry
}

// Lookup returns the asset with the given id
func (r AssetRegistry) Lookup(id string) (Asset, bool) {
	if r == nil {
		return Asset{}, false
	}
	a, ok := r[id]
	return a, ok
}

// RetirementContributions describes the parallel EPF/NPS streams of a household
type RetirementContributions struct {
	MonthlyEPF    decimal.Decimal `yaml:"monthly_epf" json:"monthly_epf"`
	MonthlyNPS    decimal.Decimal `yaml:"monthly_nps" json:"monthly_nps"`
	EPFCorpus     decimal.Decimal `yaml:"epf_corpus" json:"epf_corpus"`
	NPSCorpus     decimal.Decimal `yaml:"nps_corpus" json:"nps_corpus"`
	StepUpEnabled bool            `yaml:"step_up_enabled" json:"step_up_enabled"`
}

// Total sums the monthly amounts and existing balances
func (rc *RetirementContributions) Total() decimal.Decimal {
	if rc == nil {
		return decimal.Zero
	}
	return rc.MonthlyEPF.Add(rc.MonthlyNPS).Add(rc.EPFCorpus).Add(rc.NPSCorpus)
}
