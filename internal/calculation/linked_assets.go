package calculation

import (
	"github.com/rgehrsitz/sipgo/internal/domain"
)

// AssetReturnPercent maps an asset category to the annual return it grows at.
// Arbitrage holdings and unrecognized categories use the debt rate.
func AssetReturnPercent(category domain.AssetCategory, returns domain.ReturnAssumptions) float64 {
	switch category.Class() {
	case domain.ClassEquityLike:
		return returns.EquityReturnPercent.InexactFloat64()
	case domain.ClassZeroGrowth:
		return 0
	default:
		return returns.DebtReturnPercent.InexactFloat64()
	}
}

// LinkedAssetsFutureValue projects the pledged part of each linked holding to
// the goal date. Pledges that reference unknown assets are skipped. When no
// time remains the pledges count at face value.
func LinkedAssetsFutureValue(pledges []domain.LinkedAsset, registry domain.AssetRegistry, years float64, returns domain.ReturnAssumptions, logger Logger) float64 {
	if registry == nil || len(pledges) == 0 {
		return 0
	}
	if logger == nil {
		logger = NopLogger{}
	}

	total := 0.0
	for _, pledge := range pledges {
		asset, ok := registry.Lookup(pledge.AssetID)
		if !ok {
			logger.Debugf("linked asset %q not found, skipping", pledge.AssetID)
			continue
		}
		amount := pledge.PledgedAmount.InexactFloat64()
		if years <= 0 {
			total += amount
			continue
		}
		total += compound(amount, AssetReturnPercent(asset.Category, returns), years)
	}
	return total
}
