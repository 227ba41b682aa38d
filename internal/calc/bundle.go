package calc

// BundleInput prices a multi-unit bundle against selling units one by one.
// TargetMargin and FeePercent are percentages; FeeFixed is the flat
// per-transaction payment fee.
type BundleInput struct {
	UnitPrice      float64 `json:"unit_price"`
	BundleSize     float64 `json:"bundle_size"`
	UnitCOGS       float64 `json:"unit_cogs"`
	UnitShipping   float64 `json:"unit_shipping"`
	BundleShipping float64 `json:"bundle_shipping"`
	TargetMargin   float64 `json:"target_margin"`
	FeePercent     float64 `json:"fee_percent"`
	FeeFixed       float64 `json:"fee_fixed"`
}

// BundleResult reports the suggested bundle price and how it compares with
// separate sales.
type BundleResult struct {
	SingleUnitProfit float64 `json:"single_unit_profit"`
	SingleUnitMargin float64 `json:"single_unit_margin"`
	BundleCost       float64 `json:"bundle_cost"`
	MinimumPrice     float64 `json:"minimum_price"`
	SuggestedPrice   float64 `json:"suggested_price"`
	BundleProfit     float64 `json:"bundle_profit"`
	BundleMargin     float64 `json:"bundle_margin"`
	ProfitPerUnit    float64 `json:"profit_per_unit"`
	DiscountAmount   float64 `json:"discount_amount"`
	DiscountPercent  float64 `json:"discount_percent"`
	SeparateRevenue  float64 `json:"separate_revenue"`
	SeparateProfit   float64 `json:"separate_profit"`
	BundleAOV        float64 `json:"bundle_aov"`
	SeparateAOV      float64 `json:"separate_aov"`
}

// BundlePricing solves the minimum bundle price that hits the target margin
// net of payment fees, then rounds it up to the next multiple of 5 as the
// suggested shelf price and reprices profit at that figure.
//
// The solve runs in two steps: first the pre-fee price cost/(1-margin/100),
// then the fee-aware price (cost+feeFixed)/(1-fee/100-margin/100). When the
// fee-aware denominator collapses the pre-fee price is used; when both
// collapse the minimum price reports 0.
func BundlePricing(in BundleInput) BundleResult {
	unitFees := in.UnitPrice*in.FeePercent/100 + in.FeeFixed
	singleProfit := in.UnitPrice - in.UnitCOGS - in.UnitShipping - unitFees
	singleMargin := 0.0
	if in.UnitPrice > 0 {
		singleMargin = singleProfit / in.UnitPrice * 100
	}

	bundleCost := in.UnitCOGS*in.BundleSize + in.BundleShipping

	preFeeDenom := 1 - in.TargetMargin/100
	preFeePrice := 0.0
	if preFeeDenom > 0 {
		preFeePrice = bundleCost / preFeeDenom
	}

	feeDenom := 1 - in.FeePercent/100 - in.TargetMargin/100
	minPrice := preFeePrice
	if feeDenom > 0 {
		minPrice = (bundleCost + in.FeeFixed) / feeDenom
	}

	suggested := roundUpToMultiple(minPrice, 5)

	bundleFees := suggested*in.FeePercent/100 + in.FeeFixed
	bundleProfit := suggested - bundleCost - bundleFees
	bundleMargin := 0.0
	if suggested > 0 {
		bundleMargin = bundleProfit / suggested * 100
	}
	profitPerUnit := safeDiv(bundleProfit, in.BundleSize)

	separateRevenue := in.UnitPrice * in.BundleSize
	separateProfit := singleProfit * in.BundleSize
	discountAmount := separateRevenue - suggested
	discountPercent := safeDiv(discountAmount, separateRevenue) * 100

	return BundleResult{
		SingleUnitProfit: singleProfit,
		SingleUnitMargin: singleMargin,
		BundleCost:       bundleCost,
		MinimumPrice:     minPrice,
		SuggestedPrice:   suggested,
		BundleProfit:     bundleProfit,
		BundleMargin:     bundleMargin,
		ProfitPerUnit:    profitPerUnit,
		DiscountAmount:   discountAmount,
		DiscountPercent:  discountPercent,
		SeparateRevenue:  separateRevenue,
		SeparateProfit:   separateProfit,
		BundleAOV:        suggested,
		SeparateAOV:      in.UnitPrice,
	}
}
