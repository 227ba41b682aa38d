package calc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfitBaseline(t *testing.T) {
	res := Profit(ProfitInput{
		Revenue:     100,
		COGS:        20,
		Shipping:    5,
		PaymentFees: 3,
		CAC:         10,
	})
	assert.InDelta(t, 100, res.NetRevenue, 1e-9)
	assert.InDelta(t, 80, res.GrossProfit, 1e-9)
	assert.InDelta(t, 80, res.GrossMargin, 1e-9)
	assert.InDelta(t, 72, res.ContributionMargin, 1e-9)
	assert.InDelta(t, 62, res.NetProfit, 1e-9)
	assert.InDelta(t, 38, res.TotalCosts, 1e-9)
	assert.InDelta(t, 38, res.BreakEvenRevenue, 1e-9)
}

func TestProfitZeroRevenueFallsBackToTotalCosts(t *testing.T) {
	res := Profit(ProfitInput{COGS: 20, Shipping: 5, CAC: 10})
	// with zero revenue the denominator involves 0/0; break-even reports
	// total costs instead of NaN
	assert.False(t, math.IsNaN(res.BreakEvenRevenue))
	assert.False(t, math.IsInf(res.BreakEvenRevenue, 0))
	assert.InDelta(t, 35, res.BreakEvenRevenue, 1e-9)
	assert.Zero(t, res.GrossMargin)
}

func TestProfitRefundAndDiscount(t *testing.T) {
	res := Profit(ProfitInput{Revenue: 200, Discounts: 20, RefundRate: 10, COGS: 50})
	// 200 - 20 - 200*0.10 = 160
	assert.InDelta(t, 160, res.NetRevenue, 1e-9)
	assert.InDelta(t, 110, res.GrossProfit, 1e-9)
	// totalCosts / (1 - 0.10 - 20/200) = 50 / 0.8
	assert.InDelta(t, 62.5, res.BreakEvenRevenue, 1e-9)
}

func TestBreakEvenROAS(t *testing.T) {
	res := BreakEvenROAS(ROASInput{
		AOV:           100,
		COGS:          40,
		Shipping:      10,
		PaymentFees:   5,
		OtherCosts:    5,
		DesiredMargin: 10,
	})
	assert.InDelta(t, 100, res.NetRevenue, 1e-9)
	assert.InDelta(t, 40, res.ContributionMargin, 1e-9)
	assert.InDelta(t, 2.5, res.BreakEvenROAS, 1e-9)
	assert.InDelta(t, 100.0/30.0, res.TargetROAS, 1e-9)
	assert.InDelta(t, 40, res.MaxCPA, 1e-9)
	assert.InDelta(t, 30, res.MaxCPAWithMargin, 1e-9)
	assert.InDelta(t, 10, res.ProfitPerOrder, 1e-9)
}

func TestBreakEvenROASNegativeMargin(t *testing.T) {
	res := BreakEvenROAS(ROASInput{AOV: 50, COGS: 60})
	assert.Zero(t, res.BreakEvenROAS)
	assert.Zero(t, res.MaxCPA)
	assert.Zero(t, res.MaxCPAWithMargin)
	assert.Zero(t, res.ProfitPerOrder, "profit per order never goes negative")
}

func TestBreakEvenROASTargetFallback(t *testing.T) {
	// desired margin consumes the whole contribution margin; target ROAS
	// falls back to twice break-even
	res := BreakEvenROAS(ROASInput{AOV: 100, COGS: 60, DesiredMargin: 40})
	assert.InDelta(t, 2.5, res.BreakEvenROAS, 1e-9)
	assert.InDelta(t, 5, res.TargetROAS, 1e-9)
}

func TestLTVCACHealthy(t *testing.T) {
	res := LTVCAC(LTVInput{
		AOV:               50,
		PurchaseFrequency: 4,
		Lifespan:          3,
		GrossMargin:       40,
		CAC:               60,
	})
	assert.InDelta(t, 12, res.TotalOrders, 1e-9)
	assert.InDelta(t, 600, res.RevenueLTV, 1e-9)
	assert.InDelta(t, 240, res.GrossProfitLTV, 1e-9)
	assert.InDelta(t, 180, res.NetProfitLTV, 1e-9)
	assert.InDelta(t, 4, res.Ratio, 1e-9)
	assert.InDelta(t, 9, res.PaybackMonths, 1e-9)
	assert.InDelta(t, 300, res.ROI, 1e-9)
	assert.True(t, res.IsHealthy)
	assert.Equal(t, ltvHealthy, res.Recommendation)
}

func TestLTVCACRecommendationPriority(t *testing.T) {
	// ratio < 1 wins over everything else
	res := LTVCAC(LTVInput{AOV: 10, PurchaseFrequency: 1, Lifespan: 1, GrossMargin: 50, CAC: 100})
	assert.Less(t, res.Ratio, 1.0)
	assert.Equal(t, ltvCritical, res.Recommendation)
	assert.False(t, res.IsHealthy)

	// 1 <= ratio < 3
	res = LTVCAC(LTVInput{AOV: 100, PurchaseFrequency: 2, Lifespan: 1, GrossMargin: 50, CAC: 50})
	assert.GreaterOrEqual(t, res.Ratio, 1.0)
	assert.Less(t, res.Ratio, 3.0)
	assert.Equal(t, ltvCaution, res.Recommendation)
}

func TestLTVCACZeroCAC(t *testing.T) {
	res := LTVCAC(LTVInput{AOV: 50, PurchaseFrequency: 4, Lifespan: 3, GrossMargin: 40})
	assert.Zero(t, res.Ratio)
	assert.Zero(t, res.PaybackMonths)
	assert.Zero(t, res.ROI)
}

func TestReturnsImpact(t *testing.T) {
	res := ReturnsImpact(ReturnsInput{
		MonthlyOrders:    1000,
		AOV:              50,
		ReturnRate:       10,
		RecoveryRate:     80,
		OutboundShipping: 5,
		ReturnShipping:   4,
		ProcessingCost:   2,
		RestockingFee:    5,
	})
	assert.InDelta(t, 100, res.ExpectedReturns, 1e-9)
	assert.InDelta(t, 500, res.LostOutbound, 1e-9)
	assert.InDelta(t, 400, res.ReturnShippingCost, 1e-9)
	assert.InDelta(t, 200, res.ProcessingTotal, 1e-9)
	assert.InDelta(t, 1000, res.UnrecoveredValue, 1e-9)
	assert.InDelta(t, 250, res.RestockingFees, 1e-9)
	assert.InDelta(t, 1850, res.MonthlyCost, 1e-9)
	assert.InDelta(t, 22200, res.AnnualCost, 1e-9)
	assert.InDelta(t, 18.5, res.CostPerReturn, 1e-9)
	assert.InDelta(t, 1.85, res.CostPerOrder, 1e-9)
	// return shipping > 50% of outbound triggers one advisory
	assert.Len(t, res.Advisories, 1)
}

func TestReturnsImpactAllClear(t *testing.T) {
	res := ReturnsImpact(ReturnsInput{
		MonthlyOrders:    1000,
		AOV:              100,
		ReturnRate:       5,
		RecoveryRate:     90,
		OutboundShipping: 6,
		ReturnShipping:   2,
		ProcessingCost:   1,
	})
	assert.Equal(t, []string{"Return metrics are within acceptable ranges."}, res.Advisories)
}

func TestReturnsImpactZeroOrders(t *testing.T) {
	res := ReturnsImpact(ReturnsInput{RecoveryRate: 90})
	assert.Zero(t, res.CostPerReturn)
	assert.Zero(t, res.CostPerOrder)
	assert.Zero(t, res.MonthlyCost)
}

func TestBundlePricing(t *testing.T) {
	res := BundlePricing(BundleInput{
		UnitPrice:      20,
		BundleSize:     3,
		UnitCOGS:       6,
		UnitShipping:   3,
		BundleShipping: 5,
		TargetMargin:   30,
		FeePercent:     2.9,
		FeeFixed:       0.30,
	})
	assert.InDelta(t, 23, res.BundleCost, 1e-9)
	assert.InDelta(t, 35, res.SuggestedPrice, 1e-9)
	assert.GreaterOrEqual(t, res.SuggestedPrice, res.MinimumPrice)
	assert.GreaterOrEqual(t, res.BundleMargin, 30.0, "suggested price keeps target margin")
	assert.InDelta(t, 60, res.SeparateRevenue, 1e-9)
	assert.InDelta(t, 25, res.DiscountAmount, 1e-9)
}

func TestBundleSuggestedPriceAlwaysMultipleOfFive(t *testing.T) {
	inputs := []BundleInput{
		{UnitPrice: 9.99, BundleSize: 2, UnitCOGS: 3, TargetMargin: 40, FeePercent: 2.9, FeeFixed: 0.30},
		{UnitPrice: 120, BundleSize: 5, UnitCOGS: 55, BundleShipping: 12, TargetMargin: 25, FeePercent: 3.5},
		{UnitPrice: 7, BundleSize: 10, UnitCOGS: 2.5, TargetMargin: 50},
	}
	for _, in := range inputs {
		res := BundlePricing(in)
		assert.InDelta(t, 0, math.Mod(res.SuggestedPrice, 5), 1e-9)
		assert.GreaterOrEqual(t, res.SuggestedPrice, res.MinimumPrice)
	}
}

func TestShopifyFeesBasicThirdParty(t *testing.T) {
	res := ShopifyFees(FeesInput{Plan: PlanBasic, Processor: ProcessorThirdParty, OrderValue: 100})
	assert.InDelta(t, 3.20, res.ProcessingFee, 1e-9)
	assert.InDelta(t, 2.00, res.TransactionFee, 1e-9)
	assert.InDelta(t, 5.20, res.TotalFees, 1e-9)
	assert.InDelta(t, 94.80, res.NetAmount, 1e-9)
	assert.InDelta(t, 5.20, res.EffectiveFeeRate, 1e-9)
}

func TestShopifyFeesOwnProcessorSkipsTransactionFee(t *testing.T) {
	res := ShopifyFees(FeesInput{Plan: PlanShopify, Processor: ProcessorShopifyPayments, OrderValue: 100})
	assert.InDelta(t, 2.90, res.ProcessingFee, 1e-9)
	assert.Zero(t, res.TransactionFee)
}

func TestShopifyFeesPlusTierNoThirdPartyFee(t *testing.T) {
	res := ShopifyFees(FeesInput{Plan: PlanPlus, Processor: ProcessorThirdParty, OrderValue: 200})
	assert.Zero(t, res.TransactionFee)
	assert.InDelta(t, 200*2.15/100+0.30, res.ProcessingFee, 1e-9)
}

func TestShopifyFeesUnknownPlanDefaultsToBasic(t *testing.T) {
	got := ShopifyFees(FeesInput{Plan: "enterprise", Processor: ProcessorThirdParty, OrderValue: 100})
	want := ShopifyFees(FeesInput{Plan: PlanBasic, Processor: ProcessorThirdParty, OrderValue: 100})
	assert.Equal(t, want, got)
}

func TestShopifyFeesZeroOrderValue(t *testing.T) {
	res := ShopifyFees(FeesInput{Plan: PlanBasic, Processor: ProcessorShopifyPayments})
	assert.Zero(t, res.EffectiveFeeRate)
	assert.False(t, math.IsNaN(res.EffectiveFeeRate))
}
