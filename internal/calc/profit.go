package calc

// ProfitInput holds the per-period figures for the profit calculator.
// Monetary fields share whatever currency the caller uses; RefundRate is a
// percentage.
type ProfitInput struct {
	Revenue         float64 `json:"revenue"`
	COGS            float64 `json:"cogs"`
	Shipping        float64 `json:"shipping"`
	PaymentFees     float64 `json:"payment_fees"`
	TransactionFees float64 `json:"transaction_fees"`
	Discounts       float64 `json:"discounts"`
	CAC             float64 `json:"cac"`
	RefundRate      float64 `json:"refund_rate"`
}

// ProfitResult is the derived profitability breakdown.
type ProfitResult struct {
	NetRevenue         float64 `json:"net_revenue"`
	GrossProfit        float64 `json:"gross_profit"`
	GrossMargin        float64 `json:"gross_margin"`
	ContributionMargin float64 `json:"contribution_margin"`
	NetProfit          float64 `json:"net_profit"`
	TotalCosts         float64 `json:"total_costs"`
	BreakEvenRevenue   float64 `json:"break_even_revenue"`
}

// Profit computes net revenue, margins and the break-even revenue figure.
//
// Break-even revenue divides total costs by (1 - refundRate/100 -
// discounts/revenue). Discounts enter as a ratio against raw revenue even
// though they are an absolute amount elsewhere; that is the established
// behavior of this calculator and is kept as-is. When the expression is not
// finite (revenue of zero, or the denominator collapsing), total costs are
// reported instead.
func Profit(in ProfitInput) ProfitResult {
	netRevenue := in.Revenue - in.Discounts - in.Revenue*in.RefundRate/100

	grossProfit := netRevenue - in.COGS
	grossMargin := 0.0
	if netRevenue > 0 {
		grossMargin = grossProfit / netRevenue * 100
	}

	variableCosts := in.COGS + in.Shipping + in.PaymentFees + in.TransactionFees
	contributionMargin := netRevenue - variableCosts
	netProfit := contributionMargin - in.CAC

	totalCosts := variableCosts + in.CAC
	breakEven := finiteOr(totalCosts/(1-in.RefundRate/100-in.Discounts/in.Revenue), totalCosts)

	return ProfitResult{
		NetRevenue:         netRevenue,
		GrossProfit:        grossProfit,
		GrossMargin:        grossMargin,
		ContributionMargin: contributionMargin,
		NetProfit:          netProfit,
		TotalCosts:         totalCosts,
		BreakEvenRevenue:   breakEven,
	}
}
