package calc

// ROASInput describes a single order's economics for the break-even ROAS
// calculator. Costs are per order; Discount, RefundRate and DesiredMargin
// are percentages.
type ROASInput struct {
	AOV           float64 `json:"aov"`
	COGS          float64 `json:"cogs"`
	Shipping      float64 `json:"shipping"`
	PaymentFees   float64 `json:"payment_fees"`
	OtherCosts    float64 `json:"other_costs"`
	Discount      float64 `json:"discount"`
	RefundRate    float64 `json:"refund_rate"`
	DesiredMargin float64 `json:"desired_margin"`
}

// ROASResult carries the break-even and target ad-spend metrics.
type ROASResult struct {
	NetRevenue         float64 `json:"net_revenue"`
	ContributionMargin float64 `json:"contribution_margin"`
	BreakEvenROAS      float64 `json:"break_even_roas"`
	TargetROAS         float64 `json:"target_roas"`
	MaxCPA             float64 `json:"max_cpa"`
	MaxCPAWithMargin   float64 `json:"max_cpa_with_margin"`
	ProfitPerOrder     float64 `json:"profit_per_order"`
}

// BreakEvenROAS computes the minimum and target return-on-ad-spend ratios for
// one order. Break-even ROAS is revenue over contribution margin (0 when the
// margin is not positive). The target ROAS reserves the desired profit out of
// the contribution margin; when nothing is left for ad spend it falls back to
// twice the break-even ROAS. Profit per order at the target is floored at 0.
func BreakEvenROAS(in ROASInput) ROASResult {
	netRevenue := in.AOV - in.AOV*in.Discount/100 - in.AOV*in.RefundRate/100
	contributionMargin := netRevenue - (in.COGS + in.Shipping + in.PaymentFees + in.OtherCosts)

	breakEven := 0.0
	if contributionMargin > 0 {
		breakEven = in.AOV / contributionMargin
	}

	desiredProfit := in.AOV * in.DesiredMargin / 100
	allowableSpend := contributionMargin - desiredProfit

	target := 0.0
	if allowableSpend > 0 {
		target = in.AOV / allowableSpend
	} else {
		target = 2 * breakEven
	}

	maxCPA := contributionMargin
	if maxCPA < 0 {
		maxCPA = 0
	}
	maxCPAWithMargin := allowableSpend
	if maxCPAWithMargin < 0 {
		maxCPAWithMargin = 0
	}

	spendAtTarget := safeDiv(in.AOV, target)
	profitPerOrder := contributionMargin - spendAtTarget
	if profitPerOrder < 0 {
		profitPerOrder = 0
	}

	return ROASResult{
		NetRevenue:         netRevenue,
		ContributionMargin: contributionMargin,
		BreakEvenROAS:      breakEven,
		TargetROAS:         target,
		MaxCPA:             maxCPA,
		MaxCPAWithMargin:   maxCPAWithMargin,
		ProfitPerOrder:     profitPerOrder,
	}
}
