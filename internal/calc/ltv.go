package calc

// Recommendation severities, in the priority order they are evaluated.
const (
	ltvCritical = "Critical: each customer costs more to acquire than they return. Reduce CAC or increase order value before scaling ad spend."
	ltvCaution  = "Caution: an LTV:CAC ratio under 3 leaves little room for overhead. Improve retention or margins before scaling."
	ltvWarning  = "Warning: payback takes longer than 12 months. Acquisition spend is recovered slowly; watch cash flow."
	ltvHealthy  = "Healthy: unit economics support scaling acquisition."
)

// LTVInput describes customer lifetime economics. PurchaseFrequency is orders
// per period and Lifespan is measured in the same periods (typically years).
type LTVInput struct {
	AOV               float64 `json:"aov"`
	PurchaseFrequency float64 `json:"purchase_frequency"`
	Lifespan          float64 `json:"lifespan"`
	GrossMargin       float64 `json:"gross_margin"`
	CAC               float64 `json:"cac"`
	Discount          float64 `json:"discount"`
	RefundRate        float64 `json:"refund_rate"`
}

// LTVResult carries lifetime value metrics and an overall health verdict.
type LTVResult struct {
	TotalOrders    float64 `json:"total_orders"`
	RevenueLTV     float64 `json:"revenue_ltv"`
	NetRevenueLTV  float64 `json:"net_revenue_ltv"`
	GrossProfitLTV float64 `json:"gross_profit_ltv"`
	NetProfitLTV   float64 `json:"net_profit_ltv"`
	Ratio          float64 `json:"ratio"`
	PaybackMonths  float64 `json:"payback_months"`
	ROI            float64 `json:"roi"`
	Recommendation string  `json:"recommendation"`
	IsHealthy      bool    `json:"is_healthy"`
}

// LTVCAC computes lifetime value against acquisition cost. Ratio, payback and
// ROI all report 0 when CAC is not positive; payback also reports 0 when
// monthly gross profit is not positive. The recommendation is picked by fixed
// priority: ratio under 1, then ratio under 3, then payback over 12 months,
// otherwise healthy.
func LTVCAC(in LTVInput) LTVResult {
	totalOrders := in.PurchaseFrequency * in.Lifespan
	revenueLTV := in.AOV * totalOrders
	netRevenueLTV := revenueLTV - revenueLTV*in.Discount/100 - revenueLTV*in.RefundRate/100
	grossProfitLTV := netRevenueLTV * in.GrossMargin / 100
	netProfitLTV := grossProfitLTV - in.CAC

	ratio := 0.0
	payback := 0.0
	roi := 0.0
	if in.CAC > 0 {
		ratio = grossProfitLTV / in.CAC
		roi = (grossProfitLTV - in.CAC) / in.CAC * 100
		monthlyProfit := safeDiv(grossProfitLTV, in.Lifespan*12)
		if monthlyProfit > 0 {
			payback = in.CAC / monthlyProfit
		}
	}

	var rec string
	switch {
	case ratio < 1:
		rec = ltvCritical
	case ratio < 3:
		rec = ltvCaution
	case payback > 12:
		rec = ltvWarning
	default:
		rec = ltvHealthy
	}

	return LTVResult{
		TotalOrders:    totalOrders,
		RevenueLTV:     revenueLTV,
		NetRevenueLTV:  netRevenueLTV,
		GrossProfitLTV: grossProfitLTV,
		NetProfitLTV:   netProfitLTV,
		Ratio:          ratio,
		PaybackMonths:  payback,
		ROI:            roi,
		Recommendation: rec,
		IsHealthy:      ratio >= 3 && payback <= 12,
	}
}
