package calc

import "fmt"

// ReturnsInput describes a month of order volume and the unit costs of
// handling returns. Rates and the restocking fee are percentages.
type ReturnsInput struct {
	MonthlyOrders    float64 `json:"monthly_orders"`
	AOV              float64 `json:"aov"`
	ReturnRate       float64 `json:"return_rate"`
	RecoveryRate     float64 `json:"recovery_rate"`
	OutboundShipping float64 `json:"outbound_shipping"`
	ReturnShipping   float64 `json:"return_shipping"`
	ProcessingCost   float64 `json:"processing_cost"`
	RestockingFee    float64 `json:"restocking_fee"`
}

// ReturnsResult breaks down what returns cost per month.
type ReturnsResult struct {
	ExpectedReturns    float64  `json:"expected_returns"`
	LostOutbound       float64  `json:"lost_outbound"`
	ReturnShippingCost float64  `json:"return_shipping_cost"`
	ProcessingTotal    float64  `json:"processing_total"`
	UnrecoveredValue   float64  `json:"unrecovered_value"`
	RestockingFees     float64  `json:"restocking_fees"`
	MonthlyCost        float64  `json:"monthly_cost"`
	AnnualCost         float64  `json:"annual_cost"`
	CostPerReturn      float64  `json:"cost_per_return"`
	CostPerOrder       float64  `json:"cost_per_order"`
	Advisories         []string `json:"advisories"`
}

// ReturnsImpact computes the monthly and annual cost of product returns and a
// set of advisories. Each advisory triggers independently on a fixed
// threshold; when none trigger a single all-clear message is emitted.
func ReturnsImpact(in ReturnsInput) ReturnsResult {
	returns := in.MonthlyOrders * in.ReturnRate / 100

	lostOutbound := returns * in.OutboundShipping
	returnShipping := returns * in.ReturnShipping
	processing := returns * in.ProcessingCost
	unrecovered := returns * in.AOV * (1 - in.RecoveryRate/100)
	restocking := returns * in.AOV * in.RestockingFee / 100

	monthly := lostOutbound + returnShipping + processing + unrecovered - restocking
	costPerReturn := safeDiv(monthly, returns)
	costPerOrder := safeDiv(monthly, in.MonthlyOrders)

	var advisories []string
	if in.ReturnRate > 15 {
		advisories = append(advisories, fmt.Sprintf("Return rate of %.1f%% is above the 15%% benchmark. Review sizing guides and product descriptions.", in.ReturnRate))
	}
	if in.RecoveryRate < 70 {
		advisories = append(advisories, fmt.Sprintf("Only %.1f%% of returned product value is recovered. Aim for at least 70%% via restock or resale channels.", in.RecoveryRate))
	}
	if in.ReturnShipping > in.OutboundShipping*0.5 {
		advisories = append(advisories, "Return shipping costs more than half of outbound shipping. Negotiate return rates or consider returnless refunds on low-value items.")
	}
	if costPerOrder > in.AOV*0.1 {
		advisories = append(advisories, "Returns eat more than 10% of average order value. Returns are materially dragging on margin.")
	}
	if len(advisories) == 0 {
		advisories = append(advisories, "Return metrics are within acceptable ranges.")
	}

	return ReturnsResult{
		ExpectedReturns:    returns,
		LostOutbound:       lostOutbound,
		ReturnShippingCost: returnShipping,
		ProcessingTotal:    processing,
		UnrecoveredValue:   unrecovered,
		RestockingFees:     restocking,
		MonthlyCost:        monthly,
		AnnualCost:         monthly * 12,
		CostPerReturn:      costPerReturn,
		CostPerOrder:       costPerOrder,
		Advisories:         advisories,
	}
}
