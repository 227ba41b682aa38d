package calc

// Plan identifies a Shopify subscription tier.
type Plan string

const (
	PlanBasic    Plan = "basic"
	PlanShopify  Plan = "shopify"
	PlanAdvanced Plan = "advanced"
	PlanPlus     Plan = "plus"
)

// Processor identifies who handles the payment.
type Processor string

const (
	ProcessorShopifyPayments Processor = "shopify_payments"
	ProcessorThirdParty      Processor = "third_party"
)

// planRates holds the per-tier fee structure: card processing percent plus a
// flat fee, and the extra transaction percent charged when a third-party
// processor is used instead of Shopify Payments.
type planRates struct {
	ProcessingPercent float64
	ProcessingFixed   float64
	ThirdPartyPercent float64
}

var feeTable = map[Plan]planRates{
	PlanBasic:    {ProcessingPercent: 2.9, ProcessingFixed: 0.30, ThirdPartyPercent: 2.0},
	PlanShopify:  {ProcessingPercent: 2.6, ProcessingFixed: 0.30, ThirdPartyPercent: 1.0},
	PlanAdvanced: {ProcessingPercent: 2.4, ProcessingFixed: 0.30, ThirdPartyPercent: 0.5},
	PlanPlus:     {ProcessingPercent: 2.15, ProcessingFixed: 0.30, ThirdPartyPercent: 0},
}

// FeesInput selects a plan tier, processor and the order amount to estimate
// fees for.
type FeesInput struct {
	Plan       Plan      `json:"plan"`
	Processor  Processor `json:"processor"`
	OrderValue float64   `json:"order_value"`
}

// FeesResult breaks the estimate down into its components.
type FeesResult struct {
	ProcessingFee    float64 `json:"processing_fee"`
	TransactionFee   float64 `json:"transaction_fee"`
	TotalFees        float64 `json:"total_fees"`
	EffectiveFeeRate float64 `json:"effective_fee_rate"`
	NetAmount        float64 `json:"net_amount"`
}

// ShopifyFees estimates the fees taken out of a single order. Unknown plans
// fall back to the basic tier; the transaction fee applies only with a
// third-party processor.
func ShopifyFees(in FeesInput) FeesResult {
	rates, ok := feeTable[in.Plan]
	if !ok {
		rates = feeTable[PlanBasic]
	}

	processing := in.OrderValue*rates.ProcessingPercent/100 + rates.ProcessingFixed
	transaction := 0.0
	if in.Processor == ProcessorThirdParty {
		transaction = in.OrderValue * rates.ThirdPartyPercent / 100
	}

	total := processing + transaction
	return FeesResult{
		ProcessingFee:    processing,
		TransactionFee:   transaction,
		TotalFees:        total,
		EffectiveFeeRate: safeDiv(total, in.OrderValue) * 100,
		NetAmount:        in.OrderValue - total,
	}
}
