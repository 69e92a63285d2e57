package scoring

// NumCriteria is the number of ranking criteria.
const NumCriteria = 6

// Criterion indexes the six ranking criteria. The order is fixed and shared by
// Metrics.Vector, Features and WeightSet.Vector.
type Criterion int

const (
	Price Criterion = iota
	SuccessRate
	DeliveryTime
	DenialRate
	Orders
	Revenue
)

var criterionNames = [NumCriteria]string{
	"price", "success_rate", "delivery_time", "denial_rate", "orders", "revenue",
}

func (c Criterion) String() string {
	if c < 0 || int(c) >= NumCriteria {
		return "unknown"
	}
	return criterionNames[c]
}

// LowerIsBetter reports whether a smaller raw value is preferable.
func (c Criterion) LowerIsBetter() bool {
	return c == Price || c == DeliveryTime || c == DenialRate
}

// Metrics are the raw, pre-aggregated performance figures of one candidate.
// SuccessRate and DenialRate are percentages.
type Metrics struct {
	AvgPrice        float64 `json:"avg_price"`
	SuccessRate     float64 `json:"success_rate"`
	AvgDeliveryTime float64 `json:"avg_delivery_time"`
	DenialRate      float64 `json:"denial_rate"`
	OrdersCount     int64   `json:"orders_count"`
	TotalRevenue    float64 `json:"total_revenue"`
}

// Vector returns the metrics in criterion order.
func (m Metrics) Vector() [NumCriteria]float64 {
	return [NumCriteria]float64{
		m.AvgPrice,
		m.SuccessRate,
		m.AvgDeliveryTime,
		m.DenialRate,
		float64(m.OrdersCount),
		m.TotalRevenue,
	}
}

// Features is a candidate's metrics min-max scaled against its candidate set.
// Every value lies in [0,1].
type Features [NumCriteria]float64
