package scoring

import (
	"fmt"
	"math"
)

// WeightSet defines the relative importance of each ranking criterion.
// Weights handed to Score are renormalized first, so a WeightSet only has to
// sum to 1.0 (0.001 tolerance) when it comes from configuration.
type WeightSet struct {
	Price        float64 `json:"price" yaml:"price"`
	SuccessRate  float64 `json:"success_rate" yaml:"success_rate"`
	DeliveryTime float64 `json:"delivery_time" yaml:"delivery_time"`
	DenialRate   float64 `json:"denial_rate" yaml:"denial_rate"`
	Orders       float64 `json:"orders" yaml:"orders"`
	Revenue      float64 `json:"revenue" yaml:"revenue"`
}

// DefaultWeights returns the fixed weighting used in forward mode.
// Reliability (success + denial) outweighs cost, which outweighs volume.
func DefaultWeights() WeightSet {
	return WeightSet{
		Price:        0.20,
		SuccessRate:  0.25,
		DeliveryTime: 0.15,
		DenialRate:   0.15,
		Orders:       0.10,
		Revenue:      0.15,
	}
}

// UniformWeights returns 1/6 for every criterion.
func UniformWeights() WeightSet {
	u := 1.0 / NumCriteria
	return WeightSet{Price: u, SuccessRate: u, DeliveryTime: u, DenialRate: u, Orders: u, Revenue: u}
}

// WeightsFromVector builds a WeightSet from a vector in criterion order.
func WeightsFromVector(v [NumCriteria]float64) WeightSet {
	return WeightSet{
		Price:        v[Price],
		SuccessRate:  v[SuccessRate],
		DeliveryTime: v[DeliveryTime],
		DenialRate:   v[DenialRate],
		Orders:       v[Orders],
		Revenue:      v[Revenue],
	}
}

// Vector returns the weights in criterion order.
func (w WeightSet) Vector() [NumCriteria]float64 {
	return [NumCriteria]float64{w.Price, w.SuccessRate, w.DeliveryTime, w.DenialRate, w.Orders, w.Revenue}
}

// Sum returns the total of all weights.
func (w WeightSet) Sum() float64 {
	return w.Price + w.SuccessRate + w.DeliveryTime + w.DenialRate + w.Orders + w.Revenue
}

// Validate checks that weights sum to 1.0 and none are negative.
func (w WeightSet) Validate() error {
	if math.Abs(w.Sum()-1.0) > 0.001 {
		return fmt.Errorf("weights sum to %.4f, must sum to 1.0", w.Sum())
	}
	for i, v := range w.Vector() {
		if v < 0 {
			return fmt.Errorf("negative weight for %s: %f", Criterion(i), v)
		}
	}
	return nil
}

// Normalized clamps negative weights to zero and rescales the rest to sum to 1.
// A set that collapses to zero becomes UniformWeights.
func (w WeightSet) Normalized() WeightSet {
	return WeightsFromVector(NormalizeVector(w.Vector()))
}

// NormalizeVector is Normalized for a raw vector.
func NormalizeVector(v [NumCriteria]float64) [NumCriteria]float64 {
	var total float64
	for i := range v {
		v[i] = math.Max(0, v[i])
		total += v[i]
	}
	if total == 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return UniformWeights().Vector()
	}
	for i := range v {
		v[i] /= total
	}
	return v
}
