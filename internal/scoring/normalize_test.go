package scoring

import (
	"errors"
	"math"
	"testing"
)

func TestNormalizeEmpty(t *testing.T) {
	_, err := Normalize(nil)
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestNormalizeRange(t *testing.T) {
	metrics := []Metrics{
		{AvgPrice: 100, SuccessRate: 90, AvgDeliveryTime: 2, DenialRate: 5, OrdersCount: 10, TotalRevenue: 1000},
		{AvgPrice: 200, SuccessRate: 80, AvgDeliveryTime: 4, DenialRate: 10, OrdersCount: 30, TotalRevenue: 3000},
		{AvgPrice: 150, SuccessRate: 85, AvgDeliveryTime: 3, DenialRate: 7.5, OrdersCount: 20, TotalRevenue: 2000},
	}
	got, err := Normalize(metrics)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(got) != len(metrics) {
		t.Fatalf("expected %d vectors, got %d", len(metrics), len(got))
	}

	want := []Features{
		{0, 1, 0, 0, 0, 0},
		{1, 0, 1, 1, 1, 1},
		{0.5, 0.5, 0.5, 0.5, 0.5, 0.5},
	}
	for i := range want {
		for c := range want[i] {
			if math.Abs(got[i][c]-want[i][c]) > eps {
				t.Errorf("candidate %d %s = %f, expected %f", i, Criterion(c), got[i][c], want[i][c])
			}
		}
	}
}

func TestNormalizeConstantCriterion(t *testing.T) {
	metrics := []Metrics{
		{AvgPrice: 50, SuccessRate: 100, OrdersCount: 5},
		{AvgPrice: 50, SuccessRate: 100, OrdersCount: 9},
		{AvgPrice: 50, SuccessRate: 100, OrdersCount: 7},
	}
	got, err := Normalize(metrics)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	for i, f := range got {
		for _, c := range []Criterion{Price, SuccessRate, DeliveryTime, DenialRate, Revenue} {
			if math.IsNaN(f[c]) {
				t.Fatalf("candidate %d %s is NaN", i, c)
			}
			if f[c] != got[0][c] {
				t.Errorf("candidate %d %s = %f, expected constant %f", i, c, f[c], got[0][c])
			}
		}
	}
	if got[1][Orders] != 1 || got[0][Orders] != 0 {
		t.Errorf("varying criterion not scaled: %v", got)
	}
}

func TestNormalizeSingleCandidate(t *testing.T) {
	got, err := Normalize([]Metrics{{AvgPrice: 10, SuccessRate: 50, OrdersCount: 3}})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	for c, v := range got[0] {
		if v != 0 {
			t.Errorf("%s = %f, expected 0", Criterion(c), v)
		}
	}
}
