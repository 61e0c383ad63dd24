package mathutil

import (
	"math"
	"testing"
)

func TestCalculatePercentage(t *testing.T) {
	tests := []struct {
		name         string
		value, total float64
		expected     float64
	}{
		{"Quarter", 25, 100, 25},
		{"Zero total", 10, 0, 0},
		{"Whole", 660, 660, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculatePercentage(tt.value, tt.total); !WithinTolerance(got, tt.expected, 1e-9) {
				t.Errorf("CalculatePercentage(%v, %v) = %v, expected %v", tt.value, tt.total, got, tt.expected)
			}
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(12594.004, 12594, 0.005) {
		t.Error("expected values within tolerance")
	}
	if WithinTolerance(1, 2, 0.5) {
		t.Error("expected values outside tolerance")
	}
}

func TestPercentToDecimal(t *testing.T) {
	if got := PercentToDecimal(10); !WithinTolerance(got, 0.1, 1e-12) {
		t.Errorf("PercentToDecimal(10) = %v, want 0.1", got)
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1.5) {
		t.Error("expected 1.5 to be finite")
	}
	if IsFinite(math.NaN()) {
		t.Error("expected NaN to be non-finite")
	}
	if IsFinite(math.Inf(-1)) {
		t.Error("expected -Inf to be non-finite")
	}
}
