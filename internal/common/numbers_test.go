package common

import (
	"math"
	"testing"
)

func TestIsInRange(t *testing.T) {
	tests := []struct {
		lo, v, hi float64
		want      bool
	}{
		{0, 0, 1, true},
		{0, 1, 1, true},
		{0, 0.5, 1, true},
		{0, -0.01, 1, false},
		{0, 1.01, 1, false},
		{0, math.NaN(), 1, false},
	}

	for _, tt := range tests {
		if got := IsInRange(tt.lo, tt.v, tt.hi); got != tt.want {
			t.Errorf("IsInRange(%v, %v, %v) = %v, want %v", tt.lo, tt.v, tt.hi, got, tt.want)
		}
	}

	if !IsInRange(1, 3, 5) || IsInRange(1, 6, 5) {
		t.Error("IsInRange on ints")
	}

	if IsScore(math.Inf(1)) || !IsScore(0.6) {
		t.Error("IsScore")
	}
}
