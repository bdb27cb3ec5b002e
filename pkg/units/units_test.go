package units

import "testing"

func TestRound(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{20.5, 21},
		{20.49, 20},
		{-45.5, -45},
		{-45.6, -46},
		{0, 0},
	}
	for _, tt := range tests {
		if got := Round(tt.in); got != tt.want {
			t.Errorf("Round(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConversionRoundTrip(t *testing.T) {
	if got := ToMeters(ToFeet(10)); got < 9.9999 || got > 10.0001 {
		t.Errorf("ToMeters(ToFeet(10)) = %v, want ~10", got)
	}
}
