package units

import (
	"math"
	"testing"
)

func TestWeightMetric(t *testing.T) {
	tests := []struct {
		kg   float64
		want Quantity
	}{
		{0, Quantity{0, Gram}},
		{0.5, Quantity{500, Gram}},
		{0.9994, Quantity{999, Gram}},
		{0.9995, Quantity{1, Kilogram}},
		{4.54, Quantity{4.5, Kilogram}},
		{4.56, Quantity{4.6, Kilogram}},
	}
	for _, tt := range tests {
		if got := Weight(tt.kg, true); got != tt.want {
			t.Fatalf("Weight(%v, metric) = %+v, want %+v", tt.kg, got, tt.want)
		}
	}
}

func TestWeightUS(t *testing.T) {
	tests := []struct {
		kg   float64
		want Quantity
	}{
		{0.028, Quantity{1, Ounce}},
		{0.45, Quantity{15.9, Ounce}},
		{0.4515, Quantity{1, Pound}},
		{4.5, Quantity{9.92, Pound}},
	}
	for _, tt := range tests {
		if got := Weight(tt.kg, false); got != tt.want {
			t.Fatalf("Weight(%v, us) = %+v, want %+v", tt.kg, got, tt.want)
		}
	}
}

func TestWeightUnitSelectionBoundaries(t *testing.T) {
	for i := 0; i <= 3000; i++ {
		a := float64(i) / 1000
		m := Weight(a, true)
		if (a < 0.9995) != (m.Unit == Gram) {
			t.Fatalf("metric unit for %v: got %s", a, m.Unit)
		}
		u := Weight(a, false)
		if (a*PoundsPerKilogram < 0.995) != (u.Unit == Ounce) {
			t.Fatalf("us unit for %v: got %s", a, u.Unit)
		}
	}
}

func TestHopWeightsKeepTwoKilogramDigits(t *testing.T) {
	got := HopWeights.Convert(1.234, true)
	if got != (Quantity{1.23, Kilogram}) {
		t.Fatalf("unexpected hop weight %+v", got)
	}
	if got := Weight(1.234, true); got != (Quantity{1.2, Kilogram}) {
		t.Fatalf("unexpected fermentable weight %+v", got)
	}
}

func TestWeightPolicyThresholdsConfigurable(t *testing.T) {
	p := FermentableWeights
	p.MetricSmallBelow = 0.1
	if got := p.Convert(0.5, true); got.Unit != Kilogram {
		t.Fatalf("expected kg with lowered threshold, got %+v", got)
	}
}

func TestVolume(t *testing.T) {
	if got := Volume(20, false, 1); got != (Quantity{5.3, Gallon}) {
		t.Fatalf("batch size us: %+v", got)
	}
	if got := Volume(20, false, 1).String(); got != "5.3 gal" {
		t.Fatalf("batch size string: %q", got)
	}
	if got := Volume(20.04, true, 1); got != (Quantity{20, Liter}) {
		t.Fatalf("batch size metric: %+v", got)
	}
	if got := Volume(12.5, false, 2); got != (Quantity{3.3, Gallon}) {
		t.Fatalf("infusion us: %+v", got)
	}
}

func TestTime(t *testing.T) {
	tests := []struct {
		minutes float64
		want    Quantity
	}{
		{1440, Quantity{1, Day}},
		{1439, Quantity{1439, Minute}},
		{60.4, Quantity{60, Minute}},
		{2880, Quantity{2, Days}},
		{2000, Quantity{1.4, Days}},
		{0, Quantity{0, Minute}},
	}
	for _, tt := range tests {
		if got := Time(tt.minutes); got != tt.want {
			t.Fatalf("Time(%v) = %+v, want %+v", tt.minutes, got, tt.want)
		}
	}
}

func TestMiscAmount(t *testing.T) {
	if got := MiscAmount(0.005, true); got != (Quantity{5, Gram}) {
		t.Fatalf("metric misc: %+v", got)
	}
	if got := MiscAmount(0.005, false); got != (Quantity{0.2, Ounce}) {
		t.Fatalf("us misc: %+v", got)
	}
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		v      float64
		places int32
		want   float64
	}{
		{1.005, 2, 1.01},
		{2.5, 0, 3},
		{-2.5, 0, -3},
		{1.04999, 1, 1},
		{152.60000000000002, 1, 152.6},
	}
	for _, tt := range tests {
		if got := Round(tt.v, tt.places); got != tt.want {
			t.Fatalf("Round(%v, %d) = %v, want %v", tt.v, tt.places, got, tt.want)
		}
	}
	if !math.IsNaN(Round(math.NaN(), 1)) {
		t.Fatalf("NaN should pass through")
	}
}

func TestQuantityString(t *testing.T) {
	if s := (Quantity{20, Liter}).String(); s != "20 L" {
		t.Fatalf("got %q", s)
	}
	if s := (Quantity{9.92, Pound}).String(); s != "9.92 lbs" {
		t.Fatalf("got %q", s)
	}
	if s := (Quantity{Value: math.Copysign(0, -1)}).String(); s != "0" {
		t.Fatalf("got %q", s)
	}
}
