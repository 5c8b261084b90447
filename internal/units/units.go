// Package units converts recipe quantities into display values.
//
// BeerXML stores everything in metric base units (kilograms, liters,
// degrees Celsius, minutes). The functions here pick the unit a reader
// expects for a given system of measurement and round the value for
// display. They are pure and never fail on numeric input.
package units

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Display labels.
const (
	Gram       = "g"
	Kilogram   = "kg"
	Ounce      = "oz"
	Pound      = "lbs"
	Liter      = "L"
	Gallon     = "gal"
	Celsius    = "C"
	Fahrenheit = "F"
	Minute     = "min"
	Day        = "day"
	Days       = "days"
)

// Conversion factors from metric base units.
const (
	PoundsPerKilogram = 2.20462
	OuncesPerPound    = 16.0
	OuncesPerKilogram = 35.274
	GallonsPerLiter   = 0.264172
	MinutesPerDay     = 1440.0
)

// Quantity is a rounded display value with its unit label.
type Quantity struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// String formats the quantity as "<value> <unit>" using the shortest
// decimal form of the value, so 20.0 prints as "20".
func (q Quantity) String() string {
	if q.Unit == "" {
		return FormatNumber(q.Value)
	}
	return FormatNumber(q.Value) + " " + q.Unit
}

// FormatNumber prints v in its shortest decimal form.
func FormatNumber(v float64) string {
	if v == 0 {
		// avoids "-0"
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Round rounds v to the given number of decimal places, halves away from
// zero. Rounding works on the shortest decimal representation of v, so
// 1.005 rounds up to 1.01 the way a reader expects.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// WeightPolicy decides when a weight is shown in the smaller unit of its
// system and how many decimals each unit keeps. Amounts below the
// thresholds switch to the small unit (grams or ounces) so that values
// read as whole-ish numbers.
type WeightPolicy struct {
	// MetricSmallBelow is the kilogram amount under which grams are used.
	MetricSmallBelow float64
	// USSmallBelow is the pound amount under which ounces are used.
	USSmallBelow float64

	GramDigits     int32
	KilogramDigits int32
	OunceDigits    int32
	PoundDigits    int32
}

var (
	// FermentableWeights is the policy for grain and extract bills.
	FermentableWeights = WeightPolicy{
		MetricSmallBelow: 0.9995,
		USSmallBelow:     0.995,
		GramDigits:       0,
		KilogramDigits:   1,
		OunceDigits:      1,
		PoundDigits:      2,
	}

	// HopWeights keeps an extra kilogram decimal since hop additions over
	// a kilogram are rare and usually precise.
	HopWeights = WeightPolicy{
		MetricSmallBelow: 0.9995,
		USSmallBelow:     0.995,
		GramDigits:       0,
		KilogramDigits:   2,
		OunceDigits:      1,
		PoundDigits:      2,
	}
)

// Convert turns an amount in kilograms into a display weight.
func (p WeightPolicy) Convert(kg float64, metric bool) Quantity {
	if metric {
		if kg < p.MetricSmallBelow {
			return Quantity{Value: Round(kg*1000, p.GramDigits), Unit: Gram}
		}
		return Quantity{Value: Round(kg, p.KilogramDigits), Unit: Kilogram}
	}
	lb := kg * PoundsPerKilogram
	if lb < p.USSmallBelow {
		return Quantity{Value: Round(lb*OuncesPerPound, p.OunceDigits), Unit: Ounce}
	}
	return Quantity{Value: Round(lb, p.PoundDigits), Unit: Pound}
}

// Weight converts kilograms with FermentableWeights.
func Weight(kg float64, metric bool) Quantity {
	return FermentableWeights.Convert(kg, metric)
}

// Volume converts liters to liters or US gallons, rounded to digits.
func Volume(liters float64, metric bool, digits int32) Quantity {
	if metric {
		return Quantity{Value: Round(liters, digits), Unit: Liter}
	}
	return Quantity{Value: Round(liters*GallonsPerLiter, digits), Unit: Gallon}
}

// Time converts minutes into whole minutes, or into days once the value
// reaches a full day.
func Time(minutes float64) Quantity {
	if minutes >= MinutesPerDay {
		days := Round(minutes/MinutesPerDay, 1)
		return Quantity{Value: days, Unit: DayLabel(days)}
	}
	return Quantity{Value: Round(minutes, 0), Unit: Minute}
}

// DayLabel returns the singular label for exactly one day.
func DayLabel(n float64) string {
	if n == 1 {
		return Day
	}
	return Days
}

// MiscAmount converts a misc ingredient amount (kilograms) to grams or
// ounces with one decimal.
func MiscAmount(amount float64, metric bool) Quantity {
	if metric {
		return Quantity{Value: Round(amount*1000, 1), Unit: Gram}
	}
	return Quantity{Value: Round(amount*OuncesPerKilogram, 1), Unit: Ounce}
}
