package units

import (
	"strconv"
	"strings"
)

// Scale is a temperature scale.
type Scale int

const (
	ScaleCelsius Scale = iota
	ScaleFahrenheit
)

// Label returns the display label of the scale.
func (s Scale) Label() string {
	if s == ScaleFahrenheit {
		return Fahrenheit
	}
	return Celsius
}

// CelsiusToFahrenheit converts without rounding.
func CelsiusToFahrenheit(c float64) float64 { return c*9/5 + 32 }

// FahrenheitToCelsius converts without rounding.
func FahrenheitToCelsius(f float64) float64 { return (f - 32) * 5 / 9 }

// Temperature converts value, expressed in scale from, into the display
// scale (Celsius when metric) rounded to one decimal. A value already in
// the display scale is only rounded.
func Temperature(value float64, from Scale, metric bool) Quantity {
	to := ScaleFahrenheit
	if metric {
		to = ScaleCelsius
	}
	switch {
	case from == to:
	case to == ScaleFahrenheit:
		value = CelsiusToFahrenheit(value)
	default:
		value = FahrenheitToCelsius(value)
	}
	return Quantity{Value: Round(value, 1), Unit: to.Label()}
}

// ParseTemperature reads a value+unit pair such as "159 F" or "68.3 C".
// A missing unit means Celsius. ok is false when no leading number exists.
func ParseTemperature(s string) (value float64, scale Scale, ok bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, ScaleCelsius, false
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, ScaleCelsius, false
	}
	if len(fields) > 1 && strings.EqualFold(strings.TrimPrefix(fields[1], "°"), Fahrenheit) {
		return v, ScaleFahrenheit, true
	}
	return v, ScaleCelsius, true
}
