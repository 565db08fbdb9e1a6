package weather

import (
	"fmt"
	"math"
)

// Unit is the temperature unit used for display. Storage is always Celsius.
type Unit string

const (
	Celsius    Unit = "celsius"
	Fahrenheit Unit = "fahrenheit"
)

// Round rounds half up: Round(-2.5) == -2, Round(2.5) == 3.
func Round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// RoundPtr rounds v when present.
func RoundPtr(v *float64) *int {
	if v == nil {
		return nil
	}
	r := Round(*v)
	return &r
}

// ToFahrenheit converts Celsius to a rounded Fahrenheit value.
func ToFahrenheit(celsius float64) int {
	return Round(celsius*9/5 + 32)
}

// ToCelsius converts Fahrenheit to a rounded Celsius value.
// Rounding makes the C->F->C path lossy by up to one unit on the F side.
func ToCelsius(fahrenheit float64) int {
	return Round((fahrenheit - 32) * 5 / 9)
}

// Symbol returns the display suffix for the unit.
func (u Unit) Symbol() string {
	if u == Fahrenheit {
		return "°F"
	}
	return "°C"
}

// Valid reports whether u is a known unit.
func (u Unit) Valid() bool {
	return u == Celsius || u == Fahrenheit
}

// FormatTemperature renders a Celsius value in the requested unit, or "-" when absent.
func FormatTemperature(tempC *int, unit Unit) string {
	if tempC == nil {
		return "-"
	}
	if unit == Fahrenheit {
		return fmt.Sprintf("%d°F", ToFahrenheit(float64(*tempC)))
	}
	return fmt.Sprintf("%d°C", *tempC)
}
