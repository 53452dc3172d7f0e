package utils

import (
	"math"
)

type Fl = float32

// IsFinite is false for NaN and infinities.
func IsFinite(x Fl) bool {
	return !math.IsNaN(float64(x)) && !math.IsInf(float64(x), 0)
}

// RoundPrec rounds f with n digits precision
func RoundPrec(f Fl, n int) Fl {
	n10 := math.Pow10(n)
	return Fl(math.Round(float64(f)*n10) / n10)
}

// Round rounds f with 6 digits precision
func Round(f Fl) Fl {
	return RoundPrec(f, 6)
}
