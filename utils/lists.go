package utils

import (
	"gonum.org/v1/gonum/floats"
)

// FullList returns a copy of list extended to length n by repeating its last
// element. An empty list is filled with def. Lists already n or longer are
// copied unchanged.
func FullList[T any](list []T, n int, def T) (full []T) {
	var (
		fill = def
	)
	if len(list) >= n {
		full = make([]T, len(list))
		copy(full, list)
		return
	}
	full = make([]T, n)
	copy(full, list)
	if len(list) > 0 {
		fill = list[len(list)-1]
	}
	for i := len(list); i < n; i++ {
		full[i] = fill
	}
	return
}

// Linspace returns n evenly spaced values from min to max inclusive.
func Linspace(min, max float64, n int) (x []float64) {
	switch {
	case n <= 0:
		return []float64{}
	case n == 1:
		return []float64{min}
	}
	x = make([]float64, n)
	floats.Span(x, min, max)
	return
}
