package main

import "math"

// logSteps builds the table of brightness checkpoints used by log-step
// expressions: steps+1 non-decreasing levels from 1 up to max.
//
// The low end of the table advances in unit steps (at low absolute
// brightness a single unit is already a noticeable change). From the first
// pivot where unit spacing would be coarser than geometric spacing, the
// remaining levels are spaced geometrically so that each step feels roughly
// equal, matching the logarithmic response of human brightness perception.
func logSteps(max, steps int) []int {
	// Cannot have more steps than integer levels between 1 and max.
	if steps > max-1 {
		steps = max - 1
	}
	if steps < 0 {
		steps = 0
	}

	table := make([]float64, steps+1)
	for i := 1; i <= steps; i++ {
		table[i-1] = float64(i)
	}
	table[steps] = float64(max)

	if steps >= 2 {
		// Find the pivot: the first position where carrying level n up
		// to max in the remaining hops separates consecutive levels by
		// more than one unit. If no position qualifies, the last
		// candidate pivot is used.
		pivot := steps - 1
		scale := 0.0
		for n := 1; n < steps; n++ {
			scale = math.Pow(float64(max)/float64(n), 1/float64(steps-n+1))
			pivot = n
			if float64(n)*(scale-1) > 1 {
				break
			}
		}

		for i := pivot; i < steps; i++ {
			table[i] = table[i-1] * scale
		}
	}

	out := make([]int, len(table))
	for i, v := range table {
		out[i] = int(math.Round(v))
	}
	return out
}

// bisectRight returns the insertion index after any run of entries equal
// to x (levels strictly greater than x start here).
func bisectRight(levels []int, x int) int {
	lo, hi := 0, len(levels)
	for lo < hi {
		mid := (lo + hi) / 2
		if levels[mid] <= x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// bisectLeft returns the insertion index before any run of entries equal
// to x (levels at or above x start here).
func bisectLeft(levels []int, x int) int {
	lo, hi := 0, len(levels)
	for lo < hi {
		mid := (lo + hi) / 2
		if levels[mid] < x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
