package indicator

import "github.com/matthewlshields/jx-42/internal/types"

// simpleMovingAverage returns the average of the trailing window closes.
// The second return is false when there is not enough history.
func simpleMovingAverage(points []types.PricePoint, window int) (float64, bool) {
	if window <= 0 || len(points) < window {
		return 0, false
	}

	sum := 0.0
	for _, p := range points[len(points)-window:] {
		sum += p.Close
	}

	return sum / float64(window), true
}

// highestHigh returns the maximum high over points, false for an empty slice.
func highestHigh(points []types.PricePoint) (float64, bool) {
	if len(points) == 0 {
		return 0, false
	}

	highest := points[0].High
	for _, p := range points[1:] {
		if p.High > highest {
			highest = p.High
		}
	}

	return highest, true
}
