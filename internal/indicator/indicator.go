package indicator

import (
	"math"

	"marketmirror/pkg/model"
)

// Indicator names as they appear in model.Indicators
const (
	SMA5       = "sma_5"
	SMA10      = "sma_10"
	SMA20      = "sma_20"
	Volatility = "volatility"
	Momentum5d = "momentum_5d"
	RSI14      = "rsi"
	BBUpper    = "bb_upper"
	BBMiddle   = "bb_middle"
	BBLower    = "bb_lower"
)

// FromHistory extracts the chronological price series from history points
func FromHistory(points []model.PricePoint) []float64 {
	prices := make([]float64, 0, len(points))
	for _, p := range points {
		prices = append(prices, p.Price)
	}
	return prices
}

// Mean calculates the arithmetic mean
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// SampleStdev calculates the Bessel-corrected standard deviation (divide by n-1)
func SampleStdev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := Mean(xs)
	var sumSquares float64
	for _, x := range xs {
		diff := x - mean
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(xs)-1))
}

// SMA calculates the simple moving average of the last period prices
func SMA(prices []float64, period int) float64 {
	if len(prices) < period {
		return 0
	}
	return Mean(prices[len(prices)-period:])
}

// CalculateRSI calculates the Relative Strength Index over the given window.
// Zero differences count as zero in both the gain and loss buckets.
func CalculateRSI(prices []float64) float64 {
	if len(prices) < 2 {
		return 50 // neutral
	}

	var gains, losses float64
	for i := 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	periods := float64(len(prices) - 1)
	avgGain := gains / periods
	avgLoss := losses / periods

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	rsi := 100 - (100 / (1 + rs))

	return math.Round(rsi*100) / 100
}

// CalculateMomentum calculates the rate of change against the price lag
// periods back, in percent. Reports false when the lagged price is zero.
func CalculateMomentum(prices []float64, lag int) (float64, bool) {
	if len(prices) < lag {
		return 0, false
	}
	old := prices[len(prices)-lag]
	if old == 0 {
		return 0, false
	}
	current := prices[len(prices)-1]
	return ((current - old) / old) * 100, true
}

// Compute derives all indicators the price history supports. Indicators whose
// minimum-length precondition is not met are omitted, never zeroed.
func Compute(prices []float64) model.Indicators {
	ind := make(model.Indicators)

	if len(prices) >= 5 {
		ind[SMA5] = SMA(prices, 5)
	}
	if len(prices) >= 10 {
		ind[SMA10] = SMA(prices, 10)
	}
	if len(prices) >= 20 {
		ind[SMA20] = SMA(prices, 20)
	}

	if len(prices) >= 10 {
		ind[Volatility] = SampleStdev(prices[len(prices)-10:])
	}

	if len(prices) >= 5 {
		if m, ok := CalculateMomentum(prices, 5); ok {
			ind[Momentum5d] = m
		}
	}

	if len(prices) >= 14 {
		ind[RSI14] = CalculateRSI(prices[len(prices)-14:])
	}

	if len(prices) >= 20 {
		sma20 := SMA(prices, 20)
		std20 := SampleStdev(prices[len(prices)-20:])
		ind[BBUpper] = sma20 + 2*std20
		ind[BBMiddle] = sma20
		ind[BBLower] = sma20 - 2*std20
	}

	return ind
}
